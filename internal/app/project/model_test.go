package project

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHasAccess(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	stranger := uuid.New()

	p := &Project{
		CreatedBy: owner,
		Members:   []uuid.UUID{member},
	}

	assert.True(t, p.HasAccess(owner))
	assert.True(t, p.HasAccess(member))
	assert.False(t, p.HasAccess(stranger))
}

func TestHasAccessEmptyMembers(t *testing.T) {
	owner := uuid.New()
	p := &Project{CreatedBy: owner}

	assert.True(t, p.HasAccess(owner))
	assert.False(t, p.HasAccess(uuid.New()))
}

func TestIsOwnedBy(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()

	p := &Project{
		CreatedBy: owner,
		Members:   []uuid.UUID{member},
	}

	assert.True(t, p.IsOwnedBy(owner))
	// Membership is not ownership.
	assert.False(t, p.IsOwnedBy(member))
}
