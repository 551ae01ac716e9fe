package project

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string      `json:"name" gorm:"not null"`
	Description string      `json:"description,omitempty"`
	Color       string      `json:"color" gorm:"not null;default:'#3B82F6'"`
	CreatedBy   uuid.UUID   `json:"createdBy" gorm:"type:uuid;not null;index"`
	Members     []uuid.UUID `json:"members" gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Members == nil {
		p.Members = []uuid.UUID{}
	}
	return nil
}

// HasAccess reports whether userID may read or mutate anything owned by this
// project. Board, task and collection access always reduces to this check;
// there is no narrower per-entity ACL.
func (p *Project) HasAccess(userID uuid.UUID) bool {
	if p.CreatedBy == userID {
		return true
	}
	for _, m := range p.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsOwnedBy gates destructive project-level operations (delete project,
// delete board).
func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.CreatedBy == userID
}
