package project

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewRepository(gdb), mock
}

func projectRows(p *Project) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "color", "created_by", "members", "created_at", "updated_at",
	}).AddRow(
		p.ID, p.Name, p.Description, p.Color, p.CreatedBy, `[]`, time.Now(), time.Now(),
	)
}

func TestGetByID(t *testing.T) {
	repo, mock := newMockDB(t)

	want := &Project{
		ID:        uuid.New(),
		Name:      "Flowboard",
		Color:     "#3B82F6",
		CreatedBy: uuid.New(),
	}

	mock.ExpectQuery(`SELECT (.+) FROM "projects" WHERE id = (.+)`).
		WithArgs(want.ID, 1).
		WillReturnRows(projectRows(want))

	got, err := repo.GetByID(want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "Flowboard", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "projects" WHERE id = (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUserQueriesMembership(t *testing.T) {
	repo, mock := newMockDB(t)

	userID := uuid.New()
	owned := &Project{ID: uuid.New(), Name: "Owned", Color: "#3B82F6", CreatedBy: userID}

	// The membership filter runs against the jsonb members document.
	mock.ExpectQuery(`SELECT (.+) FROM "projects" WHERE created_by = (.+) OR members @> (.+)`).
		WithArgs(userID, `["`+userID.String()+`"]`).
		WillReturnRows(projectRows(owned))

	projects, err := repo.GetForUser(userID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, owned.ID, projects[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
