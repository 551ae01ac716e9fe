package collection

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection groups tasks across boards of one project. Names are unique
// within a project, enforced at the database level.
type Collection struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_collections_project_name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color" gorm:"not null;default:'#6366F1'"`
	ProjectID   uuid.UUID `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_collections_project_name"`
	CreatedBy   uuid.UUID `json:"createdBy" gorm:"type:uuid;not null"`
	Order       int       `json:"order" gorm:"not null;default:0"`
	IsArchived  bool      `json:"isArchived" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (col *Collection) BeforeCreate(tx *gorm.DB) error {
	if col.ID == uuid.Nil {
		col.ID = uuid.New()
	}
	return nil
}
