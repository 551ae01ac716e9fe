package attachment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attachment struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TaskID      uuid.UUID `json:"taskId" gorm:"type:uuid;not null;index"`
	Filename    string    `json:"filename" gorm:"not null"`
	ObjectName  string    `json:"-" gorm:"not null"`
	URL         string    `json:"url" gorm:"not null"`
	Size        int64     `json:"size" gorm:"not null"`
	ContentType string    `json:"contentType"`
	UploadedBy  uuid.UUID `json:"uploadedBy" gorm:"type:uuid;not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
