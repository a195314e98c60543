package media

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attachment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	// StorageKey is the object name in the blob store.
	StorageKey string `gorm:"not null;uniqueIndex:idx_attachments_storage_key" json:"storage_key"`
	Filename   string `gorm:"not null" json:"filename"`
	OwnerID    uint   `gorm:"not null;index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
