package shotlist

import (
	"time"

	"brickshot/internal/domain/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Shot struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	SceneID string `gorm:"type:uuid;not null;index:idx_shots_scene" json:"scene_id"`

	Status       Status  `gorm:"type:varchar(16);not null;default:'default'" json:"status"`
	LockedNumber *int    `json:"locked_number"`
	Description  string  `gorm:"not null;default:''" json:"description"`
	Location     *string `json:"location"`
	Notes        string  `gorm:"not null;default:''" json:"notes"`

	// Attachments holds attachment ids in the order they were added.
	Attachments ordering.OrderList `gorm:"type:text;not null" json:"attachments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Shot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = StatusDefault
	}
	if s.Attachments == nil {
		s.Attachments = ordering.OrderList{}
	}
	return nil
}

func (s Shot) IsLocked() bool { return s.LockedNumber != nil }
