package shotlist

import (
	"time"

	"brickshot/internal/domain/ordering"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Scene struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;not null;index:idx_scenes_project" json:"project_id"`

	LockedNumber *int   `json:"locked_number"`
	Description  string `gorm:"not null;default:''" json:"description"`

	ShotOrder ordering.OrderList `gorm:"type:text;not null" json:"shot_order"`

	Shots []Shot `gorm:"foreignKey:SceneID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Scene) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ShotOrder == nil {
		s.ShotOrder = ordering.OrderList{}
	}
	return nil
}
