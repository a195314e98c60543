package shotlist

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultProjectName = "Untitled Project"

type Project struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	OwnerID uint   `gorm:"not null;index:idx_projects_owner" json:"-"`
	Name    string `gorm:"not null" json:"name"`

	LastOpenedAt *time.Time `json:"last_opened_at,omitempty"`

	Scenes []Scene `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// RecentAt is the time projects are listed by: last opened, else created.
func (p Project) RecentAt() time.Time {
	if p.LastOpenedAt != nil {
		return *p.LastOpenedAt
	}
	return p.CreatedAt
}
