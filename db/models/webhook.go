package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Webhook is subscription configuration only. Nothing in this service
// delivers to it yet.
type Webhook struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primary_key;" json:"id"`
	OrganizationID uuid.UUID                   `gorm:"type:uuid;not null;index" json:"organizationId"`
	URL            string                      `gorm:"size:2048;not null" json:"url"`
	Events         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"events"`
	Secret         string                      `gorm:"size:255" json:"-"`
	Active         bool                        `gorm:"default:true" json:"active"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (w *Webhook) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
