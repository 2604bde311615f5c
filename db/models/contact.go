package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContactStatus string

const (
	ContactEnabled  ContactStatus = "ENABLED"
	ContactDisabled ContactStatus = "DISABLED"
	ContactDeleted  ContactStatus = "DELETED"
)

type ContactSource string

const (
	SourceManual ContactSource = "manual"
	SourceImport ContactSource = "import"
	SourceAPI    ContactSource = "api"
	SourceForm   ContactSource = "form"
)

const DefaultContactLanguage = "en"

// DocumentShare is a sharing grant stored on the contact. Granting and
// revoking happen elsewhere; the contact only carries the list.
type DocumentShare struct {
	DocumentID uuid.UUID  `json:"documentId"`
	Permission string     `json:"permission"` // view, download
	GrantedAt  time.Time  `json:"grantedAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Contact belongs to one organization. Email is unique per organization among
// contacts that are not DELETED (see config.CreateContactEmailPartialIndex).
type Contact struct {
	ID             uuid.UUID                          `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName      string                             `gorm:"size:100" json:"firstName" validate:"required,max=100"`
	LastName       string                             `gorm:"size:100" json:"lastName" validate:"required,max=100"`
	Email          string                             `gorm:"size:254;not null" json:"email" validate:"required,email,max=254"`
	Phone          string                             `gorm:"size:50" json:"phone" validate:"max=50"`
	Company        string                             `gorm:"size:200" json:"company" validate:"max=200"`
	Language       string                             `gorm:"size:35;default:en" json:"language" validate:"max=35"`
	Status         ContactStatus                      `gorm:"size:20;not null;default:ENABLED;index" json:"status" validate:"oneof=ENABLED DISABLED DELETED"`
	Tags           datatypes.JSONSlice[string]        `gorm:"type:jsonb" json:"tags" validate:"dive,max=50"`
	Notes          string                             `gorm:"type:text" json:"notes"`
	Source         ContactSource                      `gorm:"size:20;not null;default:manual" json:"source" validate:"oneof=manual import api form"`
	UserID         uuid.UUID                          `gorm:"type:uuid;not null" json:"userId" validate:"required"`
	OrganizationID uuid.UUID                          `gorm:"type:uuid;not null;index" json:"organizationId" validate:"required"`
	DocumentShares datatypes.JSONSlice[DocumentShare] `gorm:"type:jsonb" json:"documentShares"`
	CreatedAt      time.Time                          `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                          `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt      *time.Time                         `json:"deletedAt,omitempty"`
}

// ApplyDefaults fills the fields the database would otherwise default, so
// validation sees the same values that end up stored.
func (c *Contact) ApplyDefaults() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Language == "" {
		c.Language = DefaultContactLanguage
	}
	if c.Status == "" {
		c.Status = ContactEnabled
	}
	if c.Source == "" {
		c.Source = SourceManual
	}
	if c.Tags == nil {
		c.Tags = datatypes.JSONSlice[string]{}
	}
	if c.DocumentShares == nil {
		c.DocumentShares = datatypes.JSONSlice[DocumentShare]{}
	}
}

// BeforeCreate hook
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	c.ApplyDefaults()
	return ValidateContact(c)
}

func (c *Contact) IsDeleted() bool {
	return c.Status == ContactDeleted
}
