package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Cliente simples, sem login, vinculado à unidade. Phone guarda só dígitos.
type Client struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID    uuid.UUID  `gorm:"type:uuid;index:idx_clients_unit_phone;not null" json:"unit_id"`
	CompanyID *uuid.UUID `gorm:"type:uuid" json:"company_id"`

	Name      string         `gorm:"size:200;not null" json:"name"`
	Phone     *string        `gorm:"size:20;index:idx_clients_unit_phone" json:"phone"`
	BirthDate *string        `gorm:"size:10" json:"birth_date"`
	Notes     *string        `gorm:"type:text" json:"notes"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`

	TotalVisits int        `gorm:"default:0" json:"total_visits"`
	LastVisitAt *time.Time `json:"last_visit_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Pessoa atendida sob o contato de um cliente responsável.
type ClientDependent struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"client_id"`
	UnitID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"unit_id"`
	CompanyID *uuid.UUID `gorm:"type:uuid" json:"company_id"`

	Name         string  `gorm:"size:200;not null" json:"name"`
	Relationship *string `gorm:"size:50" json:"relationship"`
	BirthDate    *string `gorm:"size:10" json:"birth_date"`
	Notes        *string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *ClientDependent) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
