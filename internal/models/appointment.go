package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID    uuid.UUID  `gorm:"type:uuid;index:idx_appointments_unit_start;not null" json:"unit_id"`
	CompanyID *uuid.UUID `gorm:"type:uuid" json:"company_id"`

	BarberID uuid.UUID `gorm:"type:uuid;index;not null" json:"barber_id"`
	Barber   Barber    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barber"`

	ServiceID uuid.UUID `gorm:"type:uuid;not null" json:"service_id"`
	Service   Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	ClientID        *uuid.UUID `gorm:"type:uuid;index" json:"client_id"`
	ClientName      string     `gorm:"size:200;not null" json:"client_name"`
	ClientPhone     *string    `gorm:"size:20;index" json:"client_phone"`
	ClientBirthDate *string    `gorm:"size:10" json:"client_birth_date"`

	IsDependent bool       `gorm:"default:false" json:"is_dependent"`
	DependentID *uuid.UUID `gorm:"type:uuid" json:"dependent_id"`

	// UTC
	StartTime time.Time `gorm:"index:idx_appointments_unit_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	TotalPrice float64 `json:"total_price"`
	Status     string  `gorm:"size:20;default:'pending'" json:"status"`
	Source     string  `gorm:"size:20;default:'whatsapp'" json:"source"`
	Notes      *string `gorm:"type:text" json:"notes"`

	ReminderSentAt *time.Time `json:"reminder_sent_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at"`
	CancelledAt    *time.Time `json:"cancelled_at"`
	CompletedAt    *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
