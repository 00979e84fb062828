package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshot imutável gravado a cada cancelamento.
type CancellationHistory struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"unit_id"`
	CompanyID     *uuid.UUID `gorm:"type:uuid" json:"company_id"`
	AppointmentID uuid.UUID  `gorm:"type:uuid;index;not null" json:"appointment_id"`

	ClientName  string  `gorm:"size:200" json:"client_name"`
	ClientPhone *string `gorm:"size:20" json:"client_phone"`
	BarberName  string  `gorm:"size:100" json:"barber_name"`
	ServiceName string  `gorm:"size:100" json:"service_name"`

	ScheduledTime      time.Time `json:"scheduled_time"`
	CancelledAt        time.Time `json:"cancelled_at"`
	MinutesBefore      int       `json:"minutes_before"`
	IsLateCancellation bool      `json:"is_late_cancellation"`
	IsNoShow           bool      `json:"is_no_show"`
	TotalPrice         float64   `json:"total_price"`
	CancellationSource string    `gorm:"size:20" json:"cancellation_source"`

	CreatedAt time.Time `json:"created_at"`
}

func (CancellationHistory) TableName() string { return "cancellation_history" }

func (h *CancellationHistory) BeforeCreate(*gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
