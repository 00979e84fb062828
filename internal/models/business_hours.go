package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Horário por dia da semana (0=domingo), chaveado pelo dono da unidade.
type BusinessHours struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_business_hours_user_day;not null" json:"user_id"`
	DayOfWeek int       `gorm:"uniqueIndex:idx_business_hours_user_day;not null" json:"day_of_week"`

	IsOpen      bool   `gorm:"default:true" json:"is_open"`
	OpeningTime string `gorm:"size:8" json:"opening_time"`
	ClosingTime string `gorm:"size:8" json:"closing_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BusinessHours) TableName() string { return "business_hours" }

func (h *BusinessHours) BeforeCreate(*gorm.DB) error {
	ensureID(&h.ID)
	return nil
}

// Configurações gerais da conta: horário padrão e lembretes.
type BusinessSettings struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	OpeningTime *string `gorm:"size:8" json:"opening_time"`
	ClosingTime *string `gorm:"size:8" json:"closing_time"`

	AppointmentReminderEnabled  bool    `gorm:"default:false" json:"appointment_reminder_enabled"`
	AppointmentReminderMinutes  int     `gorm:"default:60" json:"appointment_reminder_minutes"`
	AppointmentReminderTemplate *string `gorm:"type:text" json:"appointment_reminder_template"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BusinessSettings) TableName() string { return "business_settings" }

func (s *BusinessSettings) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
