package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Barber struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UnitID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"unit_id"`
	CompanyID *uuid.UUID `gorm:"type:uuid" json:"company_id"`

	Name          string `gorm:"size:100;not null" json:"name"`
	CalendarColor string `gorm:"size:20" json:"calendar_color"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	// Horário local "HH:MM"
	LunchBreakEnabled bool   `gorm:"default:false" json:"lunch_break_enabled"`
	LunchBreakStart   string `gorm:"size:8" json:"lunch_break_start"`
	LunchBreakEnd     string `gorm:"size:8" json:"lunch_break_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
