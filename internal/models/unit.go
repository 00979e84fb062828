package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Unidade física de uma empresa. UserID é o dono da conta, chave das
// configurações de horário.
type Unit struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`

	Name     string `gorm:"size:150;not null" json:"name"`
	Timezone string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`

	EvolutionInstanceName string `gorm:"size:100;index" json:"evolution_instance_name"`
	EvolutionAPIKey       string `gorm:"size:255" json:"-"`
	AgendaAPIKeyHash      string `gorm:"column:agenda_api_key;size:255" json:"-"`

	FidelityProgramEnabled bool `gorm:"default:false" json:"fidelity_program_enabled"`
	FidelityCutsRequired   int  `gorm:"default:10" json:"fidelity_cuts_required"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *Unit) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// CanMessage reports whether the unit has gateway credentials.
func (u *Unit) CanMessage() bool {
	return u.EvolutionInstanceName != "" && u.EvolutionAPIKey != ""
}
