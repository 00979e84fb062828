package dto

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentListDTO struct {
	ID          uuid.UUID `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	LocalTime   string    `json:"local_time"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	ClientPhone *string   `json:"client_phone"`
	BarberID    uuid.UUID `json:"barber_id"`
	BarberName  string    `json:"barber_name"`
	ServiceName string    `json:"service_name"`
	TotalPrice  float64   `json:"total_price"`
	IsDependent bool      `json:"is_dependent"`
}
