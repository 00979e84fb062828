package appointment

import "github.com/BruksfildServices01/agenda-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

const (
	SourceWhatsApp = "whatsapp"
	SourceStaff    = "staff"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCompleted},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// ErrNotFound is returned for missing appointments and for transitions out of
// a terminal state alike.
var ErrNotFound = httperr.NotFound(
	"appointment_not_found",
	"Agendamento não encontrado ou já cancelado",
)

// ===============================
// Validations
// ===============================

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrNotFound
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// OpenStatuses are the states from which an appointment may still be cancelled.
func OpenStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

func InitialStatus() Status {
	return StatusPending
}

var ErrSlotTaken = httperr.Conflict(
	"slot_taken",
	"Horário indisponível para este profissional",
)
