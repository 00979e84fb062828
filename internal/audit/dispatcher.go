package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/logging"
)

const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentCancelled = "appointment_cancelled"
	ActionAppointmentConfirmed = "appointment_confirmed"
	ActionAppointmentCompleted = "appointment_completed"
	ActionClientRegistered     = "client_registered"
	ActionClientUpdated        = "client_updated"
	ActionBusinessHoursUpdated = "business_hours_updated"
)

const defaultQueueSize = 100

type Event struct {
	UnitID   uuid.UUID
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID *uuid.UUID
	Metadata any
}

// Auditor accepts events without blocking the caller.
type Auditor interface {
	Dispatch(ev Event)
}

type Store interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	store  Store
	logger *logging.Logger
	queue  chan Event

	once sync.Once
	done chan struct{}
}

func NewDispatcher(store Store, logger *logging.Logger) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		logger: logger,
		queue:  make(chan Event, defaultQueueSize), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.store.Log(context.Background(), ev); err != nil {
			d.logger.Error("audit error", "action", ev.Action, "error", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	<-d.done
}

// Nop discards every event.
type Nop struct{}

func (Nop) Dispatch(Event) {}
