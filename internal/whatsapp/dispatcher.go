package whatsapp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/observability/metrics"
)

const (
	KindConfirmation = "confirmation"
	KindReminder     = "reminder"

	defaultWorkers   = 2
	defaultQueueSize = 100
	sendTimeout      = 15 * time.Second
)

type Message struct {
	Kind          string
	UnitID        uuid.UUID
	AppointmentID uuid.UUID

	Instance string
	APIKey   string
	Number   string
	Text     string
}

// Notifier queues a message without waiting for delivery. It reports false
// when the message was dropped.
type Notifier interface {
	Notify(msg Message) bool
}

type Sender interface {
	SendText(ctx context.Context, instance, apiKey, number, text string) error
}

type DispatcherConfig struct {
	Workers   int
	QueueSize int
}

// Dispatcher delivers messages from a buffered queue on a fixed set of
// workers. Failures are logged and counted, never returned.
type Dispatcher struct {
	sender  Sender
	logger  *logging.Logger
	metrics *metrics.AgendaMetrics
	queue   chan Message

	once sync.Once
	wg   sync.WaitGroup
}

func NewDispatcher(sender Sender, logger *logging.Logger, m *metrics.AgendaMetrics, cfg DispatcherConfig) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	d := &Dispatcher{
		sender:  sender,
		logger:  logger,
		metrics: m,
		queue:   make(chan Message, size),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sender.SendText(ctx, msg.Instance, msg.APIKey, msg.Number, msg.Text); err != nil {
		d.metrics.ObserveMessage(msg.Kind, metrics.OutcomeError)
		d.logger.Warn("whatsapp send failed",
			"kind", msg.Kind,
			"unit_id", msg.UnitID,
			"appointment_id", msg.AppointmentID,
			"error", err,
		)
		return
	}

	d.metrics.ObserveMessage(msg.Kind, metrics.OutcomeOK)
	d.logger.Info("whatsapp message sent",
		"kind", msg.Kind,
		"appointment_id", msg.AppointmentID,
	)
}

func (d *Dispatcher) Notify(msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.metrics.ObserveMessage(msg.Kind, "dropped")
		d.logger.Warn("whatsapp queue full, dropping message",
			"kind", msg.Kind,
			"appointment_id", msg.AppointmentID,
		)
		return false
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

// Nop drops every message.
type Nop struct{}

func (Nop) Notify(Message) bool { return false }
