// Package reminder sends the WhatsApp "SIM/NÃO" reminder ahead of pending
// appointments, on a cron schedule.
package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
	"github.com/BruksfildServices01/agenda-api/internal/timezone"
	"github.com/BruksfildServices01/agenda-api/internal/whatsapp"
)

const (
	DefaultSchedule    = "* * * * *"
	DefaultLeadMinutes = 60
	MaxLeadWindow      = 24 * time.Hour
	runTimeout         = 50 * time.Second
)

// Store is the slice of the appointment repository the job reads.
type Store interface {
	FindUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	FindBusinessSettings(ctx context.Context, userID uuid.UUID) (*models.BusinessSettings, error)
	ListReminderCandidates(ctx context.Context, from, until time.Time) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type Service struct {
	store    Store
	notifier whatsapp.Notifier
	logger   *logging.Logger
	cron     *cron.Cron

	Now func() time.Time
}

func NewService(store Store, notifier whatsapp.Notifier, logger *logging.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		Now:      time.Now,
	}
}

// Start registers the job on schedule and starts the scheduler.
func (s *Service) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	s.cron = c

	s.logger.Info("reminder scheduler started", "schedule", schedule)
	return nil
}

// Stop waits for a running job to finish.
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

type unitConfig struct {
	unit     *models.Unit
	enabled  bool
	lead     time.Duration
	template string
}

// RunOnce claims and queues every reminder that is due now. It returns how
// many were queued.
func (s *Service) RunOnce(ctx context.Context) int {
	now := s.Now().UTC()

	candidates, err := s.store.ListReminderCandidates(ctx, now, now.Add(MaxLeadWindow))
	if err != nil {
		s.logger.Error("reminder candidates query failed", "error", err)
		return 0
	}

	configs := map[uuid.UUID]*unitConfig{}
	sent := 0

	for i := range candidates {
		ap := &candidates[i]
		if ap.ClientPhone == nil || *ap.ClientPhone == "" {
			continue
		}

		cfg, ok := configs[ap.UnitID]
		if !ok {
			cfg = s.loadConfig(ctx, ap.UnitID)
			configs[ap.UnitID] = cfg
		}
		if cfg == nil || !cfg.enabled {
			continue
		}
		if ap.StartTime.After(now.Add(cfg.lead)) {
			continue
		}

		// Claim first so a concurrent run never sends twice.
		claimed, err := s.store.MarkReminderSent(ctx, ap.ID, now)
		if err != nil {
			s.logger.Error("reminder claim failed", "appointment_id", ap.ID, "error", err)
			continue
		}
		if !claimed {
			continue
		}

		queued := s.notifier.Notify(whatsapp.Message{
			Kind:          whatsapp.KindReminder,
			UnitID:        ap.UnitID,
			AppointmentID: ap.ID,
			Instance:      cfg.unit.EvolutionInstanceName,
			APIKey:        cfg.unit.EvolutionAPIKey,
			Number:        phone.ForMessaging(*ap.ClientPhone),
			Text:          whatsapp.ReminderText(cfg.template, ap, unitTZ(cfg.unit)),
		})
		if queued {
			sent++
		}
	}

	if sent > 0 {
		s.logger.Info("reminders queued", "count", sent)
	}
	return sent
}

func (s *Service) loadConfig(ctx context.Context, unitID uuid.UUID) *unitConfig {
	unit, err := s.store.FindUnit(ctx, unitID)
	if err != nil {
		s.logger.Error("reminder unit lookup failed", "unit_id", unitID, "error", err)
		return nil
	}
	if unit == nil || !unit.CanMessage() {
		return nil
	}

	settings, err := s.store.FindBusinessSettings(ctx, unit.UserID)
	if err != nil {
		s.logger.Error("reminder settings lookup failed", "unit_id", unitID, "error", err)
		return nil
	}

	cfg := &unitConfig{unit: unit, lead: DefaultLeadMinutes * time.Minute}
	if settings == nil {
		return cfg
	}

	cfg.enabled = settings.AppointmentReminderEnabled
	if settings.AppointmentReminderMinutes > 0 {
		cfg.lead = time.Duration(settings.AppointmentReminderMinutes) * time.Minute
	}
	if cfg.lead > MaxLeadWindow {
		cfg.lead = MaxLeadWindow
	}
	if settings.AppointmentReminderTemplate != nil {
		cfg.template = *settings.AppointmentReminderTemplate
	}
	return cfg
}

func unitTZ(u *models.Unit) string {
	if timezone.IsValid(u.Timezone) {
		return u.Timezone
	}
	return timezone.DefaultTimezone
}
