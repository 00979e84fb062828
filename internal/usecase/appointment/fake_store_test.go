package appointment

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/appointment"
	clientdomain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/whatsapp"
)

// fakeStore backs both repositories in memory.
type fakeStore struct {
	mu sync.Mutex

	units        []models.Unit
	hours        []models.BusinessHours
	settings     *models.BusinessSettings
	barbers      []models.Barber
	services     []models.Service
	appointments []models.Appointment
	history      []models.CancellationHistory

	clients    []models.Client
	dependents []models.ClientDependent

	createErr error
}

var (
	_ domain.Repository       = (*fakeStore)(nil)
	_ clientdomain.Repository = (*fakeStore)(nil)
)

func newUnit(store *fakeStore) *models.Unit {
	u := models.Unit{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     "Centro",
		Timezone: "America/Sao_Paulo",
	}
	store.units = append(store.units, u)
	return &u
}

func (f *fakeStore) addBarber(unitID uuid.UUID, name string) models.Barber {
	b := models.Barber{ID: uuid.New(), UnitID: unitID, Name: name, IsActive: true}
	f.barbers = append(f.barbers, b)
	return b
}

func (f *fakeStore) addService(unitID uuid.UUID, name string, minutes int, price float64) models.Service {
	s := models.Service{ID: uuid.New(), UnitID: unitID, Name: name, DurationMinutes: minutes, Price: price, IsActive: true}
	f.services = append(f.services, s)
	return s
}

func (f *fakeStore) addAppointment(ap models.Appointment) models.Appointment {
	if ap.ID == uuid.Nil {
		ap.ID = uuid.New()
	}
	if ap.Status == "" {
		ap.Status = string(domain.StatusPending)
	}
	f.appointments = append(f.appointments, ap)
	return ap
}

func (f *fakeStore) appointment(id uuid.UUID) models.Appointment {
	for _, ap := range f.appointments {
		if ap.ID == id {
			return ap
		}
	}
	return models.Appointment{}
}

func (f *fakeStore) hydrate(ap models.Appointment) *models.Appointment {
	for _, b := range f.barbers {
		if b.ID == ap.BarberID {
			ap.Barber = b
		}
	}
	for _, s := range f.services {
		if s.ID == ap.ServiceID {
			ap.Service = s
		}
	}
	return &ap
}

func contains(set []string, v *string) bool {
	if v == nil {
		return false
	}
	for _, s := range set {
		if s == *v {
			return true
		}
	}
	return false
}

func isOpen(status string) bool {
	return status == string(domain.StatusPending) || status == string(domain.StatusConfirmed)
}

// ---- appointment repository ----

func (f *fakeStore) FindUnit(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	for i := range f.units {
		if f.units[i].ID == id {
			u := f.units[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUnitByInstance(_ context.Context, instance string) (*models.Unit, error) {
	for i := range f.units {
		if f.units[i].EvolutionInstanceName == instance {
			u := f.units[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindBusinessHours(_ context.Context, userID uuid.UUID, dow int) (*models.BusinessHours, error) {
	for i := range f.hours {
		if f.hours[i].UserID == userID && f.hours[i].DayOfWeek == dow {
			h := f.hours[i]
			return &h, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindBusinessSettings(context.Context, uuid.UUID) (*models.BusinessSettings, error) {
	return f.settings, nil
}

func (f *fakeStore) ListBusinessHours(_ context.Context, userID uuid.UUID) ([]models.BusinessHours, error) {
	var out []models.BusinessHours
	for _, h := range f.hours {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceBusinessHours(_ context.Context, userID uuid.UUID, hours []models.BusinessHours) error {
	kept := f.hours[:0]
	for _, h := range f.hours {
		if h.UserID != userID {
			kept = append(kept, h)
		}
	}
	f.hours = append(kept, hours...)
	return nil
}

func (f *fakeStore) ListActiveBarbers(_ context.Context, unitID uuid.UUID, nameFilter string) ([]models.Barber, error) {
	var out []models.Barber
	for _, b := range f.barbers {
		if b.UnitID == unitID && b.IsActive &&
			strings.Contains(strings.ToLower(b.Name), strings.ToLower(nameFilter)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveServices(_ context.Context, unitID uuid.UUID) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f.services {
		if s.UnitID == unitID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) FindActiveBarber(ctx context.Context, unitID uuid.UUID, name string) (*models.Barber, error) {
	list, _ := f.ListActiveBarbers(ctx, unitID, name)
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (f *fakeStore) FindActiveService(_ context.Context, unitID uuid.UUID, name string) (*models.Service, error) {
	for i := range f.services {
		s := f.services[i]
		if s.UnitID == unitID && s.IsActive &&
			strings.Contains(strings.ToLower(s.Name), strings.ToLower(name)) {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListAppointmentsForDay(_ context.Context, unitID uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.UnitID == unitID && ap.Status != string(domain.StatusCancelled) &&
			!ap.StartTime.Before(start) && !ap.StartTime.After(end) {
			out = append(out, *f.hydrate(ap))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeStore) ListOverlapping(_ context.Context, barberID uuid.UUID, start, end time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlapping(barberID, start, end), nil
}

func (f *fakeStore) overlapping(barberID uuid.UUID, start, end time.Time) []models.Appointment {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.BarberID == barberID && ap.Status != string(domain.StatusCancelled) &&
			ap.StartTime.Before(end) && ap.EndTime.After(start) {
			out = append(out, ap)
		}
	}
	return out
}

func (f *fakeStore) FindAppointment(_ context.Context, unitID, id uuid.UUID) (*models.Appointment, error) {
	for _, ap := range f.appointments {
		if ap.ID == id && ap.UnitID == unitID {
			return f.hydrate(ap), nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindCancellableByPhone(_ context.Context, q domain.PhoneLookup) (*models.Appointment, error) {
	var matches []models.Appointment
	for _, ap := range f.appointments {
		if ap.UnitID != q.UnitID || !isOpen(ap.Status) || !contains(q.Phones, ap.ClientPhone) {
			continue
		}
		if q.DayStart != nil {
			if ap.StartTime.Before(*q.DayStart) || ap.StartTime.After(*q.DayEnd) {
				continue
			}
		} else if ap.StartTime.Before(q.From) {
			continue
		}
		matches = append(matches, ap)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].StartTime.Equal(matches[j].StartTime) {
			return matches[i].StartTime.Before(matches[j].StartTime)
		}
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return f.hydrate(matches[0]), nil
}

func (f *fakeStore) FindNextPendingByPhone(_ context.Context, unitID uuid.UUID, phones []string, from time.Time) (*models.Appointment, error) {
	var next *models.Appointment
	for i := range f.appointments {
		ap := f.appointments[i]
		if ap.UnitID != unitID || ap.Status != string(domain.StatusPending) ||
			!contains(phones, ap.ClientPhone) || ap.StartTime.Before(from) {
			continue
		}
		if next == nil || ap.StartTime.Before(next.StartTime) {
			next = &ap
		}
	}
	if next == nil {
		return nil, nil
	}
	return f.hydrate(*next), nil
}

func (f *fakeStore) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if len(f.overlapping(ap.BarberID, ap.StartTime, ap.EndTime)) > 0 {
		return domain.ErrSlotTaken
	}
	ap.ID = uuid.New()
	ap.CreatedAt = time.Now()
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeStore) replace(ap *models.Appointment) {
	for i := range f.appointments {
		if f.appointments[i].ID == ap.ID {
			stored := *ap
			stored.Barber, stored.Service = models.Barber{}, models.Service{}
			f.appointments[i] = stored
		}
	}
}

// isOpen mirrors the status guard of the gorm writes.
func (f *fakeStore) isOpen(id uuid.UUID) bool {
	for _, ap := range f.appointments {
		if ap.ID == id {
			return ap.Status == string(domain.StatusPending) || ap.Status == string(domain.StatusConfirmed)
		}
	}
	return false
}

func (f *fakeStore) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if !f.isOpen(ap.ID) {
		return domain.ErrNotFound
	}
	f.replace(ap)
	return nil
}

func (f *fakeStore) CancelAppointment(_ context.Context, ap *models.Appointment, record *models.CancellationHistory) error {
	if !f.isOpen(ap.ID) {
		return domain.ErrNotFound
	}
	f.replace(ap)
	f.history = append(f.history, *record)
	return nil
}

func (f *fakeStore) ListReminderCandidates(context.Context, time.Time, time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (f *fakeStore) MarkReminderSent(context.Context, uuid.UUID, time.Time) (bool, error) {
	return true, nil
}

// ---- client repository ----

func (f *fakeStore) sortedClients(match func(models.Client) bool) []models.Client {
	var out []models.Client
	for _, c := range f.clients {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) FindByPhones(_ context.Context, unitID uuid.UUID, phones []string) ([]models.Client, error) {
	return f.sortedClients(func(c models.Client) bool {
		return c.UnitID == unitID && contains(phones, c.Phone)
	}), nil
}

func (f *fakeStore) FindByName(_ context.Context, unitID uuid.UUID, name string, birthDate *string) ([]models.Client, error) {
	return f.sortedClients(func(c models.Client) bool {
		if c.UnitID != unitID || !strings.EqualFold(c.Name, name) {
			return false
		}
		return birthDate == nil || (c.BirthDate != nil && *c.BirthDate == *birthDate)
	}), nil
}

func (f *fakeStore) Create(_ context.Context, c *models.Client) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	f.clients = append(f.clients, *c)
	return nil
}

func (f *fakeStore) Update(context.Context, *models.Client, map[string]any) error { return nil }

func (f *fakeStore) Search(context.Context, uuid.UUID, string, int, int) ([]models.Client, int64, error) {
	return nil, 0, nil
}

func (f *fakeStore) ListDependents(_ context.Context, clientID uuid.UUID) ([]models.ClientDependent, error) {
	var out []models.ClientDependent
	for _, d := range f.dependents {
		if d.ClientID == clientID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) FindDependentByName(_ context.Context, clientID uuid.UUID, name string) (*models.ClientDependent, error) {
	for i := range f.dependents {
		if f.dependents[i].ClientID == clientID && strings.EqualFold(f.dependents[i].Name, name) {
			d := f.dependents[i]
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateDependent(_ context.Context, d *models.ClientDependent) error {
	d.ID = uuid.New()
	f.dependents = append(f.dependents, *d)
	return nil
}

func (f *fakeStore) LastCompletedAppointment(context.Context, uuid.UUID, []string) (*models.Appointment, error) {
	return nil, nil
}

// ---- side effects ----

type recordingNotifier struct {
	mu   sync.Mutex
	sent []whatsapp.Message
}

func (n *recordingNotifier) Notify(m whatsapp.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, m)
	return true
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.events))
	for i, ev := range a.events {
		out[i] = ev.Action
	}
	return out
}
