package client

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/models"
)

type fakeRepo struct {
	mu           sync.Mutex
	clients      []models.Client
	dependents   []models.ClientDependent
	appointments []models.Appointment

	updates []map[string]any
	err     error
}

func strPtr(s string) *string { return &s }

// addClient stores a client created age ago.
func (f *fakeRepo) addClient(unitID uuid.UUID, name, phone string, age time.Duration) models.Client {
	c := models.Client{
		ID:        uuid.New(),
		UnitID:    unitID,
		Name:      name,
		CreatedAt: time.Now().Add(-age),
	}
	if phone != "" {
		c.Phone = strPtr(phone)
	}
	f.clients = append(f.clients, c)
	return c
}

func (f *fakeRepo) sorted(match func(models.Client) bool) []models.Client {
	var out []models.Client
	for _, c := range f.clients {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeRepo) FindByPhones(_ context.Context, unitID uuid.UUID, phones []string) ([]models.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	set := map[string]bool{}
	for _, p := range phones {
		set[p] = true
	}
	return f.sorted(func(c models.Client) bool {
		return c.UnitID == unitID && c.Phone != nil && set[*c.Phone]
	}), nil
}

func (f *fakeRepo) FindByName(_ context.Context, unitID uuid.UUID, name string, birthDate *string) ([]models.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(func(c models.Client) bool {
		if c.UnitID != unitID || !strings.EqualFold(c.Name, name) {
			return false
		}
		if birthDate != nil {
			return c.BirthDate != nil && *c.BirthDate == *birthDate
		}
		return true
	}), nil
}

func (f *fakeRepo) Create(_ context.Context, c *models.Client) error {
	if f.err != nil {
		return f.err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	f.clients = append(f.clients, *c)
	return nil
}

func (f *fakeRepo) Update(_ context.Context, c *models.Client, fields map[string]any) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, fields)
	return nil
}

func (f *fakeRepo) Search(_ context.Context, unitID uuid.UUID, query string, limit, offset int) ([]models.Client, int64, error) {
	out := f.sorted(func(c models.Client) bool {
		return c.UnitID == unitID && strings.Contains(strings.ToLower(c.Name), strings.ToLower(query))
	})
	return out, int64(len(out)), nil
}

func (f *fakeRepo) ListDependents(_ context.Context, clientID uuid.UUID) ([]models.ClientDependent, error) {
	var out []models.ClientDependent
	for _, d := range f.dependents {
		if d.ClientID == clientID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRepo) FindDependentByName(_ context.Context, clientID uuid.UUID, name string) (*models.ClientDependent, error) {
	for i := range f.dependents {
		d := f.dependents[i]
		if d.ClientID == clientID && strings.EqualFold(d.Name, name) {
			return &d, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateDependent(_ context.Context, d *models.ClientDependent) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.dependents = append(f.dependents, *d)
	return nil
}

func (f *fakeRepo) LastCompletedAppointment(_ context.Context, unitID uuid.UUID, phones []string) (*models.Appointment, error) {
	set := map[string]bool{}
	for _, p := range phones {
		set[p] = true
	}
	var last *models.Appointment
	for i := range f.appointments {
		ap := f.appointments[i]
		if ap.UnitID != unitID || ap.Status != "completed" || ap.ClientPhone == nil || !set[*ap.ClientPhone] {
			continue
		}
		if last == nil || ap.StartTime.After(last.StartTime) {
			last = &ap
		}
	}
	return last, nil
}
