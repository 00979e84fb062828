package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/models"
)

func kindOf(t *testing.T, err error) httperr.Kind {
	t.Helper()
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected business error, got %v", err)
	return be.Kind
}

func TestResolver_LegacyPhoneWithoutNine(t *testing.T) {
	repo := &fakeRepo{}
	unit := uuid.New()
	legacy := repo.addClient(unit, "João", "6599891722", time.Hour)
	resolver := NewResolver(repo, logging.Discard())

	for _, input := range []string{"65999891722", "6599891722", "+55 (65) 99989-1722"} {
		c, err := resolver.ByPhone(context.Background(), unit, input)
		require.NoError(t, err)
		require.NotNil(t, c, input)
		assert.Equal(t, legacy.ID, c.ID, input)
	}
}

func TestResolver_PrefersExactThenEarliest(t *testing.T) {
	repo := &fakeRepo{}
	unit := uuid.New()
	older := repo.addClient(unit, "Ana antiga", "556599891722", 48*time.Hour)
	repo.addClient(unit, "Ana nova", "65999891722", time.Hour)
	exact := repo.addClient(unit, "Ana padrão", "5565999891722", 30*time.Minute)
	resolver := NewResolver(repo, logging.Discard())

	c, err := resolver.ByPhone(context.Background(), unit, "65999891722")
	require.NoError(t, err)
	assert.Equal(t, exact.ID, c.ID)

	repo.clients = repo.clients[:2]
	c, err = resolver.ByPhone(context.Background(), unit, "65999891722")
	require.NoError(t, err)
	assert.Equal(t, older.ID, c.ID)
}

func TestResolver_ScopedToUnit(t *testing.T) {
	repo := &fakeRepo{}
	repo.addClient(uuid.New(), "Outro", "5565999891722", time.Hour)
	resolver := NewResolver(repo, logging.Discard())

	c, err := resolver.ByPhone(context.Background(), uuid.New(), "65999891722")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestResolver_StoreErrorPropagates(t *testing.T) {
	repo := &fakeRepo{err: errors.New("connection refused")}
	resolver := NewResolver(repo, logging.Discard())

	_, err := resolver.ByPhone(context.Background(), uuid.New(), "65999891722")
	assert.Error(t, err)
	_, isBusiness := httperr.AsBusiness(err)
	assert.False(t, isBusiness)
}

func TestCheckClient(t *testing.T) {
	repo := &fakeRepo{}
	unit := uuid.New()
	c := repo.addClient(unit, "João", "6599891722", time.Hour)
	repo.dependents = []models.ClientDependent{
		{ID: uuid.New(), ClientID: c.ID, Name: "Pedro"},
		{ID: uuid.New(), ClientID: c.ID, Name: "Ana"},
	}
	repo.appointments = []models.Appointment{
		{UnitID: unit, Status: "completed", ClientPhone: strPtr("6599891722"),
			StartTime: time.Now().Add(-72 * time.Hour),
			Service:   models.Service{Name: "Barba"}, Barber: models.Barber{Name: "Beto"}},
		{UnitID: unit, Status: "completed", ClientPhone: strPtr("5565999891722"),
			StartTime: time.Now().Add(-24 * time.Hour),
			Service:   models.Service{Name: "Corte"}, Barber: models.Barber{Name: "Carlos"}},
	}
	uc := NewCheckClient(repo, NewResolver(repo, logging.Discard()))

	out, err := uc.Execute(context.Background(), CheckClientInput{UnitID: unit, Phone: "65999891722"})
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, c.ID, out.Client.ID)
	require.Len(t, out.Dependents, 2)
	assert.Equal(t, "Ana", out.Dependents[0].Name)
	require.NotNil(t, out.LastService)
	assert.Equal(t, "Corte", *out.LastService)
	assert.Equal(t, "Carlos", *out.LastProfessional)

	missing, err := uc.Execute(context.Background(), CheckClientInput{UnitID: unit, Phone: "11988887777"})
	require.NoError(t, err)
	assert.False(t, missing.Found)
	assert.NotNil(t, missing.Dependents)

	_, err = uc.Execute(context.Background(), CheckClientInput{UnitID: unit})
	assert.Equal(t, httperr.KindValidation, kindOf(t, err))
}

func TestRegisterClient(t *testing.T) {
	repo := &fakeRepo{}
	unit := uuid.New()
	uc := NewRegisterClient(repo, NewResolver(repo, logging.Discard()), audit.Nop{})

	c, err := uc.Execute(context.Background(), RegisterClientInput{
		UnitID: unit,
		Name:   "  Maria  ",
		Phone:  "(65) 9989-1722",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria", c.Name)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "5565999891722", *c.Phone)
	assert.Equal(t, []string{"Novo"}, []string(c.Tags))

	_, err = uc.Execute(context.Background(), RegisterClientInput{
		UnitID: unit,
		Name:   "Maria de novo",
		Phone:  "65999891722",
	})
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.KindConflict, be.Kind)
	assert.Contains(t, be.Details, "existing_client")

	_, err = uc.Execute(context.Background(), RegisterClientInput{UnitID: unit})
	assert.Equal(t, httperr.KindValidation, kindOf(t, err))

	_, err = uc.Execute(context.Background(), RegisterClientInput{UnitID: unit, Name: "X", Phone: "123"})
	assert.Equal(t, httperr.KindValidation, kindOf(t, err))
}

func TestRegisterClient_WithoutPhone(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewRegisterClient(repo, NewResolver(repo, logging.Discard()), audit.Nop{})

	c, err := uc.Execute(context.Background(), RegisterClientInput{
		UnitID: uuid.New(),
		Name:   "Sem Telefone",
		Tags:   []any{"VIP"},
	})
	require.NoError(t, err)
	assert.Nil(t, c.Phone)
	assert.Equal(t, []string{"VIP"}, []string(c.Tags))
}

func TestUpdateClient(t *testing.T) {
	repo := &fakeRepo{}
	unit := uuid.New()
	existing := repo.addClient(unit, "João", "6599891722", time.Hour)
	existing.Notes = strPtr("antigo")
	repo.clients[0] = existing
	uc := NewUpdateClient(repo, NewResolver(repo, logging.Discard()), audit.Nop{})

	out, err := uc.Execute(context.Background(), UpdateClientInput{
		UnitID:   unit,
		Phone:    "65999891722",
		Name:     strPtr("João Silva"),
		Notes:    strPtr(""),
		NewPhone: strPtr("65 98888-7777"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "notes", "phone"}, out.UpdatedFields)
	assert.Equal(t, "João Silva", out.Client.Name)
	assert.Nil(t, out.Client.Notes)
	assert.Equal(t, "5565988887777", *out.Client.Phone)

	require.Len(t, repo.updates, 1)
	assert.Contains(t, repo.updates[0], "notes")
	assert.Nil(t, repo.updates[0]["notes"])
}

func TestUpdateClient_Rejections(t *testing.T) {
	repo := &fakeRepo{}
	unit := uuid.New()
	uc := NewUpdateClient(repo, NewResolver(repo, logging.Discard()), audit.Nop{})

	_, err := uc.Execute(context.Background(), UpdateClientInput{UnitID: unit, Name: strPtr("X")})
	assert.Equal(t, httperr.KindValidation, kindOf(t, err))

	_, err = uc.Execute(context.Background(), UpdateClientInput{UnitID: unit, Phone: "65999891722"})
	assert.Equal(t, httperr.KindValidation, kindOf(t, err))

	_, err = uc.Execute(context.Background(), UpdateClientInput{UnitID: unit, Phone: "65999891722", Name: strPtr("X")})
	assert.Equal(t, httperr.KindNotFound, kindOf(t, err))
}

func TestAddDependent(t *testing.T) {
	repo := &fakeRepo{}
	unit := uuid.New()
	responsible := repo.addClient(unit, "Maria", "5565999891722", time.Hour)
	uc := NewAddDependent(repo, NewResolver(repo, logging.Discard()))

	out, err := uc.Execute(context.Background(), AddDependentInput{
		UnitID:       unit,
		Phone:        "65999891722",
		Name:         "Pedro",
		Relationship: strPtr("filho"),
	})
	require.NoError(t, err)
	assert.False(t, out.AlreadyExists)
	assert.Equal(t, responsible.ID, out.Dependent.ClientID)
	assert.Equal(t, unit, out.Dependent.UnitID)

	again, err := uc.Execute(context.Background(), AddDependentInput{UnitID: unit, Phone: "65999891722", Name: "pedro"})
	require.NoError(t, err)
	assert.True(t, again.AlreadyExists)
	assert.Equal(t, out.Dependent.ID, again.Dependent.ID)
	assert.Len(t, repo.dependents, 1)

	_, err = uc.Execute(context.Background(), AddDependentInput{UnitID: unit, Phone: "11900000000", Name: "Zé"})
	assert.Equal(t, httperr.KindNotFound, kindOf(t, err))

	_, err = uc.Execute(context.Background(), AddDependentInput{UnitID: unit, Phone: "65999891722"})
	assert.Equal(t, httperr.KindValidation, kindOf(t, err))
}
