package client

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
)

type CheckClientInput struct {
	UnitID uuid.UUID
	Phone  string
}

type CheckClientOutput struct {
	Found      bool
	Client     *models.Client
	Dependents []models.ClientDependent

	LastService      *string
	LastProfessional *string
}

type CheckClient struct {
	repo     domain.Repository
	resolver *Resolver
}

func NewCheckClient(repo domain.Repository, resolver *Resolver) *CheckClient {
	return &CheckClient{repo: repo, resolver: resolver}
}

func (uc *CheckClient) Execute(ctx context.Context, in CheckClientInput) (*CheckClientOutput, error) {
	if phone.Digits(in.Phone) == "" {
		return nil, httperr.Validation("Telefone é obrigatório")
	}

	c, err := uc.resolver.ByPhone(ctx, in.UnitID, in.Phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &CheckClientOutput{Dependents: []models.ClientDependent{}}, nil
	}

	deps, err := uc.repo.ListDependents(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if deps == nil {
		deps = []models.ClientDependent{}
	}

	out := &CheckClientOutput{Found: true, Client: c, Dependents: deps}

	phones := PhonesOf(in.Phone)
	if c.Phone != nil {
		phones = appendUnique(phones, *c.Phone)
	}
	last, err := uc.repo.LastCompletedAppointment(ctx, in.UnitID, phones)
	if err != nil {
		return nil, err
	}
	if last != nil {
		if last.Service.Name != "" {
			out.LastService = &last.Service.Name
		}
		if last.Barber.Name != "" {
			out.LastProfessional = &last.Barber.Name
		}
	}
	return out, nil
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
