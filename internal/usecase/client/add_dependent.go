package client

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

type AddDependentInput struct {
	UnitID    uuid.UUID
	CompanyID *uuid.UUID

	Phone        string
	Name         string
	Relationship *string
	BirthDate    *string
}

type AddDependentOutput struct {
	Client        *models.Client
	Dependent     *models.ClientDependent
	AlreadyExists bool
}

type AddDependent struct {
	repo     domain.Repository
	resolver *Resolver
}

func NewAddDependent(repo domain.Repository, resolver *Resolver) *AddDependent {
	return &AddDependent{repo: repo, resolver: resolver}
}

func (uc *AddDependent) Execute(ctx context.Context, in AddDependentInput) (*AddDependentOutput, error) {
	if phone.Digits(in.Phone) == "" {
		return nil, httperr.Validation("Telefone do responsável é obrigatório")
	}
	name := validators.Sanitize(in.Name)
	if name == "" {
		return nil, httperr.Validation("Nome do dependente é obrigatório")
	}
	if err := validators.StringLength(name, validators.MaxNameLength, "Nome do dependente"); err != nil {
		return nil, err
	}
	if in.BirthDate != nil {
		if err := validators.Date(*in.BirthDate); err != nil {
			return nil, err
		}
	}

	c, err := uc.resolver.ByPhone(ctx, in.UnitID, in.Phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, httperr.NotFound("client_not_found", "Cliente responsável não encontrado. Cadastre o cliente primeiro.")
	}

	dep, created, err := FindOrCreateDependent(ctx, uc.repo, c, name, in.Relationship, in.BirthDate, in.CompanyID)
	if err != nil {
		return nil, err
	}
	return &AddDependentOutput{Client: c, Dependent: dep, AlreadyExists: !created}, nil
}

// FindOrCreateDependent looks the dependent up by case-insensitive name under
// the responsible client and creates it when absent.
func FindOrCreateDependent(
	ctx context.Context,
	repo domain.Repository,
	responsible *models.Client,
	name string,
	relationship *string,
	birthDate *string,
	companyID *uuid.UUID,
) (*models.ClientDependent, bool, error) {

	existing, err := repo.FindDependentByName(ctx, responsible.ID, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if companyID == nil {
		companyID = responsible.CompanyID
	}
	dep := &models.ClientDependent{
		ClientID:     responsible.ID,
		UnitID:       responsible.UnitID,
		CompanyID:    companyID,
		Name:         name,
		Relationship: relationship,
		BirthDate:    birthDate,
	}
	if err := repo.CreateDependent(ctx, dep); err != nil {
		return nil, false, err
	}
	return dep, true, nil
}
