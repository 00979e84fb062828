package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	domain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
	"github.com/BruksfildServices01/agenda-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type RegisterClientInput struct {
	UnitID    uuid.UUID
	CompanyID *uuid.UUID

	Name      string
	Phone     string
	BirthDate *string
	Notes     *string
	Tags      any
}

// ======================================================
// USE CASE
// ======================================================

type RegisterClient struct {
	repo     domain.Repository
	resolver *Resolver
	audit    audit.Auditor
}

func NewRegisterClient(repo domain.Repository, resolver *Resolver, auditor audit.Auditor) *RegisterClient {
	return &RegisterClient{repo: repo, resolver: resolver, audit: auditor}
}

func (uc *RegisterClient) Execute(ctx context.Context, in RegisterClientInput) (*models.Client, error) {

	// --------------------------------------------------
	// 1️⃣ Validação
	// --------------------------------------------------
	name := validators.Sanitize(in.Name)
	if name == "" {
		return nil, httperr.Validation("Nome é obrigatório")
	}
	if err := validators.StringLength(name, validators.MaxNameLength, "Nome"); err != nil {
		return nil, err
	}
	digits, err := validators.Phone(in.Phone)
	if err != nil {
		return nil, err
	}
	if in.BirthDate != nil {
		if err := validators.Date(*in.BirthDate); err != nil {
			return nil, err
		}
	}
	notes := sanitizeOptional(in.Notes)
	if notes != nil {
		if err := validators.StringLength(*notes, validators.MaxNotesLength, "Observações"); err != nil {
			return nil, err
		}
	}
	tags, err := validators.Tags(in.Tags)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Duplicidade (qualquer variação do telefone)
	// --------------------------------------------------
	var stored *string
	if digits != "" {
		existing, err := uc.resolver.ByPhone(ctx, in.UnitID, digits)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, httperr.Conflict("client_exists", "Cliente já cadastrado com este telefone").
				WithDetails(map[string]any{
					"existing_client": map[string]any{
						"id":    existing.ID,
						"name":  existing.Name,
						"phone": existing.Phone,
					},
				})
		}
		normalized := phone.Normalize(digits)
		stored = &normalized
	}

	// --------------------------------------------------
	// 3️⃣ Criação
	// --------------------------------------------------
	c := &models.Client{
		UnitID:    in.UnitID,
		CompanyID: in.CompanyID,
		Name:      name,
		Phone:     stored,
		BirthDate: in.BirthDate,
		Notes:     notes,
		Tags:      tags,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UnitID:   in.UnitID,
		Action:   audit.ActionClientRegistered,
		Entity:   "client",
		EntityID: &c.ID,
	})

	return c, nil
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := validators.Sanitize(*s)
	if v == "" {
		return nil
	}
	return &v
}
