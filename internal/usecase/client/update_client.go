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

// Nil fields are left untouched. An empty Notes clears the stored notes.
type UpdateClientInput struct {
	UnitID uuid.UUID
	Phone  string

	Name      *string
	BirthDate *string
	Notes     *string
	NewPhone  *string
}

type UpdateClientOutput struct {
	Client        *models.Client
	UpdatedFields []string
}

type UpdateClient struct {
	repo     domain.Repository
	resolver *Resolver
	audit    audit.Auditor
}

func NewUpdateClient(repo domain.Repository, resolver *Resolver, auditor audit.Auditor) *UpdateClient {
	return &UpdateClient{repo: repo, resolver: resolver, audit: auditor}
}

func (uc *UpdateClient) Execute(ctx context.Context, in UpdateClientInput) (*UpdateClientOutput, error) {
	if phone.Digits(in.Phone) == "" {
		return nil, httperr.Validation("Telefone é obrigatório para localizar o cliente")
	}
	if in.Name == nil && in.BirthDate == nil && in.Notes == nil && in.NewPhone == nil {
		return nil, httperr.Validation("Envie pelo menos um campo para atualizar (name, birth_date, observations, new_phone)")
	}

	fields := map[string]any{}
	var updated []string

	if in.Name != nil {
		name := validators.Sanitize(*in.Name)
		if name == "" {
			return nil, httperr.Validation("Nome não pode ser vazio")
		}
		if err := validators.StringLength(name, validators.MaxNameLength, "Nome"); err != nil {
			return nil, err
		}
		fields["name"] = name
		updated = append(updated, "name")
	}
	if in.BirthDate != nil {
		if err := validators.Date(*in.BirthDate); err != nil {
			return nil, err
		}
		fields["birth_date"] = *in.BirthDate
		updated = append(updated, "birth_date")
	}
	var notes *string
	if in.Notes != nil {
		notes = sanitizeOptional(in.Notes)
		if notes != nil {
			if err := validators.StringLength(*notes, validators.MaxNotesLength, "Observações"); err != nil {
				return nil, err
			}
		}
		fields["notes"] = notes
		updated = append(updated, "notes")
	}
	if in.NewPhone != nil {
		digits, err := validators.Phone(*in.NewPhone)
		if err != nil {
			return nil, err
		}
		if digits == "" {
			return nil, httperr.Validation("Novo telefone inválido")
		}
		fields["phone"] = phone.Normalize(digits)
		updated = append(updated, "phone")
	}

	c, err := uc.resolver.ByPhone(ctx, in.UnitID, in.Phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, httperr.NotFound("client_not_found", "Cliente não encontrado")
	}

	if err := uc.repo.Update(ctx, c, fields); err != nil {
		return nil, err
	}
	applyFields(c, fields, notes)

	uc.audit.Dispatch(audit.Event{
		UnitID:   in.UnitID,
		Action:   audit.ActionClientUpdated,
		Entity:   "client",
		EntityID: &c.ID,
		Metadata: map[string]any{"updated_fields": updated},
	})

	return &UpdateClientOutput{Client: c, UpdatedFields: updated}, nil
}

func applyFields(c *models.Client, fields map[string]any, notes *string) {
	if v, ok := fields["name"].(string); ok {
		c.Name = v
	}
	if v, ok := fields["birth_date"].(string); ok {
		c.BirthDate = &v
	}
	if _, ok := fields["notes"]; ok {
		c.Notes = notes
	}
	if v, ok := fields["phone"].(string); ok {
		c.Phone = &v
	}
}
