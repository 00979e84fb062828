package client

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/agenda-api/internal/domain/client"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
)

// Resolver finds the canonical client for loosely formatted input. When
// legacy duplicates match, the earliest-created row wins; nothing is merged.
type Resolver struct {
	repo   domain.Repository
	logger *logging.Logger
}

func NewResolver(repo domain.Repository, logger *logging.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// ByPhone tries the normalized standard form first, then every other
// representation of raw.
func (r *Resolver) ByPhone(ctx context.Context, unitID uuid.UUID, raw string) (*models.Client, error) {
	candidates := phone.Candidates(raw)
	if len(candidates) == 0 {
		return nil, nil
	}

	exact, err := r.repo.FindByPhones(ctx, unitID, candidates[:1])
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		return r.pick(exact, "phone"), nil
	}

	if len(candidates) == 1 {
		return nil, nil
	}
	fuzzy, err := r.repo.FindByPhones(ctx, unitID, candidates[1:])
	if err != nil {
		return nil, err
	}
	if len(fuzzy) == 0 {
		return nil, nil
	}
	return r.pick(fuzzy, "phone_variant"), nil
}

func (r *Resolver) ByName(ctx context.Context, unitID uuid.UUID, name string, birthDate *string) (*models.Client, error) {
	found, err := r.repo.FindByName(ctx, unitID, name, birthDate)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return r.pick(found, "name"), nil
}

// pick expects rows ordered oldest first.
func (r *Resolver) pick(rows []models.Client, matchedBy string) *models.Client {
	if len(rows) > 1 {
		ids := make([]string, len(rows))
		for i := range rows {
			ids[i] = rows[i].ID.String()
		}
		r.logger.Warn("duplicate clients matched, using earliest",
			"matched_by", matchedBy,
			"chosen", ids[0],
			"candidates", ids,
		)
	}
	c := rows[0]
	return &c
}

// PhonesOf lists the representations under which appointments of raw may
// have been stored.
func PhonesOf(raw string) []string {
	return phone.Candidates(raw)
}
