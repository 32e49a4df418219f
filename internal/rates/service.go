package rates

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
)

var ErrTemplateNotFound = apperr.NotFound(apperr.CodeRateTemplateNotFound, "rate template not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rates
type Repository interface {
	GetTemplate(ctx context.Context, id uuid.UUID) (*Template, error)
	ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*Template, error)
	CreateTemplate(ctx context.Context, t *Template) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Effective resolves job override -> linked rate template -> business default.
//
// A linked template that no longer exists contributes nothing: quote versions already sent hold
// resolved values, so an unlinked template only changes future resolutions.
func (s *Service) Effective(ctx context.Context, overrides Rates, templateID *uuid.UUID, defaults Rates) (Rates, error) {
	var tmpl Rates

	if templateID != nil {
		t, err := s.repo.GetTemplate(ctx, *templateID)

		switch {
		case errors.Is(err, ErrTemplateNotFound):
			slog.Warn("linked rate template missing, skipping layer", "rate_template_id", *templateID)
		case err != nil:
			return Rates{}, err
		default:
			tmpl = t.Rates
		}
	}

	return Resolve(overrides, tmpl, defaults), nil
}

type CreateParams struct {
	OwnerID uuid.UUID
	Name    string
	Rates   Rates
}

func (s *Service) CreateTemplate(ctx context.Context, params CreateParams) (*Template, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.Validation("rate template name is required")
	}

	if params.Rates.IsZero() {
		return nil, apperr.Validation("rate template has no rates")
	}

	t := &Template{
		OwnerID: params.OwnerID,
		Name:    name,
		Rates:   params.Rates,
	}
	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) ListTemplates(ctx context.Context, ownerID uuid.UUID) ([]*Template, error) {
	return s.repo.ListTemplates(ctx, ownerID)
}
