package business

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
)

var ErrNotFound = apperr.NotFound(apperr.CodeProfileNotFound, "business profile not found")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=business
type Repository interface {
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Profile, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}
