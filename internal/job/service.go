package job

import (
	"context"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradepack/internal/apperr"
)

var (
	ErrNotFound  = apperr.NotFound(apperr.CodeJobNotFound, "job not found")
	ErrForbidden = apperr.Forbidden("job belongs to another user")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=job
type Repository interface {
	GetJob(ctx context.Context, id uuid.UUID) (*Job, error)
	SetGenerationStatus(ctx context.Context, id uuid.UUID, status GenerationStatus, errMsg string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.repo.GetJob(ctx, id)
}

// GetOwned loads a job and checks that actorID owns it.
func (s *Service) GetOwned(ctx context.Context, actorID, id uuid.UUID) (*Job, error) {
	j, err := s.repo.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}

	if !j.IsOwnedBy(actorID) {
		return nil, ErrForbidden
	}

	return j, nil
}

func (s *Service) SetGenerationStatus(ctx context.Context, id uuid.UUID, status GenerationStatus, errMsg string) error {
	return s.repo.SetGenerationStatus(ctx, id, status, errMsg)
}
