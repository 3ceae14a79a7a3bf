package catalog

import (
	"context"

	"inkwell/internal/catalog/repository"
	"inkwell/internal/domain"
)

type Repository interface {
	FindActive(ctx context.Context, filter repository.Filter) ([]domain.Service, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Service, error)
	FindByID(ctx context.Context, id uint) (*domain.Service, error)
	Upsert(ctx context.Context, s domain.Service) error
}
