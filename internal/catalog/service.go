package catalog

import (
	"context"
	"fmt"

	"inkwell/internal/catalog/repository"
	"inkwell/internal/commons"
	"inkwell/internal/domain"
	"inkwell/internal/errors"

	"go.uber.org/zap"
)

type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetAllServices(ctx context.Context, filter repository.Filter) ([]domain.Service, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, errors.NewValidationError("invalid service type", errors.ValidationDetail{
			Field:   "type",
			Message: "must be one of: individual package addon",
		})
	}
	return s.repo.FindActive(ctx, filter)
}

func (s *Service) GetServiceBySlug(ctx context.Context, slug string) (*domain.Service, error) {
	svc, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, errors.NewNotFoundError(fmt.Sprintf("service %q not found", slug))
	}
	return svc, nil
}

// GetActiveService is the lookup the cart uses before accepting an item.
func (s *Service) GetActiveService(ctx context.Context, id uint) (*domain.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, errors.NewNotFoundError(fmt.Sprintf("service with id %d not found", id))
	}
	return svc, nil
}

// Seed upserts catalog entries by slug. Rows missing from the seed are left alone.
func (s *Service) Seed(ctx context.Context, entries []commons.CatalogEntry) error {
	for _, entry := range entries {
		typ := domain.ServiceType(entry.Type)
		if !typ.IsValid() {
			return fmt.Errorf("catalog entry %q: unknown type %q", entry.Slug, entry.Type)
		}

		active := true
		if entry.Active != nil {
			active = *entry.Active
		}

		err := s.repo.Upsert(ctx, domain.Service{
			Slug:        entry.Slug,
			Name:        entry.Name,
			Description: entry.Description,
			Price:       domain.RoundCents(entry.Price),
			Type:        typ,
			Tier:        entry.Tier,
			Category:    entry.Category,
			Features:    entry.Features,
			SortOrder:   entry.SortOrder,
			IsActive:    active,
		})
		if err != nil {
			return err
		}
	}

	s.logger.Info("catalog seeded", zap.Int("services", len(entries)))
	return nil
}
