package service

import (
	"context"

	"erp-demo/internal/domain"
)

// PlaceholderService coordinates placeholder writes across the relational
// store and the search index.
type PlaceholderService struct {
	*coordinator[domain.Placeholder]
	repo domain.PlaceholderRepository
}

// NewPlaceholderService creates a new PlaceholderService.
func NewPlaceholderService(repo domain.PlaceholderRepository, index domain.PlaceholderSearchRepository, opts Options) *PlaceholderService {
	return &PlaceholderService{
		coordinator: newCoordinator[domain.Placeholder](domain.EntityPlaceholder, repo, index, opts,
			func(p *domain.Placeholder) int64 { return p.ID }),
		repo: repo,
	}
}

// PartialUpdate merges the non-nil fields of patch onto placeholder id.
func (s *PlaceholderService) PartialUpdate(ctx context.Context, id int64, patch domain.PlaceholderPatch) (*domain.Placeholder, error) {
	return s.partialUpdate(ctx, id, patch.ID, func(p *domain.Placeholder) { p.Apply(patch) })
}

// ListByArchetype returns the placeholders derived from archetypeID.
func (s *PlaceholderService) ListByArchetype(ctx context.Context, archetypeID int64) ([]domain.Placeholder, error) {
	return s.repo.ListByArchetype(ctx, archetypeID)
}

// ListByOrganization returns the placeholders owned by organizationID.
func (s *PlaceholderService) ListByOrganization(ctx context.Context, organizationID int64) ([]domain.Placeholder, error) {
	return s.repo.ListByOrganization(ctx, organizationID)
}
