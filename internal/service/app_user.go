package service

import (
	"context"

	"erp-demo/internal/domain"
)

// AppUserService coordinates app user writes across the relational store and
// the search index.
type AppUserService struct {
	*coordinator[domain.AppUser]
	repo domain.AppUserRepository
}

// NewAppUserService creates a new AppUserService.
func NewAppUserService(repo domain.AppUserRepository, index domain.AppUserSearchRepository, opts Options) *AppUserService {
	return &AppUserService{
		coordinator: newCoordinator[domain.AppUser](domain.EntityAppUser, repo, index, opts,
			func(u *domain.AppUser) int64 { return u.ID }),
		repo: repo,
	}
}

// PartialUpdate merges the non-nil fields of patch onto app user id.
func (s *AppUserService) PartialUpdate(ctx context.Context, id int64, patch domain.AppUserPatch) (*domain.AppUser, error) {
	return s.partialUpdate(ctx, id, patch.ID, func(u *domain.AppUser) { u.Apply(patch) })
}

// ListByOrganization returns the members of organizationID.
func (s *AppUserService) ListByOrganization(ctx context.Context, organizationID int64) ([]domain.AppUser, error) {
	return s.repo.ListByOrganization(ctx, organizationID)
}

// ListWhereOrganizationIsNull returns the app users that belong to no
// organization.
func (s *AppUserService) ListWhereOrganizationIsNull(ctx context.Context) ([]domain.AppUser, error) {
	return s.repo.ListWhereOrganizationIsNull(ctx)
}
