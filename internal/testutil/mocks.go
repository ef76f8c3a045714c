// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync"

	"erp-demo/internal/domain"
)

// === AppUser Repository Mock ===

// MockAppUserRepo implements domain.AppUserRepository for testing.
type MockAppUserRepo struct {
	CreateFn                      func(ctx context.Context, u *domain.AppUser) (*domain.AppUser, error)
	UpdateFn                      func(ctx context.Context, u *domain.AppUser) (*domain.AppUser, error)
	FindByIDFn                    func(ctx context.Context, id int64) (*domain.AppUser, error)
	ListFn                        func(ctx context.Context, page domain.PageRequest, eager bool) ([]domain.AppUser, error)
	ListByOrganizationFn          func(ctx context.Context, organizationID int64) ([]domain.AppUser, error)
	ListWhereOrganizationIsNullFn func(ctx context.Context) ([]domain.AppUser, error)
	CountFn                       func(ctx context.Context) (int64, error)
	ExistsFn                      func(ctx context.Context, id int64) (bool, error)
	DeleteFn                      func(ctx context.Context, id int64) error
}

// Create implements the interface method for testing.
func (m *MockAppUserRepo) Create(ctx context.Context, u *domain.AppUser) (*domain.AppUser, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	panic("unexpected call to MockAppUserRepo.Create")
}

// Update implements the interface method for testing.
func (m *MockAppUserRepo) Update(ctx context.Context, u *domain.AppUser) (*domain.AppUser, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	panic("unexpected call to MockAppUserRepo.Update")
}

// FindByID implements the interface method for testing.
func (m *MockAppUserRepo) FindByID(ctx context.Context, id int64) (*domain.AppUser, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	panic("unexpected call to MockAppUserRepo.FindByID")
}

// List implements the interface method for testing.
func (m *MockAppUserRepo) List(ctx context.Context, page domain.PageRequest, eager bool) ([]domain.AppUser, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page, eager)
	}
	panic("unexpected call to MockAppUserRepo.List")
}

// ListByOrganization implements the interface method for testing.
func (m *MockAppUserRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]domain.AppUser, error) {
	if m.ListByOrganizationFn != nil {
		return m.ListByOrganizationFn(ctx, organizationID)
	}
	panic("unexpected call to MockAppUserRepo.ListByOrganization")
}

// ListWhereOrganizationIsNull implements the interface method for testing.
func (m *MockAppUserRepo) ListWhereOrganizationIsNull(ctx context.Context) ([]domain.AppUser, error) {
	if m.ListWhereOrganizationIsNullFn != nil {
		return m.ListWhereOrganizationIsNullFn(ctx)
	}
	panic("unexpected call to MockAppUserRepo.ListWhereOrganizationIsNull")
}

// Count implements the interface method for testing.
func (m *MockAppUserRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	panic("unexpected call to MockAppUserRepo.Count")
}

// Exists implements the interface method for testing.
func (m *MockAppUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	panic("unexpected call to MockAppUserRepo.Exists")
}

// Delete implements the interface method for testing.
func (m *MockAppUserRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	panic("unexpected call to MockAppUserRepo.Delete")
}

// === Placeholder Repository Mock ===

// MockPlaceholderRepo implements domain.PlaceholderRepository for testing.
type MockPlaceholderRepo struct {
	CreateFn             func(ctx context.Context, p *domain.Placeholder) (*domain.Placeholder, error)
	UpdateFn             func(ctx context.Context, p *domain.Placeholder) (*domain.Placeholder, error)
	FindByIDFn           func(ctx context.Context, id int64) (*domain.Placeholder, error)
	ListFn               func(ctx context.Context, page domain.PageRequest, eager bool) ([]domain.Placeholder, error)
	ListByArchetypeFn    func(ctx context.Context, archetypeID int64) ([]domain.Placeholder, error)
	ListByOrganizationFn func(ctx context.Context, organizationID int64) ([]domain.Placeholder, error)
	CountFn              func(ctx context.Context) (int64, error)
	ExistsFn             func(ctx context.Context, id int64) (bool, error)
	DeleteFn             func(ctx context.Context, id int64) error
}

// Create implements the interface method for testing.
func (m *MockPlaceholderRepo) Create(ctx context.Context, p *domain.Placeholder) (*domain.Placeholder, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	panic("unexpected call to MockPlaceholderRepo.Create")
}

// Update implements the interface method for testing.
func (m *MockPlaceholderRepo) Update(ctx context.Context, p *domain.Placeholder) (*domain.Placeholder, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, p)
	}
	panic("unexpected call to MockPlaceholderRepo.Update")
}

// FindByID implements the interface method for testing.
func (m *MockPlaceholderRepo) FindByID(ctx context.Context, id int64) (*domain.Placeholder, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	panic("unexpected call to MockPlaceholderRepo.FindByID")
}

// List implements the interface method for testing.
func (m *MockPlaceholderRepo) List(ctx context.Context, page domain.PageRequest, eager bool) ([]domain.Placeholder, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page, eager)
	}
	panic("unexpected call to MockPlaceholderRepo.List")
}

// ListByArchetype implements the interface method for testing.
func (m *MockPlaceholderRepo) ListByArchetype(ctx context.Context, archetypeID int64) ([]domain.Placeholder, error) {
	if m.ListByArchetypeFn != nil {
		return m.ListByArchetypeFn(ctx, archetypeID)
	}
	panic("unexpected call to MockPlaceholderRepo.ListByArchetype")
}

// ListByOrganization implements the interface method for testing.
func (m *MockPlaceholderRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]domain.Placeholder, error) {
	if m.ListByOrganizationFn != nil {
		return m.ListByOrganizationFn(ctx, organizationID)
	}
	panic("unexpected call to MockPlaceholderRepo.ListByOrganization")
}

// Count implements the interface method for testing.
func (m *MockPlaceholderRepo) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	panic("unexpected call to MockPlaceholderRepo.Count")
}

// Exists implements the interface method for testing.
func (m *MockPlaceholderRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, id)
	}
	panic("unexpected call to MockPlaceholderRepo.Exists")
}

// Delete implements the interface method for testing.
func (m *MockPlaceholderRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	panic("unexpected call to MockPlaceholderRepo.Delete")
}

// === Search Index Mock ===

// MockIndex implements domain.AppUserSearchRepository and
// domain.PlaceholderSearchRepository for testing. Unset functions record the
// call and succeed, so write paths can be asserted without wiring every hook.
type MockIndex[T any] struct {
	SaveFn      func(ctx context.Context, v *T) error
	DeleteFn    func(ctx context.Context, id int64) error
	DeleteAllFn func(ctx context.Context) error
	SearchFn    func(ctx context.Context, query string, page domain.PageRequest) ([]T, int64, error)
	CountFn     func(ctx context.Context) (int64, error)

	mu      sync.Mutex
	Saved   []T
	Deleted []int64
}

// Save implements the interface method for testing.
func (m *MockIndex[T]) Save(ctx context.Context, v *T) error {
	if m.SaveFn != nil {
		if err := m.SaveFn(ctx, v); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Saved = append(m.Saved, *v)
	m.mu.Unlock()
	return nil
}

// Delete implements the interface method for testing.
func (m *MockIndex[T]) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		if err := m.DeleteFn(ctx, id); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Deleted = append(m.Deleted, id)
	m.mu.Unlock()
	return nil
}

// DeleteAll implements the interface method for testing.
func (m *MockIndex[T]) DeleteAll(ctx context.Context) error {
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(ctx)
	}
	return nil
}

// Search implements the interface method for testing.
func (m *MockIndex[T]) Search(ctx context.Context, query string, page domain.PageRequest) ([]T, int64, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, page)
	}
	panic("unexpected call to MockIndex.Search")
}

// Count implements the interface method for testing.
func (m *MockIndex[T]) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	panic("unexpected call to MockIndex.Count")
}

// SavedCount returns the number of successful saves.
func (m *MockIndex[T]) SavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

var (
	_ domain.AppUserRepository           = (*MockAppUserRepo)(nil)
	_ domain.PlaceholderRepository       = (*MockPlaceholderRepo)(nil)
	_ domain.AppUserSearchRepository     = (*MockIndex[domain.AppUser])(nil)
	_ domain.PlaceholderSearchRepository = (*MockIndex[domain.Placeholder])(nil)
)
