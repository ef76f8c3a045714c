package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-demo/internal/domain"
	mocks "erp-demo/internal/testutil"
)

func TestAppUserService_CreateMirrorsEagerRead(t *testing.T) {
	org := &domain.AppUser{ID: 1, Designation: "ACME"}
	repo := &mocks.MockAppUserRepo{
		CreateFn: func(_ context.Context, u *domain.AppUser) (*domain.AppUser, error) {
			c := *u
			c.ID = 2
			return &c, nil
		},
		FindByIDFn: func(_ context.Context, id int64) (*domain.AppUser, error) {
			return &domain.AppUser{ID: id, Designation: "Jane", OrganizationID: &org.ID, Organization: org}, nil
		},
	}
	index := &mocks.MockIndex[domain.AppUser]{}
	svc := NewAppUserService(repo, index, quietOptions())

	got, err := svc.Create(context.Background(), &domain.AppUser{Designation: "Jane", OrganizationID: &org.ID})
	require.NoError(t, err)
	require.NotNil(t, got.Organization)
	assert.Equal(t, "ACME", got.Organization.Designation)

	require.Len(t, index.Saved, 1)
	require.NotNil(t, index.Saved[0].Organization, "index copy carries the hydrated association")
}

func TestAppUserService_CreateReReadFailureFallsBack(t *testing.T) {
	repo := &mocks.MockAppUserRepo{
		CreateFn: func(_ context.Context, u *domain.AppUser) (*domain.AppUser, error) {
			c := *u
			c.ID = 4
			return &c, nil
		},
		FindByIDFn: func(context.Context, int64) (*domain.AppUser, error) { return nil, errTest },
	}
	index := &mocks.MockIndex[domain.AppUser]{}
	svc := NewAppUserService(repo, index, quietOptions())

	got, err := svc.Create(context.Background(), &domain.AppUser{Designation: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.Len(t, index.Saved, 1)
}

func TestAppUserService_PartialUpdate(t *testing.T) {
	stored := domain.AppUser{ID: 1, Designation: "X", PlaceholderIDs: []int64{5}}
	var written *domain.AppUser
	repo := &mocks.MockAppUserRepo{
		ExistsFn: func(context.Context, int64) (bool, error) { return true, nil },
		FindByIDFn: func(_ context.Context, id int64) (*domain.AppUser, error) {
			if written != nil {
				c := *written
				return &c, nil
			}
			c := stored
			return &c, nil
		},
		UpdateFn: func(_ context.Context, u *domain.AppUser) (*domain.AppUser, error) {
			written = u
			return u, nil
		},
	}
	svc := NewAppUserService(repo, &mocks.MockIndex[domain.AppUser]{}, quietOptions())

	t.Run("happy_path", func(t *testing.T) {
		org := int64(9)
		got, err := svc.PartialUpdate(context.Background(), 1, domain.AppUserPatch{ID: 1, OrganizationID: &org})
		require.NoError(t, err)
		assert.Equal(t, "X", got.Designation)
		assert.Equal(t, int64(9), *got.OrganizationID)
		assert.Equal(t, []int64{5}, got.PlaceholderIDs)
	})

	t.Run("empty_designation_is_a_value", func(t *testing.T) {
		written = nil
		got, err := svc.PartialUpdate(context.Background(), 1, domain.AppUserPatch{ID: 1, Designation: strPtr("")})
		require.NoError(t, err)
		assert.Empty(t, got.Designation)
		require.NotNil(t, written)
		assert.Empty(t, written.Designation)
	})
}

func TestAppUserService_Lookups(t *testing.T) {
	repo := &mocks.MockAppUserRepo{
		ListByOrganizationFn: func(_ context.Context, id int64) ([]domain.AppUser, error) {
			return []domain.AppUser{{ID: 2, OrganizationID: &id}}, nil
		},
		ListWhereOrganizationIsNullFn: func(context.Context) ([]domain.AppUser, error) {
			return []domain.AppUser{{ID: 1}}, nil
		},
		CountFn: func(context.Context) (int64, error) { return 2, nil },
		ListFn: func(_ context.Context, page domain.PageRequest, eager bool) ([]domain.AppUser, error) {
			assert.False(t, eager)
			return []domain.AppUser{{ID: 1}, {ID: 2}}, nil
		},
	}
	svc := NewAppUserService(repo, &mocks.MockIndex[domain.AppUser]{}, quietOptions())
	ctx := context.Background()

	members, err := svc.ListByOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	roots, err := svc.ListWhereOrganizationIsNull(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), roots[0].ID)

	items, total, err := svc.List(ctx, domain.PageRequest{}, false)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(2), total)
}
