package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-demo/internal/domain"
)

// Seeded by the initial migration.
const adminUserID = 3

func TestAppUserRepo_CreateAndFind(t *testing.T) {
	users, placeholders := setupRepos(t)
	ctx := context.Background()

	p1, err := placeholders.Create(ctx, &domain.Placeholder{PlaceholderIndex: "p1"})
	require.NoError(t, err)
	p2, err := placeholders.Create(ctx, &domain.Placeholder{PlaceholderIndex: "p2"})
	require.NoError(t, err)

	org, err := users.Create(ctx, &domain.AppUser{Designation: "ACME"})
	require.NoError(t, err)

	u, err := users.Create(ctx, &domain.AppUser{
		Designation:    "Jane",
		SystemUserID:   idPtr(adminUserID),
		OrganizationID: idPtr(org.ID),
		PlaceholderIDs: []int64{p2.ID, p1.ID, p2.ID},
	})
	require.NoError(t, err)

	got, err := users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Designation)
	require.NotNil(t, got.SystemUser)
	assert.Equal(t, "admin", got.SystemUser.Login)
	require.NotNil(t, got.Organization)
	assert.Equal(t, "ACME", got.Organization.Designation)
	assert.Nil(t, got.Organization.Organization)
	assert.Equal(t, []int64{p1.ID, p2.ID}, got.PlaceholderIDs)
	require.Len(t, got.Placeholders, 2)
	assert.Equal(t, "p1", got.Placeholders[0].PlaceholderIndex)

	bare, err := users.FindByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Nil(t, bare.SystemUser)
	assert.Nil(t, bare.Organization)
	assert.Empty(t, bare.Placeholders)
}

func TestAppUserRepo_CreateWithMissingPlaceholderRollsBack(t *testing.T) {
	users, _ := setupRepos(t)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.AppUser{Designation: "x", PlaceholderIDs: []int64{777}})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, domain.KeyRefNotFound, ve.Key)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAppUserRepo_Update(t *testing.T) {
	users, placeholders := setupRepos(t)
	ctx := context.Background()

	p1, err := placeholders.Create(ctx, &domain.Placeholder{PlaceholderIndex: "p1"})
	require.NoError(t, err)
	u, err := users.Create(ctx, &domain.AppUser{Designation: "a", PlaceholderIDs: []int64{p1.ID}})
	require.NoError(t, err)

	t.Run("nil_ids_keep_edges", func(t *testing.T) {
		_, err := users.Update(ctx, &domain.AppUser{ID: u.ID, Designation: "b"})
		require.NoError(t, err)
		got, err := users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "b", got.Designation)
		assert.Equal(t, []int64{p1.ID}, got.PlaceholderIDs)
	})

	t.Run("empty_ids_clear_edges", func(t *testing.T) {
		_, err := users.Update(ctx, &domain.AppUser{ID: u.ID, Designation: "b", PlaceholderIDs: []int64{}})
		require.NoError(t, err)
		got, err := users.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, got.PlaceholderIDs)
	})

	t.Run("missing_row", func(t *testing.T) {
		_, err := users.Update(ctx, &domain.AppUser{ID: 999, Designation: "x"})
		var nf *domain.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

func TestAppUserRepo_Lists(t *testing.T) {
	users, placeholders := setupRepos(t)
	ctx := context.Background()

	org, err := users.Create(ctx, &domain.AppUser{Designation: "org"})
	require.NoError(t, err)
	p, err := placeholders.Create(ctx, &domain.Placeholder{PlaceholderIndex: "p"})
	require.NoError(t, err)
	member, err := users.Create(ctx, &domain.AppUser{Designation: "member", OrganizationID: idPtr(org.ID), PlaceholderIDs: []int64{p.ID}})
	require.NoError(t, err)

	members, err := users.ListByOrganization(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, member.ID, members[0].ID)

	roots, err := users.ListWhereOrganizationIsNull(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, org.ID, roots[0].ID)

	eager, err := users.List(ctx, domain.PageRequest{Sort: []domain.Order{{Field: "id", Desc: true}}}, true)
	require.NoError(t, err)
	require.Len(t, eager, 2)
	assert.Equal(t, member.ID, eager[0].ID)
	require.NotNil(t, eager[0].Organization)
	assert.Equal(t, []int64{p.ID}, eager[0].PlaceholderIDs)

	lazy, err := users.List(ctx, domain.PageRequest{}, false)
	require.NoError(t, err)
	assert.Nil(t, lazy[1].Placeholders)
}

func TestAppUserRepo_Delete(t *testing.T) {
	users, placeholders := setupRepos(t)
	ctx := context.Background()

	org, err := users.Create(ctx, &domain.AppUser{Designation: "org"})
	require.NoError(t, err)
	p, err := placeholders.Create(ctx, &domain.Placeholder{PlaceholderIndex: "p"})
	require.NoError(t, err)
	member, err := users.Create(ctx, &domain.AppUser{Designation: "m", OrganizationID: idPtr(org.ID), PlaceholderIDs: []int64{p.ID}})
	require.NoError(t, err)

	err = users.Delete(ctx, org.ID)
	var ce *domain.ConflictError
	require.True(t, errors.As(err, &ce))

	require.NoError(t, users.Delete(ctx, member.ID))
	ok, err := users.Exists(ctx, member.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// The placeholder survives; only the edge is gone.
	ok, err = placeholders.Exists(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, users.Delete(ctx, member.ID))
}
