package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-demo/internal/domain"
)

func TestHydrate_RootAndAssociations(t *testing.T) {
	row := Row{
		"e_id":                       int64(1),
		"e_placeholder_index":        []byte("AAA"),
		"e_placeholder_value":        nil,
		"e_archetype_id":             int64(2),
		"e_organization_id":          nil,
		"archetype_id":               int64(2),
		"archetype_placeholder_index": "root",
		"archetype_placeholder_value": "v",
		"organization_id":            nil,
		"organization_designation":   nil,
	}
	h := NewHydrator(nil)

	var p domain.Placeholder
	present, err := h.Hydrate(row, "e", PlaceholderTable, &p)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "AAA", p.PlaceholderIndex)
	assert.Nil(t, p.PlaceholderValue)
	require.NotNil(t, p.ArchetypeID)
	assert.Equal(t, int64(2), *p.ArchetypeID)
	assert.Nil(t, p.OrganizationID)

	var arch domain.Placeholder
	present, err = h.Hydrate(row, "archetype", PlaceholderTable, &arch)
	require.NoError(t, err)
	assert.True(t, present)
	require.NotNil(t, arch.PlaceholderValue)
	assert.Equal(t, "v", *arch.PlaceholderValue)

	var org domain.AppUser
	present, err = h.Hydrate(row, "organization", AppUserTable, &org)
	require.NoError(t, err)
	assert.False(t, present, "all-null join yields an absent association")
}

func TestHydrate_Conversions(t *testing.T) {
	h := NewHydrator(nil)

	t.Run("numeric_text", func(t *testing.T) {
		var u domain.AppUser
		_, err := h.Hydrate(Row{"e_id": "42", "e_designation": "x", "e_organization_id": int32(5)}, "e", AppUserTable, &u)
		require.NoError(t, err)
		assert.Equal(t, int64(42), u.ID)
		require.NotNil(t, u.OrganizationID)
		assert.Equal(t, int64(5), *u.OrganizationID)
	})

	t.Run("unconvertible", func(t *testing.T) {
		var u domain.AppUser
		_, err := h.Hydrate(Row{"e_id": "not-a-number"}, "e", AppUserTable, &u)
		var ce *ConversionError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "e_id", ce.Column)
	})

	t.Run("bad_destination", func(t *testing.T) {
		_, err := h.Hydrate(Row{}, "e", AppUserTable, domain.AppUser{})
		assert.Error(t, err)
	})
}

func TestValues(t *testing.T) {
	v := "val"
	vals, err := Values(PlaceholderTable, &domain.Placeholder{ID: 9, PlaceholderIndex: "i", PlaceholderValue: &v})
	require.NoError(t, err)
	assert.Equal(t, []any{"i", "val", nil, nil}, vals)
}
