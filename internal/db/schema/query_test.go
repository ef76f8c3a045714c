package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-demo/internal/domain"
)

func placeholderSelect() *SelectBuilder {
	return Select(PlaceholderTable, "e").
		LeftJoin("archetype", PlaceholderTable, "archetype_id").
		LeftJoin("organization", AppUserTable, "organization_id")
}

func TestSelect_EagerJoins(t *testing.T) {
	q, args := placeholderSelect().ByID(7).Build(SQLite)

	assert.Contains(t, q, "e.placeholder_index AS e_placeholder_index")
	assert.Contains(t, q, "archetype.placeholder_value AS archetype_placeholder_value")
	assert.Contains(t, q, "organization.designation AS organization_designation")
	assert.Contains(t, q, "FROM placeholder e LEFT OUTER JOIN placeholder archetype ON e.archetype_id = archetype.id")
	assert.Contains(t, q, "LEFT OUTER JOIN app_user organization ON e.organization_id = organization.id")
	assert.Contains(t, q, "WHERE e.id = ?")
	assert.NotContains(t, q, "LIMIT")
	assert.Equal(t, []any{int64(7)}, args)
}

func TestSelect_Page(t *testing.T) {
	t.Run("sort_and_limit", func(t *testing.T) {
		b, err := placeholderSelect().Page(domain.EntityPlaceholder, domain.PageRequest{
			Page: 2, Size: 10,
			Sort: []domain.Order{{Field: "placeholderIndex", Desc: true}, {Field: "id"}},
		})
		require.NoError(t, err)

		q, args := b.Build(Postgres)
		assert.Contains(t, q, "ORDER BY e.placeholder_index DESC, e.id ASC LIMIT $1 OFFSET $2")
		assert.Equal(t, []any{10, 20}, args)
	})

	t.Run("unknown_sort_field", func(t *testing.T) {
		_, err := placeholderSelect().Page(domain.EntityPlaceholder, domain.PageRequest{
			Sort: []domain.Order{{Field: "nope"}},
		})
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, domain.KeySort, ve.Key)
	})
}

func TestSelect_WhereNumbering(t *testing.T) {
	b := Select(AppUserTable, "e").Where(And(IsNull("e", "organization_id"), In("e", "id", int64(1), int64(2))))
	b, err := b.Page(domain.EntityAppUser, domain.PageRequest{Size: 5})
	require.NoError(t, err)

	q, args := b.Build(Postgres)
	assert.Contains(t, q, "WHERE (e.organization_id IS NULL) AND (e.id IN ($1, $2)) LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{int64(1), int64(2), 5, 0}, args)
}

func TestIn_Empty(t *testing.T) {
	q, args := Select(AppUserTable, "e").Where(In("e", "id")).Build(SQLite)
	assert.Contains(t, q, "WHERE 1 = 0")
	assert.Empty(t, args)
}

func TestStatementHelpers(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO placeholder (placeholder_index, placeholder_value, archetype_id, organization_id) VALUES ($1, $2, $3, $4) RETURNING id",
		InsertSQL(Postgres, PlaceholderTable))
	assert.Equal(t,
		"UPDATE app_user SET designation = ?, system_user_id = ?, organization_id = ? WHERE id = ?",
		UpdateSQL(SQLite, AppUserTable))
	assert.Equal(t, "DELETE FROM app_user WHERE id = $1", DeleteSQL(Postgres, "app_user", "id"))
	assert.Equal(t, "SELECT COUNT(*) FROM placeholder", CountSQL(PlaceholderTable))
	assert.Equal(t, "SELECT 1 FROM placeholder WHERE id = ?", ExistsSQL(SQLite, PlaceholderTable))
	assert.Equal(t,
		"INSERT INTO rel_app_user__placeholder (app_user_id, placeholders_id) VALUES (?, ?)",
		AppUserPlaceholders.InsertEdgeSQL(SQLite))
}

func TestJoinTable_SelectTargets(t *testing.T) {
	q, args := AppUserPlaceholders.SelectTargets(Postgres, PlaceholderTable, []int64{3, 4})
	assert.Contains(t, q, "SELECT rel.app_user_id AS rel_owner_id, e.id AS e_id")
	assert.Contains(t, q, "FROM rel_app_user__placeholder rel INNER JOIN placeholder e ON rel.placeholders_id = e.id")
	assert.Contains(t, q, "WHERE rel.app_user_id IN ($1, $2)")
	assert.Equal(t, []any{int64(3), int64(4)}, args)
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	d, err = DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, "$3", d.Placeholder(3))

	_, err = DialectFor("oracle")
	assert.Error(t, err)
}

func TestTable_Resolve(t *testing.T) {
	for _, name := range []string{"placeholderIndex", "PlaceholderIndex", "placeholder_index"} {
		c, ok := PlaceholderTable.Resolve(name)
		require.True(t, ok, name)
		assert.Equal(t, "placeholder_index", c.Name)
	}
	_, ok := PlaceholderTable.Resolve("organization")
	assert.False(t, ok)
}
