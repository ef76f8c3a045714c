package schema

import (
	"fmt"
	"strconv"
	"strings"

	"erp-demo/internal/domain"
)

// Dialect renders bind parameters for one SQL engine.
type Dialect interface {
	Name() string
	Placeholder(n int) string
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string           { return "sqlite3" }
func (sqliteDialect) Placeholder(int) string { return "?" }

type postgresDialect struct{}

func (postgresDialect) Name() string             { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

var (
	// SQLite uses positional "?" parameters.
	SQLite Dialect = sqliteDialect{}
	// Postgres uses numbered "$n" parameters.
	Postgres Dialect = postgresDialect{}
)

// DialectFor returns the dialect for a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "pgx":
		return Postgres, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// args accumulates bind values while a statement is rendered.
type args struct {
	d    Dialect
	vals []any
}

func (a *args) bind(v any) string {
	a.vals = append(a.vals, v)
	return a.d.Placeholder(len(a.vals))
}

// Condition is a WHERE clause fragment.
type Condition interface {
	render(a *args) string
}

type eqCond struct {
	alias, column string
	value         any
}

func (c eqCond) render(a *args) string {
	return qualify(c.alias, c.column) + " = " + a.bind(c.value)
}

type nullCond struct {
	alias, column string
}

func (c nullCond) render(*args) string {
	return qualify(c.alias, c.column) + " IS NULL"
}

type inCond struct {
	alias, column string
	values        []any
}

func (c inCond) render(a *args) string {
	if len(c.values) == 0 {
		return "1 = 0"
	}
	ph := make([]string, len(c.values))
	for i, v := range c.values {
		ph[i] = a.bind(v)
	}
	return qualify(c.alias, c.column) + " IN (" + strings.Join(ph, ", ") + ")"
}

type andCond []Condition

func (c andCond) render(a *args) string {
	parts := make([]string, len(c))
	for i, cond := range c {
		parts[i] = "(" + cond.render(a) + ")"
	}
	return strings.Join(parts, " AND ")
}

// Eq matches alias.column = value.
func Eq(alias, column string, value any) Condition { return eqCond{alias, column, value} }

// IsNull matches alias.column IS NULL.
func IsNull(alias, column string) Condition { return nullCond{alias, column} }

// In matches alias.column IN (values...). An empty list matches nothing.
func In(alias, column string, values ...any) Condition { return inCond{alias, column, values} }

// And combines conditions.
func And(conds ...Condition) Condition { return andCond(conds) }

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}

type join struct {
	prefix      string
	table       *Table
	localColumn string
}

type orderTerm struct {
	column string
	desc   bool
}

// SelectBuilder renders one SELECT that left-outer-joins a root table to its
// one-level associations. Every column is aliased "<prefix>_<column>" so a
// single Row carries the parent and each association under disjoint prefixes.
type SelectBuilder struct {
	root   *Table
	prefix string
	joins  []join
	where  Condition
	order  []orderTerm
	limit  int
	offset int
	paged  bool
}

// Select starts a query on root using prefix as both table alias and column
// prefix.
func Select(root *Table, prefix string) *SelectBuilder {
	return &SelectBuilder{root: root, prefix: prefix}
}

// LeftJoin adds "LEFT OUTER JOIN t prefix ON root.localColumn = prefix.<pk>".
func (b *SelectBuilder) LeftJoin(prefix string, t *Table, localColumn string) *SelectBuilder {
	b.joins = append(b.joins, join{prefix: prefix, table: t, localColumn: localColumn})
	return b
}

// Where sets the filter condition.
func (b *SelectBuilder) Where(c Condition) *SelectBuilder {
	b.where = c
	return b
}

// ByID restricts the query to one primary key. Paging and sorting are
// cleared: a key lookup never pages.
func (b *SelectBuilder) ByID(id int64) *SelectBuilder {
	b.where = Eq(b.prefix, b.root.PrimaryKey, id)
	b.order = nil
	b.paged = false
	return b
}

// OrderByKey sorts by the root primary key ascending.
func (b *SelectBuilder) OrderByKey() *SelectBuilder {
	b.order = []orderTerm{{column: b.root.PrimaryKey}}
	return b
}

// Page applies sort and limit/offset from a page request. Sort fields are
// entity properties resolved through the root manifest; unknown fields are a
// validation error.
func (b *SelectBuilder) Page(entity string, page domain.PageRequest) (*SelectBuilder, error) {
	b.order = b.order[:0]
	for _, o := range page.Sort {
		col, ok := b.root.Resolve(o.Field)
		if !ok {
			return nil, domain.ErrEntityValidation(entity, domain.KeySort, "cannot sort by unknown property %q", o.Field)
		}
		b.order = append(b.order, orderTerm{column: col.Name, desc: o.Desc})
	}
	b.limit = page.Limit()
	b.offset = page.Offset()
	b.paged = true
	return b, nil
}

// Build renders the statement and its bind values.
func (b *SelectBuilder) Build(d Dialect) (string, []any) {
	a := &args{d: d}
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(columnList(b.root, b.prefix))
	for _, j := range b.joins {
		sb.WriteString(", ")
		sb.WriteString(columnList(j.table, j.prefix))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.root.Name)
	sb.WriteString(" ")
	sb.WriteString(b.prefix)
	for _, j := range b.joins {
		fmt.Fprintf(&sb, " LEFT OUTER JOIN %s %s ON %s = %s",
			j.table.Name, j.prefix,
			qualify(b.prefix, j.localColumn), qualify(j.prefix, j.table.PrimaryKey))
	}
	if b.where != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.where.render(a))
	}
	if len(b.order) > 0 {
		terms := make([]string, len(b.order))
		for i, o := range b.order {
			dir := "ASC"
			if o.desc {
				dir = "DESC"
			}
			terms[i] = qualify(b.prefix, o.column) + " " + dir
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}
	if b.paged {
		sb.WriteString(" LIMIT ")
		sb.WriteString(a.bind(b.limit))
		sb.WriteString(" OFFSET ")
		sb.WriteString(a.bind(b.offset))
	}
	return sb.String(), a.vals
}

func columnList(t *Table, prefix string) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = qualify(prefix, c.Name) + " AS " + prefix + "_" + c.Name
	}
	return strings.Join(cols, ", ")
}

// InsertSQL renders an INSERT of every writable column returning the new
// primary key.
func InsertSQL(d Dialect, t *Table) string {
	cols := t.WritableColumns()
	names := make([]string, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
		ph[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.Name, strings.Join(names, ", "), strings.Join(ph, ", "), t.PrimaryKey)
}

// UpdateSQL renders a full-row UPDATE keyed by primary key. The key is the
// last bind value.
func UpdateSQL(d Dialect, t *Table) string {
	cols := t.WritableColumns()
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c.Name + " = " + d.Placeholder(i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		t.Name, strings.Join(sets, ", "), t.PrimaryKey, d.Placeholder(len(cols)+1))
}

// DeleteSQL renders "DELETE FROM table WHERE column = ?".
func DeleteSQL(d Dialect, table, column string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %s", table, column, d.Placeholder(1))
}

// CountSQL renders a row count of t.
func CountSQL(t *Table) string {
	return "SELECT COUNT(*) FROM " + t.Name
}

// ExistsSQL renders a primary-key existence probe.
func ExistsSQL(d Dialect, t *Table) string {
	return fmt.Sprintf("SELECT 1 FROM %s WHERE %s = %s", t.Name, t.PrimaryKey, d.Placeholder(1))
}

// InsertEdgeSQL renders one edge insert into the join table.
func (j JoinTable) InsertEdgeSQL(d Dialect) string {
	return fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES (%s, %s)",
		j.Name, j.OwnerColumn, j.TargetColumn, d.Placeholder(1), d.Placeholder(2))
}

// SelectTargets renders a query returning the target rows linked to any of
// ownerIDs. Target columns use prefix "e"; the owner key is aliased
// "rel_owner_id".
func (j JoinTable) SelectTargets(d Dialect, target *Table, ownerIDs []int64) (string, []any) {
	a := &args{d: d}
	vals := make([]any, len(ownerIDs))
	for i, id := range ownerIDs {
		vals[i] = id
	}
	where := In("rel", j.OwnerColumn, vals...).render(a)
	q := fmt.Sprintf("SELECT rel.%s AS rel_owner_id, %s FROM %s rel INNER JOIN %s e ON rel.%s = e.%s WHERE %s ORDER BY rel.%s, e.%s",
		j.OwnerColumn, columnList(target, "e"), j.Name, target.Name,
		j.TargetColumn, target.PrimaryKey, where, j.OwnerColumn, target.PrimaryKey)
	return q, a.vals
}
