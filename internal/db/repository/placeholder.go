package repository

import (
	"context"
	"database/sql"

	"erp-demo/internal/db/schema"
	"erp-demo/internal/domain"
)

// Column prefixes of the placeholder eager query.
const (
	prefixRoot         = "e"
	prefixArchetype    = "archetype"
	prefixOrganization = "organization"
	prefixSystemUser   = "sys_user"
)

// PlaceholderRepo implements domain.PlaceholderRepository.
type PlaceholderRepo struct {
	store
}

// NewPlaceholderRepo creates a PlaceholderRepo. read may be nil to use the
// write pool for everything.
func NewPlaceholderRepo(write, read *sql.DB, d schema.Dialect) *PlaceholderRepo {
	return &PlaceholderRepo{store: newStore(write, read, d)}
}

func (r *PlaceholderRepo) selectFrom(eager bool) *schema.SelectBuilder {
	b := schema.Select(schema.PlaceholderTable, prefixRoot)
	if eager {
		b.LeftJoin(prefixArchetype, schema.PlaceholderTable, "archetype_id").
			LeftJoin(prefixOrganization, schema.AppUserTable, "organization_id")
	}
	return b
}

func (r *PlaceholderRepo) fromRow(row schema.Row, eager bool) (*domain.Placeholder, error) {
	var p domain.Placeholder
	if _, err := r.hyd.Hydrate(row, prefixRoot, schema.PlaceholderTable, &p); err != nil {
		return nil, err
	}
	if !eager {
		return &p, nil
	}

	var arch domain.Placeholder
	ok, err := r.hyd.Hydrate(row, prefixArchetype, schema.PlaceholderTable, &arch)
	if err != nil {
		return nil, err
	}
	if ok {
		p.Archetype = &arch
	}

	var org domain.AppUser
	ok, err = r.hyd.Hydrate(row, prefixOrganization, schema.AppUserTable, &org)
	if err != nil {
		return nil, err
	}
	if ok {
		p.Organization = &org
	}
	return &p, nil
}

func (r *PlaceholderRepo) list(ctx context.Context, b *schema.SelectBuilder, eager bool) ([]domain.Placeholder, error) {
	query, args := b.Build(r.dialect)
	rows, err := r.queryRows(ctx, r.read, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Placeholder, 0, len(rows))
	for _, row := range rows {
		p, err := r.fromRow(row, eager)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

// Create inserts p and returns a copy carrying the generated id.
func (r *PlaceholderRepo) Create(ctx context.Context, p *domain.Placeholder) (*domain.Placeholder, error) {
	vals, err := schema.Values(schema.PlaceholderTable, p)
	if err != nil {
		return nil, err
	}
	var id int64
	if err := r.write.QueryRowContext(ctx, schema.InsertSQL(r.dialect, schema.PlaceholderTable), vals...).Scan(&id); err != nil {
		return nil, mapDBError(err, domain.EntityPlaceholder)
	}
	out := *p
	out.ID = id
	return &out, nil
}

// Update overwrites every column of the row with p's values.
func (r *PlaceholderRepo) Update(ctx context.Context, p *domain.Placeholder) (*domain.Placeholder, error) {
	vals, err := schema.Values(schema.PlaceholderTable, p)
	if err != nil {
		return nil, err
	}
	res, err := r.write.ExecContext(ctx, schema.UpdateSQL(r.dialect, schema.PlaceholderTable), append(vals, p.ID)...)
	if err != nil {
		return nil, mapDBError(err, domain.EntityPlaceholder)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, domain.ErrEntityNotFound(domain.EntityPlaceholder, p.ID)
	}
	out := *p
	return &out, nil
}

// FindByID returns the placeholder with its archetype and organization.
func (r *PlaceholderRepo) FindByID(ctx context.Context, id int64) (*domain.Placeholder, error) {
	query, args := r.selectFrom(true).ByID(id).Build(r.dialect)
	rows, err := r.queryRows(ctx, r.read, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrEntityNotFound(domain.EntityPlaceholder, id)
	}
	return r.fromRow(rows[0], true)
}

// List returns one page of placeholders.
func (r *PlaceholderRepo) List(ctx context.Context, page domain.PageRequest, eager bool) ([]domain.Placeholder, error) {
	b, err := r.selectFrom(eager).Page(domain.EntityPlaceholder, page)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, b, eager)
}

// ListByArchetype returns every placeholder whose archetype is archetypeID.
func (r *PlaceholderRepo) ListByArchetype(ctx context.Context, archetypeID int64) ([]domain.Placeholder, error) {
	b := r.selectFrom(false).Where(schema.Eq(prefixRoot, "archetype_id", archetypeID)).OrderByKey()
	return r.list(ctx, b, false)
}

// ListByOrganization returns every placeholder owned by organizationID.
func (r *PlaceholderRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]domain.Placeholder, error) {
	b := r.selectFrom(false).Where(schema.Eq(prefixRoot, "organization_id", organizationID)).OrderByKey()
	return r.list(ctx, b, false)
}

// ListByIDs returns the placeholders with the given ids, ordered by id.
func (r *PlaceholderRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.Placeholder, error) {
	b := r.selectFrom(false).Where(schema.In(prefixRoot, "id", int64Args(ids)...)).OrderByKey()
	return r.list(ctx, b, false)
}

// Count returns the number of stored placeholders.
func (r *PlaceholderRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, schema.PlaceholderTable)
}

// Exists reports whether a placeholder with id is stored.
func (r *PlaceholderRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, schema.PlaceholderTable, id)
}

// Delete removes the placeholder's app-user edges and then the row.
func (r *PlaceholderRepo) Delete(ctx context.Context, id int64) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		j := schema.AppUserPlaceholders
		if _, err := tx.ExecContext(ctx, schema.DeleteSQL(r.dialect, j.Name, j.TargetColumn), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, schema.DeleteSQL(r.dialect, schema.PlaceholderTable.Name, schema.PlaceholderTable.PrimaryKey), id)
		return err
	})
	return mapDeleteError(err, domain.EntityPlaceholder, id)
}
