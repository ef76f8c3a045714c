package repository

import (
	"context"
	"database/sql"

	"erp-demo/internal/db/schema"
	"erp-demo/internal/domain"
)

// edgeOwner reads the owner key SelectTargets aliases as "rel_owner_id".
var edgeOwner = &schema.Table{
	Name:       schema.AppUserPlaceholders.Name,
	PrimaryKey: "owner_id",
	Columns:    []schema.Column{{Field: "ID", Name: "owner_id", Type: schema.Int64}},
}

// AppUserRepo implements domain.AppUserRepository.
type AppUserRepo struct {
	store
}

// NewAppUserRepo creates an AppUserRepo. read may be nil to use the write
// pool for everything.
func NewAppUserRepo(write, read *sql.DB, d schema.Dialect) *AppUserRepo {
	return &AppUserRepo{store: newStore(write, read, d)}
}

func (r *AppUserRepo) selectFrom(eager bool) *schema.SelectBuilder {
	b := schema.Select(schema.AppUserTable, prefixRoot)
	if eager {
		b.LeftJoin(prefixSystemUser, schema.SystemUserTable, "system_user_id").
			LeftJoin(prefixOrganization, schema.AppUserTable, "organization_id")
	}
	return b
}

func (r *AppUserRepo) fromRow(row schema.Row, eager bool) (*domain.AppUser, error) {
	var u domain.AppUser
	if _, err := r.hyd.Hydrate(row, prefixRoot, schema.AppUserTable, &u); err != nil {
		return nil, err
	}
	if !eager {
		return &u, nil
	}

	var su domain.SystemUser
	ok, err := r.hyd.Hydrate(row, prefixSystemUser, schema.SystemUserTable, &su)
	if err != nil {
		return nil, err
	}
	if ok {
		u.SystemUser = &su
	}

	var org domain.AppUser
	ok, err = r.hyd.Hydrate(row, prefixOrganization, schema.AppUserTable, &org)
	if err != nil {
		return nil, err
	}
	if ok {
		u.Organization = &org
	}
	return &u, nil
}

func (r *AppUserRepo) list(ctx context.Context, b *schema.SelectBuilder, eager bool) ([]domain.AppUser, error) {
	query, args := b.Build(r.dialect)
	rows, err := r.queryRows(ctx, r.read, query, args...)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AppUser, 0, len(rows))
	for _, row := range rows {
		u, err := r.fromRow(row, eager)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if eager {
		if err := r.loadPlaceholders(ctx, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// loadPlaceholders fills the many-to-many side of users with one query over
// the join table.
func (r *AppUserRepo) loadPlaceholders(ctx context.Context, users []domain.AppUser) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, len(users))
	byID := make(map[int64]*domain.AppUser, len(users))
	for i := range users {
		ids[i] = users[i].ID
		byID[users[i].ID] = &users[i]
		users[i].Placeholders = []domain.Placeholder{}
		users[i].PlaceholderIDs = []int64{}
	}

	query, args := schema.AppUserPlaceholders.SelectTargets(r.dialect, schema.PlaceholderTable, ids)
	rows, err := r.queryRows(ctx, r.read, query, args...)
	if err != nil {
		return err
	}
	for _, row := range rows {
		var owner struct{ ID int64 }
		if _, err := r.hyd.Hydrate(row, "rel", edgeOwner, &owner); err != nil {
			return err
		}
		var p domain.Placeholder
		if _, err := r.hyd.Hydrate(row, prefixRoot, schema.PlaceholderTable, &p); err != nil {
			return err
		}
		if u, ok := byID[owner.ID]; ok {
			u.Placeholders = append(u.Placeholders, p)
			u.PlaceholderIDs = append(u.PlaceholderIDs, p.ID)
		}
	}
	return nil
}

func (r *AppUserRepo) replaceEdges(ctx context.Context, tx *sql.Tx, ownerID int64, targets []int64) error {
	j := schema.AppUserPlaceholders
	if _, err := tx.ExecContext(ctx, schema.DeleteSQL(r.dialect, j.Name, j.OwnerColumn), ownerID); err != nil {
		return err
	}
	seen := make(map[int64]struct{}, len(targets))
	for _, target := range targets {
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		if _, err := tx.ExecContext(ctx, j.InsertEdgeSQL(r.dialect), ownerID, target); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts u and its placeholder edges in one transaction.
func (r *AppUserRepo) Create(ctx context.Context, u *domain.AppUser) (*domain.AppUser, error) {
	vals, err := schema.Values(schema.AppUserTable, u)
	if err != nil {
		return nil, err
	}
	var id int64
	err = r.inTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, schema.InsertSQL(r.dialect, schema.AppUserTable), vals...).Scan(&id); err != nil {
			return err
		}
		if len(u.PlaceholderIDs) > 0 {
			return r.replaceEdges(ctx, tx, id, u.PlaceholderIDs)
		}
		return nil
	})
	if err != nil {
		return nil, mapDBError(err, domain.EntityAppUser)
	}
	out := *u
	out.ID = id
	return &out, nil
}

// Update overwrites the row. The join table is rewritten only when
// u.PlaceholderIDs is non-nil.
func (r *AppUserRepo) Update(ctx context.Context, u *domain.AppUser) (*domain.AppUser, error) {
	vals, err := schema.Values(schema.AppUserTable, u)
	if err != nil {
		return nil, err
	}
	var missing bool
	err = r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, schema.UpdateSQL(r.dialect, schema.AppUserTable), append(vals, u.ID)...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			missing = true
			return nil
		}
		if u.PlaceholderIDs != nil {
			return r.replaceEdges(ctx, tx, u.ID, u.PlaceholderIDs)
		}
		return nil
	})
	if err != nil {
		return nil, mapDBError(err, domain.EntityAppUser)
	}
	if missing {
		return nil, domain.ErrEntityNotFound(domain.EntityAppUser, u.ID)
	}
	out := *u
	return &out, nil
}

// FindByID returns the app user with its system user, organization and
// placeholders.
func (r *AppUserRepo) FindByID(ctx context.Context, id int64) (*domain.AppUser, error) {
	users, err := r.list(ctx, r.selectFrom(true).ByID(id), true)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrEntityNotFound(domain.EntityAppUser, id)
	}
	return &users[0], nil
}

// List returns one page of app users.
func (r *AppUserRepo) List(ctx context.Context, page domain.PageRequest, eager bool) ([]domain.AppUser, error) {
	b, err := r.selectFrom(eager).Page(domain.EntityAppUser, page)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, b, eager)
}

// ListByOrganization returns the members of organizationID.
func (r *AppUserRepo) ListByOrganization(ctx context.Context, organizationID int64) ([]domain.AppUser, error) {
	b := r.selectFrom(false).Where(schema.Eq(prefixRoot, "organization_id", organizationID)).OrderByKey()
	return r.list(ctx, b, false)
}

// ListWhereOrganizationIsNull returns the top-level app users.
func (r *AppUserRepo) ListWhereOrganizationIsNull(ctx context.Context) ([]domain.AppUser, error) {
	b := r.selectFrom(false).Where(schema.IsNull(prefixRoot, "organization_id")).OrderByKey()
	return r.list(ctx, b, false)
}

// Count returns the number of stored app users.
func (r *AppUserRepo) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, schema.AppUserTable)
}

// Exists reports whether an app user with id is stored.
func (r *AppUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, schema.AppUserTable, id)
}

// Delete removes the app user's placeholder edges and then the row.
func (r *AppUserRepo) Delete(ctx context.Context, id int64) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		j := schema.AppUserPlaceholders
		if _, err := tx.ExecContext(ctx, schema.DeleteSQL(r.dialect, j.Name, j.OwnerColumn), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, schema.DeleteSQL(r.dialect, schema.AppUserTable.Name, schema.AppUserTable.PrimaryKey), id)
		return err
	})
	return mapDeleteError(err, domain.EntityAppUser, id)
}
