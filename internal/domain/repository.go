package domain

import "context"

// AppUserRepository is the relational system of record for AppUsers.
type AppUserRepository interface {
	Create(ctx context.Context, u *AppUser) (*AppUser, error)
	Update(ctx context.Context, u *AppUser) (*AppUser, error)
	// FindByID returns the AppUser with its one-level associations hydrated.
	FindByID(ctx context.Context, id int64) (*AppUser, error)
	List(ctx context.Context, page PageRequest, eager bool) ([]AppUser, error)
	ListByOrganization(ctx context.Context, organizationID int64) ([]AppUser, error)
	ListWhereOrganizationIsNull(ctx context.Context) ([]AppUser, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Delete removes join-table edges and then the row. Deleting a missing
	// id is not an error.
	Delete(ctx context.Context, id int64) error
}

// PlaceholderRepository is the relational system of record for Placeholders.
type PlaceholderRepository interface {
	Create(ctx context.Context, p *Placeholder) (*Placeholder, error)
	Update(ctx context.Context, p *Placeholder) (*Placeholder, error)
	FindByID(ctx context.Context, id int64) (*Placeholder, error)
	List(ctx context.Context, page PageRequest, eager bool) ([]Placeholder, error)
	ListByArchetype(ctx context.Context, archetypeID int64) ([]Placeholder, error)
	ListByOrganization(ctx context.Context, organizationID int64) ([]Placeholder, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// AppUserSearchRepository is the denormalized search copy of AppUsers.
type AppUserSearchRepository interface {
	Save(ctx context.Context, u *AppUser) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, query string, page PageRequest) ([]AppUser, int64, error)
	Count(ctx context.Context) (int64, error)
}

// PlaceholderSearchRepository is the denormalized search copy of Placeholders.
type PlaceholderSearchRepository interface {
	Save(ctx context.Context, p *Placeholder) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, query string, page PageRequest) ([]Placeholder, int64, error)
	Count(ctx context.Context) (int64, error)
}
