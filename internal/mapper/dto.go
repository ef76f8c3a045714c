// Package mapper converts between domain entities and the transfer objects
// exposed at the REST boundary.
package mapper

// SchemaVersion is the revision of the entity projections in this package.
// Bump it whenever a DTO gains or loses a field.
const SchemaVersion = 3

// AppUserDTO is the transfer shape of an AppUser.
type AppUserDTO struct {
	ID           *int64              `json:"id,omitempty"`
	Designation  *string             `json:"designation" validate:"required"`
	SystemUser   *UserRefDTO         `json:"systemUser,omitempty"`
	Organization *AppUserRefDTO      `json:"organization,omitempty"`
	Placeholders []PlaceholderRefDTO `json:"placeholders,omitempty" validate:"omitempty,dive"`
}

// PlaceholderDTO is the transfer shape of a Placeholder.
type PlaceholderDTO struct {
	ID               *int64             `json:"id,omitempty"`
	PlaceholderIndex *string            `json:"placeholderIndex" validate:"required"`
	PlaceholderValue *string            `json:"placeholderValue,omitempty"`
	Archetype        *PlaceholderRefDTO `json:"archetype,omitempty"`
	Organization     *AppUserRefDTO     `json:"organization,omitempty"`
}

// UserRefDTO references a system user.
type UserRefDTO struct {
	ID    int64  `json:"id" validate:"required"`
	Login string `json:"login,omitempty"`
}

// AppUserRefDTO references an AppUser acting as an organization.
type AppUserRefDTO struct {
	ID          int64  `json:"id" validate:"required"`
	Designation string `json:"designation,omitempty"`
}

// PlaceholderRefDTO references a Placeholder.
type PlaceholderRefDTO struct {
	ID               int64   `json:"id" validate:"required"`
	PlaceholderValue *string `json:"placeholderValue,omitempty"`
}

// Equal reports whether d and o denote the same persisted AppUser. Two
// unsaved DTOs are never equal.
func (d *AppUserDTO) Equal(o *AppUserDTO) bool {
	return d != nil && o != nil && sameID(d.ID, o.ID)
}

// Equal reports whether d and o denote the same persisted Placeholder.
func (d *PlaceholderDTO) Equal(o *PlaceholderDTO) bool {
	return d != nil && o != nil && sameID(d.ID, o.ID)
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
