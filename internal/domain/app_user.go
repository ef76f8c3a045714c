package domain

// EntityAppUser is the entity name used in error codes, alert headers, and
// the search index.
const EntityAppUser = "appUser"

// AppUser is an organization/account wrapper around a system user. An AppUser
// may itself act as the organization of other AppUsers and Placeholders.
//
// Organization, SystemUser and Placeholders are populated only by eager reads
// and are always shallow: a hydrated Organization never carries its own
// associations.
type AppUser struct {
	ID             int64
	Designation    string
	SystemUserID   *int64
	OrganizationID *int64

	SystemUser   *SystemUser
	Organization *AppUser
	Placeholders []Placeholder

	// PlaceholderIDs is the write-side view of the many-to-many association.
	// A nil slice leaves the join table untouched on update.
	PlaceholderIDs []int64
}

// AppUserPatch carries a partial update. Nil fields leave the stored value
// unchanged; they never clear it.
type AppUserPatch struct {
	ID             int64
	Designation    *string
	SystemUserID   *int64
	OrganizationID *int64
	PlaceholderIDs []int64
}

// Apply merges the non-nil fields of p onto u.
func (u *AppUser) Apply(p AppUserPatch) {
	if p.Designation != nil {
		u.Designation = *p.Designation
	}
	if p.SystemUserID != nil {
		id := *p.SystemUserID
		u.SystemUserID = &id
		u.SystemUser = nil
	}
	if p.OrganizationID != nil {
		id := *p.OrganizationID
		u.OrganizationID = &id
		u.Organization = nil
	}
	if p.PlaceholderIDs != nil {
		u.PlaceholderIDs = append([]int64{}, p.PlaceholderIDs...)
	}
}

// SystemUser is the externally owned login principal an AppUser may wrap.
// Only the reference projection is modelled here.
type SystemUser struct {
	ID    int64
	Login string
}
