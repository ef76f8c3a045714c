package search

import (
	"strings"

	"erp-demo/internal/domain"
)

// Index names of the two entity collections.
const (
	AppUserIndexName     = "appuser"
	PlaceholderIndexName = "placeholder"
)

// NewAppUserIndex returns the AppUser collection. It implements
// domain.AppUserSearchRepository.
func NewAppUserIndex(ix *Index) *Collection[domain.AppUser] {
	return NewCollection(ix, AppUserIndexName, domain.EntityAppUser,
		func(u *domain.AppUser) int64 { return u.ID },
		appUserFields)
}

// NewPlaceholderIndex returns the Placeholder collection. It implements
// domain.PlaceholderSearchRepository.
func NewPlaceholderIndex(ix *Index) *Collection[domain.Placeholder] {
	return NewCollection(ix, PlaceholderIndexName, domain.EntityPlaceholder,
		func(p *domain.Placeholder) int64 { return p.ID },
		placeholderFields)
}

// Every key is always present so sort validation can read the field set off
// a zero value.
func appUserFields(u *domain.AppUser) map[string]string {
	f := map[string]string{
		"designation":  u.Designation,
		"systemUser":   "",
		"organization": "",
		"placeholders": "",
	}
	if u.SystemUser != nil {
		f["systemUser"] = u.SystemUser.Login
	}
	if u.Organization != nil {
		f["organization"] = u.Organization.Designation
	}
	if len(u.Placeholders) > 0 {
		vals := make([]string, 0, len(u.Placeholders))
		for _, p := range u.Placeholders {
			vals = append(vals, p.PlaceholderIndex)
			if p.PlaceholderValue != nil {
				vals = append(vals, *p.PlaceholderValue)
			}
		}
		f["placeholders"] = strings.Join(vals, " ")
	}
	return f
}

func placeholderFields(p *domain.Placeholder) map[string]string {
	f := map[string]string{
		"placeholderIndex": p.PlaceholderIndex,
		"placeholderValue": "",
		"archetype":        "",
		"organization":     "",
	}
	if p.PlaceholderValue != nil {
		f["placeholderValue"] = *p.PlaceholderValue
	}
	if p.Archetype != nil {
		f["archetype"] = p.Archetype.PlaceholderIndex
		if p.Archetype.PlaceholderValue != nil {
			f["archetype"] += " " + *p.Archetype.PlaceholderValue
		}
	}
	if p.Organization != nil {
		f["organization"] = p.Organization.Designation
	}
	return f
}

var (
	_ domain.AppUserSearchRepository     = (*Collection[domain.AppUser])(nil)
	_ domain.PlaceholderSearchRepository = (*Collection[domain.Placeholder])(nil)
)
