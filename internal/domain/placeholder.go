package domain

// EntityPlaceholder is the entity name used in error codes, alert headers,
// and the search index.
const EntityPlaceholder = "placeholder"

// Placeholder is a generic tag attachable to organizations and to other
// placeholders through its archetype.
type Placeholder struct {
	ID               int64
	PlaceholderIndex string
	PlaceholderValue *string
	ArchetypeID      *int64
	OrganizationID   *int64

	Archetype    *Placeholder
	Organization *AppUser
}

// PlaceholderPatch carries a partial update. Nil fields leave the stored value
// unchanged.
type PlaceholderPatch struct {
	ID               int64
	PlaceholderIndex *string
	PlaceholderValue *string
	ArchetypeID      *int64
	OrganizationID   *int64
}

// Apply merges the non-nil fields of patch onto p.
func (p *Placeholder) Apply(patch PlaceholderPatch) {
	if patch.PlaceholderIndex != nil {
		p.PlaceholderIndex = *patch.PlaceholderIndex
	}
	if patch.PlaceholderValue != nil {
		v := *patch.PlaceholderValue
		p.PlaceholderValue = &v
	}
	if patch.ArchetypeID != nil {
		id := *patch.ArchetypeID
		p.ArchetypeID = &id
		p.Archetype = nil
	}
	if patch.OrganizationID != nil {
		id := *patch.OrganizationID
		p.OrganizationID = &id
		p.Organization = nil
	}
}
