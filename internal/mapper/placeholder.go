package mapper

import "erp-demo/internal/domain"

// PlaceholderToDTO projects p. Associations become reference DTOs.
func PlaceholderToDTO(p *domain.Placeholder) PlaceholderDTO {
	dto := PlaceholderDTO{
		ID:               int64Ref(p.ID),
		PlaceholderIndex: stringRef(p.PlaceholderIndex),
		PlaceholderValue: copyRef(p.PlaceholderValue),
		Organization:     organizationRef(p.Organization, p.OrganizationID),
	}
	switch {
	case p.Archetype != nil:
		ref := placeholderRef(p.Archetype)
		dto.Archetype = &ref
	case p.ArchetypeID != nil:
		dto.Archetype = &PlaceholderRefDTO{ID: *p.ArchetypeID}
	}
	return dto
}

// PlaceholdersToDTO projects a slice.
func PlaceholdersToDTO(ps []domain.Placeholder) []PlaceholderDTO {
	out := make([]PlaceholderDTO, len(ps))
	for i := range ps {
		out[i] = PlaceholderToDTO(&ps[i])
	}
	return out
}

// PlaceholderFromDTO builds the entity for a create or full update.
func PlaceholderFromDTO(dto *PlaceholderDTO) *domain.Placeholder {
	p := &domain.Placeholder{
		ID:               deref(dto.ID),
		PlaceholderIndex: deref(dto.PlaceholderIndex),
		PlaceholderValue: copyRef(dto.PlaceholderValue),
	}
	if dto.Archetype != nil {
		p.ArchetypeID = int64Ref(dto.Archetype.ID)
	}
	if dto.Organization != nil {
		p.OrganizationID = int64Ref(dto.Organization.ID)
	}
	return p
}

// PlaceholderPatchFromDTO builds a partial update from the non-null fields.
func PlaceholderPatchFromDTO(dto *PlaceholderDTO) domain.PlaceholderPatch {
	p := domain.PlaceholderPatch{
		ID:               deref(dto.ID),
		PlaceholderIndex: dto.PlaceholderIndex,
		PlaceholderValue: dto.PlaceholderValue,
	}
	if dto.Archetype != nil {
		p.ArchetypeID = int64Ref(dto.Archetype.ID)
	}
	if dto.Organization != nil {
		p.OrganizationID = int64Ref(dto.Organization.ID)
	}
	return p
}

func placeholderRef(p *domain.Placeholder) PlaceholderRefDTO {
	return PlaceholderRefDTO{ID: p.ID, PlaceholderValue: copyRef(p.PlaceholderValue)}
}
