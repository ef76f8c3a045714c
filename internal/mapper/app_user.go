package mapper

import "erp-demo/internal/domain"

// AppUserToDTO projects u. Associations become reference DTOs one level deep.
func AppUserToDTO(u *domain.AppUser) AppUserDTO {
	dto := AppUserDTO{
		ID:          int64Ref(u.ID),
		Designation: stringRef(u.Designation),
	}
	switch {
	case u.SystemUser != nil:
		dto.SystemUser = &UserRefDTO{ID: u.SystemUser.ID, Login: u.SystemUser.Login}
	case u.SystemUserID != nil:
		dto.SystemUser = &UserRefDTO{ID: *u.SystemUserID}
	}
	dto.Organization = organizationRef(u.Organization, u.OrganizationID)
	switch {
	case u.Placeholders != nil:
		dto.Placeholders = make([]PlaceholderRefDTO, len(u.Placeholders))
		for i := range u.Placeholders {
			dto.Placeholders[i] = placeholderRef(&u.Placeholders[i])
		}
	case u.PlaceholderIDs != nil:
		dto.Placeholders = make([]PlaceholderRefDTO, len(u.PlaceholderIDs))
		for i, id := range u.PlaceholderIDs {
			dto.Placeholders[i] = PlaceholderRefDTO{ID: id}
		}
	}
	return dto
}

// AppUsersToDTO projects a slice.
func AppUsersToDTO(users []domain.AppUser) []AppUserDTO {
	out := make([]AppUserDTO, len(users))
	for i := range users {
		out[i] = AppUserToDTO(&users[i])
	}
	return out
}

// AppUserFromDTO builds the entity for a create or full update. Associations
// are taken by id only; a missing placeholders list means "no placeholders".
func AppUserFromDTO(dto *AppUserDTO) *domain.AppUser {
	u := &domain.AppUser{
		ID:             deref(dto.ID),
		Designation:    deref(dto.Designation),
		PlaceholderIDs: placeholderIDs(dto.Placeholders),
	}
	if dto.SystemUser != nil {
		u.SystemUserID = int64Ref(dto.SystemUser.ID)
	}
	if dto.Organization != nil {
		u.OrganizationID = int64Ref(dto.Organization.ID)
	}
	if u.PlaceholderIDs == nil {
		u.PlaceholderIDs = []int64{}
	}
	return u
}

// AppUserPatchFromDTO builds a partial update. Absent or null fields stay
// nil and leave the stored value unchanged.
func AppUserPatchFromDTO(dto *AppUserDTO) domain.AppUserPatch {
	p := domain.AppUserPatch{
		ID:             deref(dto.ID),
		Designation:    dto.Designation,
		PlaceholderIDs: placeholderIDs(dto.Placeholders),
	}
	if dto.SystemUser != nil {
		p.SystemUserID = int64Ref(dto.SystemUser.ID)
	}
	if dto.Organization != nil {
		p.OrganizationID = int64Ref(dto.Organization.ID)
	}
	return p
}

func organizationRef(org *domain.AppUser, id *int64) *AppUserRefDTO {
	switch {
	case org != nil:
		return &AppUserRefDTO{ID: org.ID, Designation: org.Designation}
	case id != nil:
		return &AppUserRefDTO{ID: *id}
	}
	return nil
}

func placeholderIDs(refs []PlaceholderRefDTO) []int64 {
	if refs == nil {
		return nil
	}
	ids := make([]int64, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}
