package api

import (
	"net/http"
	"strconv"

	"erp-demo/internal/domain"
	"erp-demo/internal/mapper"
)

const appUsersPath = "/api/app-users"

// filterOrganizationIsNull selects app users without an organization.
const filterOrganizationIsNull = "organization-is-null"

func (h *APIHandler) createAppUser(w http.ResponseWriter, r *http.Request) {
	var dto mapper.AppUserDTO
	if err := decodeBody(r, domain.EntityAppUser, &dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	if dto.ID != nil {
		h.writeError(w, r, domain.ErrEntityValidation(domain.EntityAppUser, domain.KeyIDExists, "a new appUser cannot already have an id"))
		return
	}
	if err := mapper.ValidateAppUser(&dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.appUsers.Create(r.Context(), mapper.AppUserFromDTO(&dto))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.alert(w, domain.EntityAppUser, "created", created.ID)
	w.Header().Set("Location", appUsersPath+"/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, mapper.AppUserToDTO(created))
}

func (h *APIHandler) updateAppUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityAppUser)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var dto mapper.AppUserDTO
	if err := decodeBody(r, domain.EntityAppUser, &dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := mapper.ValidateAppUser(&dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.appUsers.Update(r.Context(), id, mapper.AppUserFromDTO(&dto))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.alert(w, domain.EntityAppUser, "updated", updated.ID)
	writeJSON(w, http.StatusOK, mapper.AppUserToDTO(updated))
}

func (h *APIHandler) patchAppUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityAppUser)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var dto mapper.AppUserDTO
	if err := decodeBody(r, domain.EntityAppUser, &dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.appUsers.PartialUpdate(r.Context(), id, mapper.AppUserPatchFromDTO(&dto))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.alert(w, domain.EntityAppUser, "updated", updated.ID)
	writeJSON(w, http.StatusOK, mapper.AppUserToDTO(updated))
}

// listAppUsers serves the paged list, or an unpaged lookup when
// organizationId or filter=organization-is-null is given.
func (h *APIHandler) listAppUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, byOrg, err := queryID(r, domain.EntityAppUser, "organizationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	filter := r.URL.Query().Get("filter")
	switch {
	case filter == filterOrganizationIsNull:
		items, err := h.appUsers.ListWhereOrganizationIsNull(ctx)
		h.writeUnpagedAppUsers(w, r, items, err)
		return
	case filter != "":
		h.writeError(w, r, domain.ErrEntityValidation(domain.EntityAppUser, "filterinvalid", "unknown filter %q", filter))
		return
	case byOrg:
		items, err := h.appUsers.ListByOrganization(ctx, orgID)
		h.writeUnpagedAppUsers(w, r, items, err)
		return
	}

	page, err := pageFromQuery(r, domain.EntityAppUser)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.appUsers.List(ctx, page, eagerLoad(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	paginationHeaders(w, r, page, total)
	writeJSON(w, http.StatusOK, mapper.AppUsersToDTO(items))
}

func (h *APIHandler) writeUnpagedAppUsers(w http.ResponseWriter, r *http.Request, items []domain.AppUser, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(items)))
	writeJSON(w, http.StatusOK, mapper.AppUsersToDTO(items))
}

func (h *APIHandler) getAppUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityAppUser)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.appUsers.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapper.AppUserToDTO(u))
}

func (h *APIHandler) countAppUsers(w http.ResponseWriter, r *http.Request) {
	n, err := h.appUsers.Count(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *APIHandler) deleteAppUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityAppUser)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.appUsers.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.alert(w, domain.EntityAppUser, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) searchAppUsers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, domain.EntityAppUser)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.appUsers.Search(r.Context(), r.URL.Query().Get("query"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	paginationHeaders(w, r, page, total)
	writeJSON(w, http.StatusOK, mapper.AppUsersToDTO(items))
}

func (h *APIHandler) searchCountAppUsers(w http.ResponseWriter, r *http.Request) {
	n, err := h.appUsers.SearchCount(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *APIHandler) reindexAppUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityAppUser)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.appUsers.Reindex(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) reindexAllAppUsers(w http.ResponseWriter, r *http.Request) {
	n, err := h.appUsers.ReindexAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reindexResult{Entity: domain.EntityAppUser, Documents: n})
}
