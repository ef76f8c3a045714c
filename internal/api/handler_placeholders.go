package api

import (
	"net/http"
	"strconv"

	"erp-demo/internal/domain"
	"erp-demo/internal/mapper"
)

const placeholdersPath = "/api/placeholders"

func (h *APIHandler) createPlaceholder(w http.ResponseWriter, r *http.Request) {
	var dto mapper.PlaceholderDTO
	if err := decodeBody(r, domain.EntityPlaceholder, &dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	if dto.ID != nil {
		h.writeError(w, r, domain.ErrEntityValidation(domain.EntityPlaceholder, domain.KeyIDExists, "a new placeholder cannot already have an id"))
		return
	}
	if err := mapper.ValidatePlaceholder(&dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	created, err := h.placeholders.Create(r.Context(), mapper.PlaceholderFromDTO(&dto))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.alert(w, domain.EntityPlaceholder, "created", created.ID)
	w.Header().Set("Location", placeholdersPath+"/"+strconv.FormatInt(created.ID, 10))
	writeJSON(w, http.StatusCreated, mapper.PlaceholderToDTO(created))
}

func (h *APIHandler) updatePlaceholder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityPlaceholder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var dto mapper.PlaceholderDTO
	if err := decodeBody(r, domain.EntityPlaceholder, &dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := mapper.ValidatePlaceholder(&dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.placeholders.Update(r.Context(), id, mapper.PlaceholderFromDTO(&dto))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.alert(w, domain.EntityPlaceholder, "updated", updated.ID)
	writeJSON(w, http.StatusOK, mapper.PlaceholderToDTO(updated))
}

func (h *APIHandler) patchPlaceholder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityPlaceholder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var dto mapper.PlaceholderDTO
	if err := decodeBody(r, domain.EntityPlaceholder, &dto); err != nil {
		h.writeError(w, r, err)
		return
	}
	updated, err := h.placeholders.PartialUpdate(r.Context(), id, mapper.PlaceholderPatchFromDTO(&dto))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.alert(w, domain.EntityPlaceholder, "updated", updated.ID)
	writeJSON(w, http.StatusOK, mapper.PlaceholderToDTO(updated))
}

// listPlaceholders serves the paged list, or an unpaged lookup when
// archetypeId or organizationId is given.
func (h *APIHandler) listPlaceholders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	archetypeID, byArchetype, err := queryID(r, domain.EntityPlaceholder, "archetypeId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	orgID, byOrg, err := queryID(r, domain.EntityPlaceholder, "organizationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	switch {
	case byArchetype:
		items, err := h.placeholders.ListByArchetype(ctx, archetypeID)
		h.writeUnpagedPlaceholders(w, r, items, err)
		return
	case byOrg:
		items, err := h.placeholders.ListByOrganization(ctx, orgID)
		h.writeUnpagedPlaceholders(w, r, items, err)
		return
	}

	page, err := pageFromQuery(r, domain.EntityPlaceholder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.placeholders.List(ctx, page, eagerLoad(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	paginationHeaders(w, r, page, total)
	writeJSON(w, http.StatusOK, mapper.PlaceholdersToDTO(items))
}

func (h *APIHandler) writeUnpagedPlaceholders(w http.ResponseWriter, r *http.Request, items []domain.Placeholder, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(items)))
	writeJSON(w, http.StatusOK, mapper.PlaceholdersToDTO(items))
}

func (h *APIHandler) getPlaceholder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityPlaceholder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.placeholders.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapper.PlaceholderToDTO(p))
}

func (h *APIHandler) countPlaceholders(w http.ResponseWriter, r *http.Request) {
	n, err := h.placeholders.Count(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *APIHandler) deletePlaceholder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityPlaceholder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.placeholders.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.alert(w, domain.EntityPlaceholder, "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) searchPlaceholders(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, domain.EntityPlaceholder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	items, total, err := h.placeholders.Search(r.Context(), r.URL.Query().Get("query"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	paginationHeaders(w, r, page, total)
	writeJSON(w, http.StatusOK, mapper.PlaceholdersToDTO(items))
}

func (h *APIHandler) searchCountPlaceholders(w http.ResponseWriter, r *http.Request) {
	n, err := h.placeholders.SearchCount(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *APIHandler) reindexPlaceholder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.EntityPlaceholder)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.placeholders.Reindex(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) reindexAllPlaceholders(w http.ResponseWriter, r *http.Request) {
	n, err := h.placeholders.ReindexAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reindexResult{Entity: domain.EntityPlaceholder, Documents: n})
}
