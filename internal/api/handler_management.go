package api

import (
	"context"
	"net/http"
	"time"

	"erp-demo/internal/domain"
)

// healthTimeout bounds each probe of the health endpoint.
const healthTimeout = 2 * time.Second

type reindexResult struct {
	Entity    string `json:"entity"`
	Documents int    `json:"documents"`
}

type componentHealth struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentHealth `json:"components"`
}

const (
	statusUp   = "UP"
	statusDown = "DOWN"
)

// health reports relational store liveness and search index document
// counts. Only a relational failure makes the service DOWN: a broken index
// degrades search, not the system of record.
func (h *APIHandler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{Status: statusUp, Components: map[string]componentHealth{}}

	dbHealth := componentHealth{Status: statusUp}
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			dbHealth = componentHealth{Status: statusDown, Details: map[string]any{"error": err.Error()}}
			resp.Status = statusDown
		}
	}
	resp.Components["db"] = dbHealth

	idx := componentHealth{Status: statusUp, Details: map[string]any{}}
	if n, err := h.appUsers.SearchCount(ctx); err != nil {
		idx.Status = statusDown
		idx.Details["error"] = err.Error()
	} else {
		idx.Details[domain.EntityAppUser] = n
	}
	if n, err := h.placeholders.SearchCount(ctx); err != nil {
		idx.Status = statusDown
		idx.Details["error"] = err.Error()
	} else {
		idx.Details[domain.EntityPlaceholder] = n
	}
	if h.mirror != nil {
		idx.Details["breaker"] = h.mirror.State()
	}
	resp.Components["searchIndex"] = idx

	status := http.StatusOK
	if resp.Status != statusUp {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
