package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"erp-demo/internal/domain"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the error body and, for entity-scoped errors, the
// failure alert headers.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorFromDomain(err)
	if body.Code == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	if body.EntityName != "" && body.ErrorKey != "" {
		w.Header().Set("X-"+h.appName+"-error", "error."+body.ErrorKey)
		w.Header().Set("X-"+h.appName+"-params", body.EntityName)
	}
	writeJSON(w, body.Code, body)
}

// alert sets the success alert headers for a mutation on entity.
func (h *APIHandler) alert(w http.ResponseWriter, entity, action string, id int64) {
	w.Header().Set("X-"+h.appName+"-alert", h.appName+"."+entity+"."+action)
	w.Header().Set("X-"+h.appName+"-params", strconv.FormatInt(id, 10))
}

// decodeBody decodes a JSON body into v. Both application/json and
// application/merge-patch+json are accepted.
func decodeBody(r *http.Request, entity string, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || (mt != "application/json" && mt != "application/merge-patch+json") {
			return domain.ErrEntityValidation(entity, "contenttype", "unsupported content type %q", ct)
		}
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return domain.ErrEntityValidation(entity, "body", "read request body: %v", err)
	}
	if len(body) > maxBodyBytes {
		return domain.ErrEntityValidation(entity, "body", "request body exceeds %d bytes", maxBodyBytes)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return domain.ErrEntityValidation(entity, "body", "malformed JSON body: %v", err)
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request, entity string) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrEntityValidation(entity, domain.KeyIDInvalid, "invalid id %q", raw)
	}
	return id, nil
}

// queryID parses an optional positive id query parameter.
func queryID(r *http.Request, entity, name string) (int64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, domain.ErrEntityValidation(entity, domain.KeyIDInvalid, "invalid %s %q", name, raw)
	}
	return id, true, nil
}

// pageFromQuery reads page, size and repeated sort parameters.
func pageFromQuery(r *http.Request, entity string) (domain.PageRequest, error) {
	q := r.URL.Query()
	var p domain.PageRequest
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, domain.ErrEntityValidation(entity, "pageinvalid", "invalid page %q", v)
		}
		p.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, domain.ErrEntityValidation(entity, "pageinvalid", "invalid size %q", v)
		}
		p.Size = n
	}
	if p.Page > p.MaxPage() {
		return p, domain.ErrEntityValidation(entity, "pageinvalid", "page %d is out of range for size %d", p.Page, p.Limit())
	}
	for _, raw := range q["sort"] {
		if o, ok := domain.ParseSort(raw); ok {
			p.Sort = append(p.Sort, o)
		}
	}
	return p, nil
}

// eagerLoad reads the eagerload flag. Absent means false.
func eagerLoad(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("eagerload"))
	return err == nil && v
}

// paginationHeaders sets X-Total-Count and an RFC 5988 Link header with
// next, prev, last and first relations.
func paginationHeaders(w http.ResponseWriter, r *http.Request, page domain.PageRequest, total int64) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))

	last := page.LastPage(total)
	size := page.Limit()
	var links []string
	if page.Page < last {
		links = append(links, pageLink(r.URL, page.Page+1, size, "next"))
	}
	if page.Page > 0 {
		links = append(links, pageLink(r.URL, page.Page-1, size, "prev"))
	}
	links = append(links,
		pageLink(r.URL, last, size, "last"),
		pageLink(r.URL, 0, size, "first"))
	w.Header().Set("Link", strings.Join(links, ","))
}

func pageLink(u *url.URL, page, size int, rel string) string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	ref := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return fmt.Sprintf("<%s>; rel=%q", ref.String(), rel)
}
