package api

import (
	"errors"
	"net/http"

	"erp-demo/internal/domain"
)

// errorBody is the JSON body of every error response.
type errorBody struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	EntityName string `json:"entityName,omitempty"`
	ErrorKey   string `json:"errorKey,omitempty"`
}

// statusOf maps a domain error to its HTTP status. Anything unrecognised is
// a 500.
func statusOf(err error) int {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		conflict   *domain.ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// errorFromDomain builds the response body for err. The message of a 500 is
// never echoed.
func errorFromDomain(err error) errorBody {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		return errorBody{Code: code, Message: "internal server error"}
	}
	body := errorBody{Code: code, Message: err.Error()}
	var scoped domain.Scoped
	if errors.As(err, &scoped) {
		body.EntityName, body.ErrorKey = scoped.ErrorScope()
	}
	return body
}
