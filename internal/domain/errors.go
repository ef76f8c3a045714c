// Package domain defines the ERP entities, their repository contracts and
// the errors shared between layers.
package domain

import "fmt"

// Error keys shared by both entity families.
const (
	KeyIDExists    = "idexists"
	KeyIDNull      = "idnull"
	KeyIDInvalid   = "idinvalid"
	KeyIDNotFound  = "idnotfound"
	KeyRefNotFound = "refnotfound"
	KeyRequired    = "required"
	KeyInUse       = "inuse"
	KeySort        = "sortinvalid"
)

// Scope names the entity an error belongs to and a stable machine key,
// e.g. "placeholder" / "idexists". Clients switch on the pair.
type Scope struct {
	Entity string
	Key    string
}

// ErrorScope returns the entity and key.
func (s Scope) ErrorScope() (entity, key string) { return s.Entity, s.Key }

// Scoped is implemented by every domain error.
type Scoped interface {
	error
	ErrorScope() (entity, key string)
}

// NotFoundError reports a missing row.
type NotFoundError struct {
	Scope
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError reports input the operation refuses.
type ValidationError struct {
	Scope
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a write that collides with stored state: a
// duplicate key, or a row that other rows still reference.
type ConflictError struct {
	Scope
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ErrEntityNotFound reports that entity id does not exist.
func ErrEntityNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{
		Scope:   Scope{Entity: entity, Key: KeyIDNotFound},
		Message: fmt.Sprintf("%s %d not found", entity, id),
	}
}

// ErrEntityValidation creates a ValidationError under entity/key.
func ErrEntityValidation(entity, key, format string, args ...any) *ValidationError {
	return &ValidationError{Scope: Scope{Entity: entity, Key: key}, Message: fmt.Sprintf(format, args...)}
}

// ErrEntityConflict creates a ConflictError under entity/key.
func ErrEntityConflict(entity, key, format string, args ...any) *ConflictError {
	return &ConflictError{Scope: Scope{Entity: entity, Key: key}, Message: fmt.Sprintf(format, args...)}
}
