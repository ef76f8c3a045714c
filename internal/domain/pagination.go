package domain

import (
	"math"
	"strings"
)

// DefaultPageSize is the default page size when none is specified.
const DefaultPageSize = 20

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 1000

// Order is a single sort criterion on an entity field (not a column name).
type Order struct {
	Field string
	Desc  bool
}

// PageRequest holds pagination parameters for list operations.
// Page is zero-based. A zero PageRequest means "first page, default size,
// store order".
type PageRequest struct {
	Page int
	Size int
	Sort []Order
}

// Offset returns the row offset of the requested page. It saturates at
// math.MaxInt instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	if p.Page > p.MaxPage() {
		return math.MaxInt
	}
	return p.Page * p.Limit()
}

// MaxPage is the largest page whose offset fits in an int.
func (p PageRequest) MaxPage() int {
	return math.MaxInt / p.Limit()
}

// Limit returns the effective page size, clamped to [1, MaxPageSize].
func (p PageRequest) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	if p.Size > MaxPageSize {
		return MaxPageSize
	}
	return p.Size
}

// ParseSort parses one "field,asc" / "field,desc" / "field" sort parameter.
// Empty input yields ok=false.
func ParseSort(raw string) (Order, bool) {
	field, dir, _ := strings.Cut(raw, ",")
	field = strings.TrimSpace(field)
	if field == "" {
		return Order{}, false
	}
	return Order{Field: field, Desc: strings.EqualFold(strings.TrimSpace(dir), "desc")}, true
}

// LastPage returns the zero-based index of the last page for total items.
func (p PageRequest) LastPage(total int64) int {
	limit := int64(p.Limit())
	if total <= 0 {
		return 0
	}
	return int((total - 1) / limit)
}
