package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"erp-demo/internal/domain"
)

// Collection is a typed view of one named index. Documents are stored as the
// JSON encoding of T.
type Collection[T any] struct {
	ix     *Index
	name   string
	entity string
	id     func(*T) int64
	fields func(*T) map[string]string
}

// NewCollection binds an index name to a document type. id extracts the
// document key and fields the searchable values.
func NewCollection[T any](ix *Index, name, entity string, id func(*T) int64, fields func(*T) map[string]string) *Collection[T] {
	return &Collection[T]{ix: ix, name: name, entity: entity, id: id, fields: fields}
}

// Name returns the index name.
func (c *Collection[T]) Name() string { return c.name }

// Save indexes v, replacing any previous version with the same id.
func (c *Collection[T]) Save(ctx context.Context, v *T) error {
	src, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	return c.ix.Put(ctx, c.name, Document{ID: c.id(v), Fields: c.fields(v), Source: src})
}

// Delete removes the document with id. A missing id is not an error.
func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	return c.ix.Delete(ctx, c.name, id)
}

// DeleteAll empties the collection.
func (c *Collection[T]) DeleteAll(ctx context.Context) error {
	return c.ix.DeleteAll(ctx, c.name)
}

// Count returns the number of indexed documents.
func (c *Collection[T]) Count(ctx context.Context) (int64, error) {
	return c.ix.Count(ctx, c.name)
}

// Get returns the indexed copy of id.
func (c *Collection[T]) Get(ctx context.Context, id int64) (*T, bool, error) {
	src, ok, err := c.ix.Get(ctx, c.name, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	var v T
	if err := json.Unmarshal(src, &v); err != nil {
		return nil, false, fmt.Errorf("decode %s %d: %w", c.name, id, err)
	}
	return &v, true, nil
}

// Search runs query and returns one page of hits plus the total match count.
// Sort fields must be "id" or one of the collection's searchable fields.
func (c *Collection[T]) Search(ctx context.Context, query string, page domain.PageRequest) ([]T, int64, error) {
	sortBy, err := c.sortFields(page.Sort)
	if err != nil {
		return nil, 0, err
	}
	hits, err := c.ix.Search(ctx, c.name, ParseQuery(query), sortBy, page.Offset(), page.Limit())
	if err != nil {
		return nil, 0, err
	}
	out := make([]T, 0, len(hits.Sources))
	for _, src := range hits.Sources {
		var v T
		if err := json.Unmarshal(src, &v); err != nil {
			return nil, 0, fmt.Errorf("decode %s hit: %w", c.name, err)
		}
		out = append(out, v)
	}
	return out, hits.Total, nil
}

func (c *Collection[T]) sortFields(orders []domain.Order) ([]SortField, error) {
	if len(orders) == 0 {
		return nil, nil
	}
	var zero T
	known := c.fields(&zero)
	out := make([]SortField, 0, len(orders))
	for _, o := range orders {
		field := o.Field
		if !strings.EqualFold(field, "id") {
			if _, ok := known[field]; !ok {
				return nil, domain.ErrEntityValidation(c.entity, domain.KeySort, "cannot sort by unknown property %q", o.Field)
			}
		} else {
			field = "id"
		}
		out = append(out, SortField{Field: field, Desc: o.Desc})
	}
	return out, nil
}
