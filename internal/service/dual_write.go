package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"erp-demo/internal/domain"
	"erp-demo/internal/metrics"
)

// reindexPageSize is the relational page size used by ReindexAll.
const reindexPageSize = 200

// entityStore is the relational surface the coordinator needs. Both domain
// repositories satisfy it.
type entityStore[T any] interface {
	Create(ctx context.Context, v *T) (*T, error)
	Update(ctx context.Context, v *T) (*T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, page domain.PageRequest, eager bool) ([]T, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// entityIndex is the search surface the coordinator needs.
type entityIndex[T any] interface {
	Save(ctx context.Context, v *T) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Search(ctx context.Context, query string, page domain.PageRequest) ([]T, int64, error)
	Count(ctx context.Context) (int64, error)
}

// Options are the shared collaborators of the entity services.
type Options struct {
	Mirror         *IndexMirror
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	ReindexWorkers int
}

// coordinator sequences every write as relational store first, then search
// index. Index failures never fail the call.
type coordinator[T any] struct {
	entity  string
	store   entityStore[T]
	index   entityIndex[T]
	mirror  *IndexMirror
	metrics *metrics.Metrics
	logger  *slog.Logger
	workers int
	idOf    func(*T) int64
}

func newCoordinator[T any](entity string, store entityStore[T], index entityIndex[T], opts Options, idOf func(*T) int64) *coordinator[T] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mirror := opts.Mirror
	if mirror == nil {
		mirror = NewIndexMirror(MirrorConfig{}, opts.Metrics, logger)
	}
	workers := opts.ReindexWorkers
	if workers <= 0 {
		workers = 4
	}
	return &coordinator[T]{
		entity:  entity,
		store:   store,
		index:   index,
		mirror:  mirror,
		metrics: opts.Metrics,
		logger:  logger.With("component", "dual-write", "entity", entity),
		workers: workers,
		idOf:    idOf,
	}
}

// Create persists v, which must not carry an id.
func (c *coordinator[T]) Create(ctx context.Context, v *T) (*T, error) {
	if c.idOf(v) != 0 {
		return nil, domain.ErrEntityValidation(c.entity, domain.KeyIDExists, "a new %s cannot already have an id", c.entity)
	}
	created, err := c.store.Create(ctx, v)
	if err != nil {
		return nil, err
	}
	return c.settle(ctx, created), nil
}

// Update replaces the stored entity id with v.
func (c *coordinator[T]) Update(ctx context.Context, id int64, v *T) (*T, error) {
	if err := c.checkID(ctx, id, c.idOf(v)); err != nil {
		return nil, err
	}
	updated, err := c.store.Update(ctx, v)
	if err != nil {
		return nil, err
	}
	return c.settle(ctx, updated), nil
}

// partialUpdate loads id, lets apply merge the patch onto it and persists
// the result.
func (c *coordinator[T]) partialUpdate(ctx context.Context, id, bodyID int64, apply func(*T)) (*T, error) {
	if err := c.checkID(ctx, id, bodyID); err != nil {
		return nil, err
	}
	existing, err := c.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(existing)
	updated, err := c.store.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	return c.settle(ctx, updated), nil
}

// checkID validates the path id against the body id and confirms the row
// exists.
func (c *coordinator[T]) checkID(ctx context.Context, pathID, bodyID int64) error {
	if bodyID == 0 {
		return domain.ErrEntityValidation(c.entity, domain.KeyIDNull, "invalid id")
	}
	if bodyID != pathID {
		return domain.ErrEntityValidation(c.entity, domain.KeyIDInvalid, "id %d does not match path id %d", bodyID, pathID)
	}
	ok, err := c.store.Exists(ctx, pathID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrEntityNotFound(c.entity, pathID)
	}
	return nil
}

// settle re-reads the committed row with its associations and mirrors that
// copy into the index. If the re-read fails the written value is used.
func (c *coordinator[T]) settle(ctx context.Context, written *T) *T {
	id := c.idOf(written)
	stored, err := c.store.FindByID(ctx, id)
	if err != nil {
		c.logger.WarnContext(ctx, "re-read after write failed", "id", id, "error", err)
		stored = written
	}
	c.mirror.Apply(ctx, c.entity, "save", id, func(ctx context.Context) error {
		return c.index.Save(ctx, stored)
	})
	return stored
}

// Get returns one entity with its associations.
func (c *coordinator[T]) Get(ctx context.Context, id int64) (*T, error) {
	return c.store.FindByID(ctx, id)
}

// List returns one page and the relational total.
func (c *coordinator[T]) List(ctx context.Context, page domain.PageRequest, eager bool) ([]T, int64, error) {
	total, err := c.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := c.store.List(ctx, page, eager)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Count returns the relational row count.
func (c *coordinator[T]) Count(ctx context.Context) (int64, error) {
	return c.store.Count(ctx)
}

// Search queries the index. The total comes from the index and may briefly
// disagree with Count.
func (c *coordinator[T]) Search(ctx context.Context, query string, page domain.PageRequest) ([]T, int64, error) {
	return c.index.Search(ctx, query, page)
}

// SearchCount returns the index document count.
func (c *coordinator[T]) SearchCount(ctx context.Context) (int64, error) {
	return c.index.Count(ctx)
}

// Delete removes the row (join edges first) and then the index document.
// Deleting a missing id succeeds.
func (c *coordinator[T]) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.mirror.Apply(ctx, c.entity, "delete", id, func(ctx context.Context) error {
		return c.index.Delete(ctx, id)
	})
	return nil
}

// Reindex rebuilds the index document of id from the relational row, or
// removes it when the row is gone. Unlike the write path, index errors are
// returned.
func (c *coordinator[T]) Reindex(ctx context.Context, id int64) error {
	v, err := c.store.FindByID(ctx, id)
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return c.index.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	return c.index.Save(ctx, v)
}

// ReindexAll clears the index and repopulates it from every relational row.
// It returns the number of documents written.
func (c *coordinator[T]) ReindexAll(ctx context.Context) (int, error) {
	if err := c.index.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("clear %s index: %w", c.entity, err)
	}

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	page := domain.PageRequest{Size: reindexPageSize, Sort: []domain.Order{{Field: "id"}}}
	for ; ; page.Page++ {
		if err := gctx.Err(); err != nil {
			break
		}
		items, err := c.store.List(gctx, page, true)
		if err != nil {
			_ = g.Wait()
			return int(written.Load()), fmt.Errorf("list %s page %d: %w", c.entity, page.Page, err)
		}
		for i := range items {
			v := &items[i]
			g.Go(func() error {
				if err := c.index.Save(gctx, v); err != nil {
					return fmt.Errorf("index %s %d: %w", c.entity, c.idOf(v), err)
				}
				written.Add(1)
				return nil
			})
		}
		if len(items) < page.Limit() {
			break
		}
	}
	err := g.Wait()
	n := int(written.Load())
	if c.metrics != nil {
		c.metrics.ReindexedDocuments.WithLabelValues(c.entity).Add(float64(n))
	}
	if err != nil {
		return n, err
	}
	c.logger.Info("reindex complete", "documents", n)
	return n, nil
}
