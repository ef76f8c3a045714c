package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erp-demo/internal/domain"
	"erp-demo/internal/metrics"
	mocks "erp-demo/internal/testutil"
)

var errTest = errors.New("test error")

func strPtr(s string) *string { return &s }

func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Metrics: metrics.New()}
}

// memPlaceholders is a minimal in-memory relational store.
func memPlaceholders() *mocks.MockPlaceholderRepo {
	var mu sync.Mutex
	rows := map[int64]domain.Placeholder{}
	next := int64(0)
	return &mocks.MockPlaceholderRepo{
		CreateFn: func(_ context.Context, p *domain.Placeholder) (*domain.Placeholder, error) {
			mu.Lock()
			defer mu.Unlock()
			next++
			c := *p
			c.ID = next
			rows[c.ID] = c
			return &c, nil
		},
		UpdateFn: func(_ context.Context, p *domain.Placeholder) (*domain.Placeholder, error) {
			mu.Lock()
			defer mu.Unlock()
			rows[p.ID] = *p
			c := *p
			return &c, nil
		},
		FindByIDFn: func(_ context.Context, id int64) (*domain.Placeholder, error) {
			mu.Lock()
			defer mu.Unlock()
			p, ok := rows[id]
			if !ok {
				return nil, domain.ErrEntityNotFound(domain.EntityPlaceholder, id)
			}
			return &p, nil
		},
		ExistsFn: func(_ context.Context, id int64) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			_, ok := rows[id]
			return ok, nil
		},
		CountFn: func(_ context.Context) (int64, error) {
			mu.Lock()
			defer mu.Unlock()
			return int64(len(rows)), nil
		},
		DeleteFn: func(_ context.Context, id int64) error {
			mu.Lock()
			defer mu.Unlock()
			delete(rows, id)
			return nil
		},
	}
}

// === Create ===

func TestPlaceholderService_Create(t *testing.T) {
	t.Run("happy_path", func(t *testing.T) {
		repo := memPlaceholders()
		index := &mocks.MockIndex[domain.Placeholder]{}
		svc := NewPlaceholderService(repo, index, quietOptions())

		got, err := svc.Create(context.Background(), &domain.Placeholder{PlaceholderIndex: "AAAAAAAAAA", PlaceholderValue: strPtr("AAAAAAAAAA")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		require.Len(t, index.Saved, 1)
		assert.Equal(t, *got, index.Saved[0], "index receives the persisted entity")
	})

	t.Run("id_present", func(t *testing.T) {
		index := &mocks.MockIndex[domain.Placeholder]{}
		svc := NewPlaceholderService(&mocks.MockPlaceholderRepo{}, index, quietOptions())

		_, err := svc.Create(context.Background(), &domain.Placeholder{ID: 7, PlaceholderIndex: "x"})
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, domain.KeyIDExists, ve.Key)
		assert.Empty(t, index.Saved)
	})

	t.Run("relational_failure_skips_index", func(t *testing.T) {
		repo := &mocks.MockPlaceholderRepo{
			CreateFn: func(context.Context, *domain.Placeholder) (*domain.Placeholder, error) { return nil, errTest },
		}
		index := &mocks.MockIndex[domain.Placeholder]{}
		svc := NewPlaceholderService(repo, index, quietOptions())

		_, err := svc.Create(context.Background(), &domain.Placeholder{PlaceholderIndex: "x"})
		assert.ErrorIs(t, err, errTest)
		assert.Empty(t, index.Saved)
	})

	t.Run("index_failure_is_swallowed", func(t *testing.T) {
		opts := quietOptions()
		index := &mocks.MockIndex[domain.Placeholder]{
			SaveFn: func(context.Context, *domain.Placeholder) error { return errTest },
		}
		svc := NewPlaceholderService(memPlaceholders(), index, opts)

		got, err := svc.Create(context.Background(), &domain.Placeholder{PlaceholderIndex: "x"})
		require.NoError(t, err)
		assert.NotZero(t, got.ID)
		assert.Equal(t, 1.0, testutil.ToFloat64(opts.Metrics.IndexOps.WithLabelValues(domain.EntityPlaceholder, "save", metrics.OutcomeFailure)))
	})
}

// === Update / PartialUpdate ===

func TestPlaceholderService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("id_checks", func(t *testing.T) {
		svc := NewPlaceholderService(memPlaceholders(), &mocks.MockIndex[domain.Placeholder]{}, quietOptions())

		var ve *domain.ValidationError
		_, err := svc.Update(ctx, 1, &domain.Placeholder{PlaceholderIndex: "x"})
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, domain.KeyIDNull, ve.Key)

		_, err = svc.Update(ctx, 1, &domain.Placeholder{ID: 2, PlaceholderIndex: "x"})
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, domain.KeyIDInvalid, ve.Key)
	})

	t.Run("not_found", func(t *testing.T) {
		svc := NewPlaceholderService(memPlaceholders(), &mocks.MockIndex[domain.Placeholder]{}, quietOptions())

		_, err := svc.Update(ctx, 5, &domain.Placeholder{ID: 5, PlaceholderIndex: "x"})
		var nf *domain.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("partial_keeps_untouched_fields", func(t *testing.T) {
		index := &mocks.MockIndex[domain.Placeholder]{}
		svc := NewPlaceholderService(memPlaceholders(), index, quietOptions())

		created, err := svc.Create(ctx, &domain.Placeholder{PlaceholderIndex: "AAAAAAAAAA", PlaceholderValue: strPtr("AAAAAAAAAA")})
		require.NoError(t, err)

		got, err := svc.PartialUpdate(ctx, created.ID, domain.PlaceholderPatch{ID: created.ID, PlaceholderIndex: strPtr("BBBBBBBBBB")})
		require.NoError(t, err)
		assert.Equal(t, "BBBBBBBBBB", got.PlaceholderIndex)
		require.NotNil(t, got.PlaceholderValue)
		assert.Equal(t, "AAAAAAAAAA", *got.PlaceholderValue)

		require.Len(t, index.Saved, 2)
		assert.Equal(t, "BBBBBBBBBB", index.Saved[1].PlaceholderIndex)
	})

	t.Run("partial_missing_row", func(t *testing.T) {
		svc := NewPlaceholderService(memPlaceholders(), &mocks.MockIndex[domain.Placeholder]{}, quietOptions())
		_, err := svc.PartialUpdate(ctx, 3, domain.PlaceholderPatch{ID: 3})
		var nf *domain.NotFoundError
		assert.True(t, errors.As(err, &nf))
	})
}

// === Delete ===

func TestPlaceholderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		repo := memPlaceholders()
		index := &mocks.MockIndex[domain.Placeholder]{}
		svc := NewPlaceholderService(repo, index, quietOptions())

		created, err := svc.Create(ctx, &domain.Placeholder{PlaceholderIndex: "x"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))
		require.NoError(t, svc.Delete(ctx, created.ID))
		assert.Equal(t, []int64{created.ID, created.ID}, index.Deleted)

		n, err := svc.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("relational_failure_skips_index", func(t *testing.T) {
		repo := &mocks.MockPlaceholderRepo{
			DeleteFn: func(context.Context, int64) error { return domain.ErrEntityConflict(domain.EntityPlaceholder, domain.KeyInUse, "in use") },
		}
		index := &mocks.MockIndex[domain.Placeholder]{}
		svc := NewPlaceholderService(repo, index, quietOptions())

		err := svc.Delete(ctx, 1)
		var ce *domain.ConflictError
		assert.True(t, errors.As(err, &ce))
		assert.Empty(t, index.Deleted)
	})

	t.Run("index_failure_is_swallowed", func(t *testing.T) {
		index := &mocks.MockIndex[domain.Placeholder]{
			DeleteFn: func(context.Context, int64) error { return errTest },
		}
		svc := NewPlaceholderService(memPlaceholders(), index, quietOptions())
		assert.NoError(t, svc.Delete(ctx, 1))
	})
}

// === Reindex ===

func TestPlaceholderService_Reindex(t *testing.T) {
	ctx := context.Background()
	repo := memPlaceholders()
	index := &mocks.MockIndex[domain.Placeholder]{}
	svc := NewPlaceholderService(repo, index, quietOptions())

	created, err := repo.Create(ctx, &domain.Placeholder{PlaceholderIndex: "drifted"})
	require.NoError(t, err)

	t.Run("present_row_is_saved", func(t *testing.T) {
		require.NoError(t, svc.Reindex(ctx, created.ID))
		require.Len(t, index.Saved, 1)
		assert.Equal(t, "drifted", index.Saved[0].PlaceholderIndex)
	})

	t.Run("missing_row_is_removed", func(t *testing.T) {
		require.NoError(t, svc.Reindex(ctx, 99))
		assert.Equal(t, []int64{99}, index.Deleted)
	})

	t.Run("index_error_is_returned", func(t *testing.T) {
		failing := &mocks.MockIndex[domain.Placeholder]{
			SaveFn: func(context.Context, *domain.Placeholder) error { return errTest },
		}
		svc := NewPlaceholderService(repo, failing, quietOptions())
		assert.ErrorIs(t, svc.Reindex(ctx, created.ID), errTest)
	})
}

func TestPlaceholderService_ReindexAll(t *testing.T) {
	ctx := context.Background()
	const total = 450

	repo := &mocks.MockPlaceholderRepo{
		ListFn: func(_ context.Context, page domain.PageRequest, eager bool) ([]domain.Placeholder, error) {
			assert.True(t, eager)
			var out []domain.Placeholder
			for i := page.Offset(); i < total && len(out) < page.Limit(); i++ {
				out = append(out, domain.Placeholder{ID: int64(i + 1), PlaceholderIndex: "p"})
			}
			return out, nil
		},
	}
	cleared := false
	index := &mocks.MockIndex[domain.Placeholder]{
		DeleteAllFn: func(context.Context) error { cleared = true; return nil },
	}
	opts := quietOptions()
	opts.ReindexWorkers = 3
	svc := NewPlaceholderService(repo, index, opts)

	n, err := svc.ReindexAll(ctx)
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, total, n)
	assert.Equal(t, total, index.SavedCount())
	assert.Equal(t, float64(total), testutil.ToFloat64(opts.Metrics.ReindexedDocuments.WithLabelValues(domain.EntityPlaceholder)))
}

func TestPlaceholderService_ReindexAllStopsOnError(t *testing.T) {
	repo := &mocks.MockPlaceholderRepo{
		ListFn: func(_ context.Context, page domain.PageRequest, _ bool) ([]domain.Placeholder, error) {
			if page.Page > 0 {
				return nil, nil
			}
			return []domain.Placeholder{{ID: 1}, {ID: 2}}, nil
		},
	}
	index := &mocks.MockIndex[domain.Placeholder]{
		SaveFn: func(_ context.Context, p *domain.Placeholder) error {
			if p.ID == 2 {
				return errTest
			}
			return nil
		},
	}
	svc := NewPlaceholderService(repo, index, quietOptions())

	_, err := svc.ReindexAll(context.Background())
	assert.ErrorIs(t, err, errTest)
}

func TestPlaceholderService_SearchAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := memPlaceholders()
	index := &mocks.MockIndex[domain.Placeholder]{
		SearchFn: func(_ context.Context, query string, _ domain.PageRequest) ([]domain.Placeholder, int64, error) {
			assert.Equal(t, "aaa*", query)
			return []domain.Placeholder{{ID: 1}}, 1, nil
		},
		CountFn: func(context.Context) (int64, error) { return 7, nil },
	}
	svc := NewPlaceholderService(repo, index, quietOptions())

	hits, total, err := svc.Search(ctx, "aaa*", domain.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, int64(1), total)

	n, err := svc.SearchCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n, "index count is independent of the relational count")

	n, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
