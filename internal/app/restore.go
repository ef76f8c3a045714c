package app

import (
	"context"
	"fmt"
	"log/slog"

	"erp-demo/internal/domain"
)

// reindexer is the repair surface shared by both entity services.
type reindexer interface {
	Count(ctx context.Context) (int64, error)
	SearchCount(ctx context.Context) (int64, error)
	ReindexAll(ctx context.Context) (int, error)
}

// restoreSearchIndex rebuilds every entity index whose document count
// differs from its relational row count. An in-memory index always starts
// empty, so this repopulates it on every start.
func restoreSearchIndex(ctx context.Context, svcs Services, logger *slog.Logger) error {
	for name, svc := range map[string]reindexer{
		domain.EntityAppUser:     svcs.AppUser,
		domain.EntityPlaceholder: svcs.Placeholder,
	} {
		rows, err := svc.Count(ctx)
		if err != nil {
			return fmt.Errorf("count %s rows: %w", name, err)
		}
		docs, err := svc.SearchCount(ctx)
		if err != nil {
			return fmt.Errorf("count %s documents: %w", name, err)
		}
		if rows == docs {
			continue
		}
		logger.Info("search index out of step, rebuilding", "entity", name, "rows", rows, "documents", docs)
		if _, err := svc.ReindexAll(ctx); err != nil {
			return fmt.Errorf("reindex %s: %w", name, err)
		}
	}
	return nil
}
