package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"erp-demo/internal/metrics"
)

// MirrorConfig tunes the circuit breaker around search index writes.
type MirrorConfig struct {
	MaxFailures uint32        // consecutive failures that open the breaker
	Timeout     time.Duration // open -> half-open delay
}

// IndexMirror applies best-effort writes to the search index. A failed or
// rejected write is logged and counted, never returned: the relational store
// is the system of record and Reindex repairs any drift.
type IndexMirror struct {
	cb      *gobreaker.CircuitBreaker[struct{}]
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewIndexMirror creates an IndexMirror. m may be nil.
func NewIndexMirror(cfg MirrorConfig, m *metrics.Metrics, logger *slog.Logger) *IndexMirror {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	im := &IndexMirror{metrics: m, logger: logger.With("component", "index-mirror")}

	const name = "search-index"
	if m != nil {
		m.BreakerState.WithLabelValues(name).Set(0)
	}
	im.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			im.logger.Warn("search index breaker state change", "from", from.String(), "to", to.String())
			if m != nil {
				m.BreakerState.WithLabelValues(name).Set(float64(to))
				m.BreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			}
		},
	})
	return im
}

// State returns the breaker state ("closed", "half-open", "open").
func (im *IndexMirror) State() string {
	return im.cb.State().String()
}

// Apply runs one index write for entity/id. It reports whether the write
// succeeded.
func (im *IndexMirror) Apply(ctx context.Context, entity, op string, id int64, fn func(context.Context) error) bool {
	_, err := im.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = metrics.OutcomeRejected
		im.logger.WarnContext(ctx, "search index write skipped, breaker open", "entity", entity, "op", op, "id", id)
	default:
		outcome = metrics.OutcomeFailure
		im.logger.WarnContext(ctx, "search index write failed", "entity", entity, "op", op, "id", id, "error", err)
	}
	if im.metrics != nil {
		im.metrics.IndexOps.WithLabelValues(entity, op, outcome).Inc()
	}
	return err == nil
}
