package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"erp-demo/internal/metrics"
)

func TestIndexMirror_BreakerOpensAndRejects(t *testing.T) {
	m := metrics.New()
	mirror := NewIndexMirror(MirrorConfig{MaxFailures: 2, Timeout: time.Hour}, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	calls := 0
	failing := func(context.Context) error { calls++; return errTest }

	assert.False(t, mirror.Apply(ctx, "placeholder", "save", 1, failing))
	assert.False(t, mirror.Apply(ctx, "placeholder", "save", 2, failing))
	assert.Equal(t, "open", mirror.State())

	assert.False(t, mirror.Apply(ctx, "placeholder", "save", 3, failing))
	assert.Equal(t, 2, calls, "open breaker short-circuits the write")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.IndexOps.WithLabelValues("placeholder", "save", metrics.OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndexOps.WithLabelValues("placeholder", "save", metrics.OutcomeRejected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BreakerState.WithLabelValues("search-index")))
}

func TestIndexMirror_Success(t *testing.T) {
	mirror := NewIndexMirror(MirrorConfig{}, nil, nil)
	assert.True(t, mirror.Apply(context.Background(), "appUser", "delete", 1, func(context.Context) error { return nil }))
	assert.Equal(t, "closed", mirror.State())
}
