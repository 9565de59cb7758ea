package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/artha-erp/artha-erp/internal/jobs"
)

type fakeSweeper struct {
	n   int64
	err error
}

func (f *fakeSweeper) SweepOverdue(ctx context.Context) (int64, error) {
	return f.n, f.err
}

func TestOverdueSweepHandler(t *testing.T) {
	metrics := jobmetrics.NewMetrics(prometheus.NewRegistry())
	handler := NewOverdueSweepHandler(&fakeSweeper{n: 3}, metrics, slog.New(slog.DiscardHandler))
	require.NoError(t, handler(context.Background(), NewOverdueSweepTask()))
}

func TestOverdueSweepHandlerPropagatesError(t *testing.T) {
	boom := errors.New("db unavailable")
	handler := NewOverdueSweepHandler(&fakeSweeper{err: boom}, nil, slog.New(slog.DiscardHandler))
	require.ErrorIs(t, handler(context.Background(), NewOverdueSweepTask()), boom)
}

type fakeWarmer struct {
	calls int
}

func (f *fakeWarmer) Get(ctx context.Context, authenticate func(context.Context) (string, error)) (string, error) {
	f.calls++
	return authenticate(ctx)
}

func TestTokenWarmupHandler(t *testing.T) {
	warmer := &fakeWarmer{}
	handler := NewTokenWarmupHandler(warmer, func(ctx context.Context) (string, error) {
		return "tok-1", nil
	}, nil, slog.New(slog.DiscardHandler))
	require.NoError(t, handler(context.Background(), NewTokenWarmupTask()))
	require.Equal(t, 1, warmer.calls)
}
