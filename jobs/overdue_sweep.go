package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/artha-erp/artha-erp/internal/jobs"
)

// OverdueSweeper marks invoices past their due date as overdue and reports
// how many changed.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// TokenWarmer pre-fetches the portal auth token into the shared cache.
type TokenWarmer interface {
	Get(ctx context.Context, authenticate func(context.Context) (string, error)) (string, error)
}

// NewOverdueSweepHandler returns the Asynq handler for TaskOverdueSweep.
func NewOverdueSweepHandler(sweeper OverdueSweeper, metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("overdue_sweep")
		n, err := sweeper.SweepOverdue(ctx)
		if err != nil {
			logger.Error("overdue sweep failed", slog.Any("error", err))
			return tracker.End(err)
		}
		metrics.AddSweptInvoices(n)
		logger.Info("overdue sweep completed", slog.Int64("invoices", n))
		return tracker.End(nil)
	}
}

// NewTokenWarmupHandler returns the Asynq handler for TaskTokenWarmup.
func NewTokenWarmupHandler(tokens TokenWarmer, authenticate func(context.Context) (string, error), metrics *jobmetrics.Metrics, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track("token_warmup")
		if _, err := tokens.Get(ctx, authenticate); err != nil {
			logger.Warn("token warmup failed", slog.Any("error", err))
			return tracker.End(err)
		}
		return tracker.End(nil)
	}
}
