// Package jobs runs background work for the billing service through Asynq:
// the overdue invoice sweep and e-invoice token warmup.
package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueSweep marks invoices past their due date as overdue.
	TaskOverdueSweep = "invoice:overdue_sweep"
	// TaskTokenWarmup refreshes the e-invoice portal auth token before the
	// cached one expires.
	TaskTokenWarmup = "einvoice:token_warmup"
)

// NewOverdueSweepTask constructs the overdue sweep task. The task carries no
// payload; the sweep derives everything from the clock.
func NewOverdueSweepTask() *asynq.Task {
	return asynq.NewTask(TaskOverdueSweep, nil)
}

// NewTokenWarmupTask constructs the token warmup task.
func NewTokenWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTokenWarmup, nil)
}
