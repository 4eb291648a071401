// Package worker implements the Worker Loop: a long-lived consumer that
// blocks on the dispatch queue, hands each claimed task to the Step
// Executor, and recovers from processor failures so one bad task never
// brings down the process.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/envutil"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

// TaskClaimer is the subset of the Task Store the Worker Loop needs.
type TaskClaimer interface {
	ClaimNext(ctx context.Context, blockFor time.Duration) (*domain.ClaimedTask, error)
	Complete(ctx context.Context, stepID string, status domain.TaskStatus, result string) error
}

// StepRunner executes one claimed task to completion.
type StepRunner interface {
	Run(ctx context.Context, claimed *domain.ClaimedTask) error
}

type Worker struct {
	store TaskClaimer
	exec  StepRunner
	log   *logger.Logger
}

func New(store TaskClaimer, exec StepRunner, log *logger.Logger) *Worker {
	return &Worker{store: store, exec: exec, log: log.With("component", "Worker")}
}

// Start launches WORKER_CONCURRENCY (default 4) independent loops, each
// blocking on claim_next. Every claim_next call returns to exactly one
// goroutine, so multiple loops never observe the same step_id.
func (w *Worker) Start(ctx context.Context) {
	concurrency := envutil.Int("WORKER_CONCURRENCY", 4)
	if concurrency < 1 {
		concurrency = 1
	}
	w.log.Info("starting worker pool", "concurrency", concurrency)
	for i := 0; i < concurrency; i++ {
		go w.runLoop(ctx, i+1)
	}
}

// runLoop claims one task at a time and hands it to the Executor. A
// panic during execution is logged, the task is marked failed, and the
// loop sleeps 1s. An error returned by the Executor is logged and
// followed by a 1s sleep without changing the task's status; the
// Executor itself records failed status for processor errors, and by
// the time a fan-out or successor enqueue fails the task is already
// done. A worker is stateless across
// iterations: it processes one task to completion before claiming the
// next.
func (w *Worker) runLoop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker loop stopped", "worker_id", workerID)
			return
		default:
		}

		claimed, err := w.store.ClaimNext(ctx, 0)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("claim_next failed", "worker_id", workerID, "error", err)
			time.Sleep(time.Second)
			continue
		}

		w.runOne(ctx, workerID, claimed)
	}
}

func (w *Worker) runOne(ctx context.Context, workerID int, claimed *domain.ClaimedTask) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("processor panicked, marking task failed", "worker_id", workerID, "step_id", claimed.StepID, "panic", r)
			_ = w.store.Complete(ctx, claimed.StepID, domain.TaskFailed, fmt.Sprintf("panic: %v", r))
			time.Sleep(time.Second)
		}
	}()

	if err := w.exec.Run(ctx, claimed); err != nil {
		w.log.Warn("step execution error", "worker_id", workerID, "step_id", claimed.StepID, "error", err)
		time.Sleep(time.Second)
	}
}
