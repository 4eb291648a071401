// Package executor implements the Step Executor: the piece that takes one
// claimed task, resolves and invokes its processor, records the result,
// and emits whatever successor task(s) the spine requires.
package executor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/ctxutil"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/platform/logger"
	"github.com/narraforge/pipeline/internal/platform/tracing"
	"github.com/narraforge/pipeline/internal/pipeline/fanout"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

// TaskStore is the subset of the Task Store the Executor drives.
type TaskStore interface {
	CreateTask(ctx context.Context, stepID, pipelineID string, order domain.Order, payload string) error
	Complete(ctx context.Context, stepID string, status domain.TaskStatus, result string) error
}

type Executor struct {
	store    TaskStore
	registry *registry.Registry
	handles  registry.StoreHandles
	log      *logger.Logger
}

func New(store TaskStore, reg *registry.Registry, handles registry.StoreHandles, log *logger.Logger) *Executor {
	return &Executor{store: store, registry: reg, handles: handles, log: log.With("component", "Executor")}
}

// Run executes one claimed task to completion: verify, dispatch, record,
// and enqueue successors. Every exit path is terminal for this call —
// the Executor never retries within itself.
func (e *Executor) Run(ctx context.Context, claimed *domain.ClaimedTask) error {
	ctx = ctxutil.WithTraceData(ctx, &ctxutil.TraceData{StepID: claimed.StepID})
	ctx, span := tracing.Start(ctx, "executor.run")
	defer span.End()

	log := e.log.With("step_id", claimed.StepID, "pipeline_id", claimed.PipelineID, "order", claimed.Order)

	if !claimed.HasRequiredFields() {
		log.Warn("task missing required fields, marking failed")
		return e.store.Complete(ctx, claimed.StepID, domain.TaskFailed, "missing required fields")
	}

	proc, ok := e.registry.Get(claimed.Order)
	if !ok {
		log.Warn("no processor registered for order")
		return e.store.Complete(ctx, claimed.StepID, domain.TaskFailed, fmt.Sprintf("unknown order %d", claimed.Order))
	}

	handles := registry.StoreHandles{}
	if proc.NeedsStore() {
		handles = e.handles
	}
	result, err := proc.Invoke(ctx, dbctx.New(ctx), claimed.PipelineID, claimed.Payload, handles)
	if err != nil {
		log.Warn("processor failed", "error", err)
		return e.store.Complete(ctx, claimed.StepID, domain.TaskFailed, err.Error())
	}

	if err := e.store.Complete(ctx, claimed.StepID, domain.TaskDone, result); err != nil {
		return fmt.Errorf("record completion for %s: %w", claimed.StepID, err)
	}

	switch {
	case claimed.Order == domain.OrderSceneParse:
		if err := fanout.Plan(ctx, e.store, newStepID, claimed.PipelineID, claimed.Order, result); err != nil {
			log.Warn("fan-out planning failed", "error", err)
			return err
		}
	case proc.IsTerminal():
		// no successor
	default:
		successorOrder := claimed.Order + 1
		if err := e.store.CreateTask(ctx, newStepID(), claimed.PipelineID, successorOrder, result); err != nil {
			return fmt.Errorf("enqueue successor for %s: %w", claimed.StepID, err)
		}
	}
	return nil
}

func newStepID() string {
	return uuid.NewString()
}
