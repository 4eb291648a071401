// Package launcher implements the Pipeline Launcher: the single entry
// point that turns an incoming request into the root task of a new
// pipeline run.
package launcher

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

// TaskCreator is the subset of the Task Store the Launcher needs.
type TaskCreator interface {
	CreateTask(ctx context.Context, stepID, pipelineID string, order domain.Order, payload string) error
}

type Launcher struct {
	store TaskCreator
	log   *logger.Logger
}

func New(store TaskCreator, log *logger.Logger) *Launcher {
	return &Launcher{store: store, log: log.With("component", "Launcher")}
}

// Launch generates a fresh step id, writes the initial order=1 task
// record, and returns it to the caller. pipelineID is caller-supplied and
// shared by every step of the run it seeds.
func (l *Launcher) Launch(ctx context.Context, pipelineID, payload string) (string, error) {
	if pipelineID == "" {
		return "", fmt.Errorf("pipelineId is required")
	}
	stepID := uuid.NewString()
	if err := l.store.CreateTask(ctx, stepID, pipelineID, domain.OrderTranslateKoEn, payload); err != nil {
		return "", fmt.Errorf("launch pipeline %s: %w", pipelineID, err)
	}
	l.log.Info("pipeline launched", "pipeline_id", pipelineID, "step_id", stepID)
	return stepID, nil
}
