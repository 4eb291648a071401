// Package fanout implements the single fan-out point in the pipeline DAG:
// after scene parsing, one task's result becomes three independent
// successor tasks with disjoint payload projections.
package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/narraforge/pipeline/internal/domain"
)

type scene struct {
	SceneNumber int    `json:"scene_number"`
	Mood        string `json:"mood"`
	Story       string `json:"story"`
}

type sceneParseResult struct {
	Scenes []scene `json:"scenes"`
}

type translationEntry struct {
	SceneNumber int    `json:"scene_number"`
	Story       string `json:"story"`
}

type emotionEntry struct {
	SceneNumber int    `json:"scene_number"`
	Mood        string `json:"mood"`
}

// Enqueuer is the subset of the Task Store the Planner needs: creating a
// successor task for a given pipeline.
type Enqueuer interface {
	CreateTask(ctx context.Context, stepID, pipelineID string, order domain.Order, payload string) error
}

type StepIDGenerator func() string

// Plan parses a scene-parse result and enqueues the three successor
// tasks (image spine, translation branch, emotion branch) concurrently.
// All three are created before Plan returns; a scene-parse result with
// zero scenes still produces three tasks, with empty-array payloads for
// the two branches.
func Plan(ctx context.Context, store Enqueuer, genStepID StepIDGenerator, pipelineID string, parentOrder domain.Order, sceneParseJSON string) error {
	var parsed sceneParseResult
	if err := json.Unmarshal([]byte(sceneParseJSON), &parsed); err != nil {
		return fmt.Errorf("parse scene-parse result: %w", err)
	}

	translationPayload := make([]translationEntry, 0, len(parsed.Scenes))
	emotionPayload := make([]emotionEntry, 0, len(parsed.Scenes))
	for _, s := range parsed.Scenes {
		translationPayload = append(translationPayload, translationEntry{SceneNumber: s.SceneNumber, Story: s.Story})
		emotionPayload = append(emotionPayload, emotionEntry{SceneNumber: s.SceneNumber, Mood: s.Mood})
	}

	translationJSON, err := json.Marshal(translationPayload)
	if err != nil {
		return fmt.Errorf("marshal translation payload: %w", err)
	}
	emotionJSON, err := json.Marshal(emotionPayload)
	if err != nil {
		return fmt.Errorf("marshal emotion payload: %w", err)
	}

	imageOrder := parentOrder + 1
	translationOrder := branchOrder(parentOrder, 1)
	emotionOrder := branchOrder(parentOrder, 2)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return store.CreateTask(gctx, genStepID(), pipelineID, imageOrder, sceneParseJSON)
	})
	g.Go(func() error {
		return store.CreateTask(gctx, genStepID(), pipelineID, translationOrder, string(translationJSON))
	})
	g.Go(func() error {
		return store.CreateTask(gctx, genStepID(), pipelineID, emotionOrder, string(emotionJSON))
	})
	return g.Wait()
}

// branchOrder reproduces the two-digit encoding that keeps branch steps
// distinguishable from the main spine: int(fmt.Sprintf("%d%d", parent, n)).
func branchOrder(parent domain.Order, n int) domain.Order {
	encoded := fmt.Sprintf("%d%d", int(parent), n)
	out, _ := strconv.Atoi(encoded)
	return domain.Order(out)
}
