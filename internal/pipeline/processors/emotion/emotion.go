// Package emotion implements order 32: the sibling of scenetranslate,
// classifying each scene's mood tag from scene-parse into a final label
// and persisting it to the Scene Store.
package emotion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/narraforge/pipeline/internal/clients/llmclient"
	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/platform/logger"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

const systemPrompt = "Classify the dominant emotion of the given scene in one or two words " +
	"(e.g. joyful, tense, melancholic). Return only the label."

type entry struct {
	SceneNumber int    `json:"scene_number"`
	Mood        string `json:"mood"`
}

type Processor struct {
	llm llmclient.Client
	log *logger.Logger
}

func New(llm llmclient.Client, log *logger.Logger) *Processor {
	return &Processor{llm: llm, log: log.With("processor", "emotion")}
}

func (p *Processor) Order() domain.Order { return domain.OrderEmotionClassify }
func (p *Processor) NeedsStore() bool    { return true }
func (p *Processor) IsTerminal() bool    { return true }

// Invoke classifies each scene independently; a failure on one scene is
// logged and skipped so the other scenes in this task still commit
// their mood, and the task's own status reflects only the last outcome.
func (p *Processor) Invoke(ctx context.Context, dbc dbctx.Context, pipelineID, payload string, store registry.StoreHandles) (string, error) {
	var entries []entry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return "", fmt.Errorf("parse emotion payload: %w", err)
	}

	var lastErr error
	for _, e := range entries {
		mood, err := p.llm.GenerateText(ctx, systemPrompt, e.Mood)
		if err != nil {
			p.log.Warn("emotion classification failed", "scene_number", e.SceneNumber, "error", err)
			lastErr = err
			continue
		}
		if err := store.Scenes.PutMood(dbc, pipelineID, e.SceneNumber, mood); err != nil {
			p.log.Warn("persist scene mood failed", "scene_number", e.SceneNumber, "error", err)
			lastErr = err
			continue
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "success", nil
}
