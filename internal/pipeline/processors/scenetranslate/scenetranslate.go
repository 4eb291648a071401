// Package scenetranslate implements order 31: the emotion-branch's
// sibling translation branch, translating each scene's English story
// back to the target locale and persisting it to the Scene Store.
package scenetranslate

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

const systemPrompt = "Translate the given English text into natural Korean. Return only the translation."

type entry struct {
	SceneNumber int    `json:"scene_number"`
	Story       string `json:"story"`
}

type Processor struct {
	llm llmclient.Client
	log *logger.Logger
}

func New(llm llmclient.Client, log *logger.Logger) *Processor {
	return &Processor{llm: llm, log: log.With("processor", "scenetranslate")}
}

func (p *Processor) Order() domain.Order { return domain.OrderSceneTranslateEn }
func (p *Processor) NeedsStore() bool    { return true }
func (p *Processor) IsTerminal() bool    { return true }

// Invoke translates each scene independently; a failure on one scene is
// logged and skipped rather than failing the whole batch, so the other
// scenes in this task still commit their translations.
func (p *Processor) Invoke(ctx context.Context, dbc dbctx.Context, pipelineID, payload string, store registry.StoreHandles) (string, error) {
	var entries []entry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return "", fmt.Errorf("parse translation payload: %w", err)
	}

	var lastErr error
	for _, e := range entries {
		translated, err := p.llm.GenerateText(ctx, systemPrompt, e.Story)
		if err != nil {
			p.log.Warn("scene translation failed", "scene_number", e.SceneNumber, "error", err)
			lastErr = err
			continue
		}
		if err := store.Scenes.PutStory(dbc, pipelineID, e.SceneNumber, translated); err != nil {
			p.log.Warn("persist scene story failed", "scene_number", e.SceneNumber, "error", err)
			lastErr = err
			continue
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "success", nil
}
