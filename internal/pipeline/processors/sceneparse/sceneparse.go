// Package sceneparse implements order 3: the story is split into a
// structured list of scenes, each carrying a mood and scene-level story
// text. Its output is the one result in the whole spine the Executor
// special-cases — it is handed to the Fan-out Planner rather than
// enqueued as a single linear successor.
package sceneparse

import (
	"context"

	"github.com/narraforge/pipeline/internal/clients/llmclient"
	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

const systemPrompt = "Split the given story into numbered scenes. Return JSON: " +
	`{"scenes":[{"scene_number":1,"mood":"...","story":"..."}]}`

var schema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"scenes": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"scene_number": map[string]any{"type": "integer"},
					"mood":         map[string]any{"type": "string"},
					"story":        map[string]any{"type": "string"},
				},
				"required": []string{"scene_number", "mood", "story"},
			},
		},
	},
	"required": []string{"scenes"},
}

type Processor struct {
	llm llmclient.Client
}

func New(llm llmclient.Client) *Processor { return &Processor{llm: llm} }

func (p *Processor) Order() domain.Order { return domain.OrderSceneParse }
func (p *Processor) NeedsStore() bool    { return false }
func (p *Processor) IsTerminal() bool    { return false }

func (p *Processor) Invoke(ctx context.Context, _ dbctx.Context, _ string, payload string, _ registry.StoreHandles) (string, error) {
	obj, err := p.llm.GenerateJSON(ctx, systemPrompt, payload, "scene_parse_result", schema)
	if err != nil {
		return "", err
	}
	raw, err := marshalStable(obj)
	if err != nil {
		return "", err
	}
	return raw, nil
}
