// Package promptgen implements order 4: scene JSON is turned into one
// image-generation prompt per scene, the payload the image spine consumes.
package promptgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/narraforge/pipeline/internal/clients/llmclient"
	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

const systemPromptFmt = "Write one vivid image-generation prompt for this scene (mood: %s): %s"

type sceneIn struct {
	SceneNumber int    `json:"scene_number"`
	Mood        string `json:"mood"`
	Story       string `json:"story"`
}

type sceneParseResult struct {
	Scenes []sceneIn `json:"scenes"`
}

type scenePrompt struct {
	SceneNumber int    `json:"scene_number"`
	Prompt      string `json:"prompt"`
}

type promptResult struct {
	Scenes []scenePrompt `json:"scenes"`
}

type Processor struct {
	llm llmclient.Client
}

func New(llm llmclient.Client) *Processor { return &Processor{llm: llm} }

func (p *Processor) Order() domain.Order { return domain.OrderPromptGenerate }
func (p *Processor) NeedsStore() bool    { return false }
func (p *Processor) IsTerminal() bool    { return false }

func (p *Processor) Invoke(ctx context.Context, _ dbctx.Context, _ string, payload string, _ registry.StoreHandles) (string, error) {
	var parsed sceneParseResult
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return "", fmt.Errorf("parse scene-parse result: %w", err)
	}

	out := promptResult{Scenes: make([]scenePrompt, 0, len(parsed.Scenes))}
	for _, s := range parsed.Scenes {
		prompt, err := p.llm.GenerateText(ctx, "Write one vivid, concrete image-generation prompt. Return only the prompt.",
			fmt.Sprintf(systemPromptFmt, s.Mood, s.Story))
		if err != nil {
			return "", fmt.Errorf("generate prompt for scene %d: %w", s.SceneNumber, err)
		}
		out.Scenes = append(out.Scenes, scenePrompt{SceneNumber: s.SceneNumber, Prompt: prompt})
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
