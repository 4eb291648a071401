// Package story implements order 2: English source text expanded into a
// short illustrated-narrative story.
package story

import (
	"context"

	"github.com/narraforge/pipeline/internal/clients/llmclient"
	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

const systemPrompt = "Write a short, vivid children's story in English based on the given text. Return only the story."

type Processor struct {
	llm llmclient.Client
}

func New(llm llmclient.Client) *Processor { return &Processor{llm: llm} }

func (p *Processor) Order() domain.Order { return domain.OrderStoryGenerate }
func (p *Processor) NeedsStore() bool    { return false }
func (p *Processor) IsTerminal() bool    { return false }

func (p *Processor) Invoke(ctx context.Context, _ dbctx.Context, _ string, payload string, _ registry.StoreHandles) (string, error) {
	return p.llm.GenerateText(ctx, systemPrompt, payload)
}
