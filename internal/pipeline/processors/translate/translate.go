// Package translate implements order 1: Korean source text translated
// to English, handed off as the story-generation step's input.
package translate

import (
	"context"

	"github.com/narraforge/pipeline/internal/clients/llmclient"
	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

const systemPrompt = "Translate the given Korean text into natural English. Return only the translation."

type Processor struct {
	llm llmclient.Client
}

func New(llm llmclient.Client) *Processor { return &Processor{llm: llm} }

func (p *Processor) Order() domain.Order { return domain.OrderTranslateKoEn }
func (p *Processor) NeedsStore() bool    { return false }
func (p *Processor) IsTerminal() bool    { return false }

func (p *Processor) Invoke(ctx context.Context, _ dbctx.Context, _ string, payload string, _ registry.StoreHandles) (string, error) {
	return p.llm.GenerateText(ctx, systemPrompt, payload)
}
