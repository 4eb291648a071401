// Package notify implements order 6: the spine's terminal step, handing
// off the assembled pipeline result to the Terminal Notifier. It needs
// the Scene Store, but for reading rather than writing, so it holds its
// own Notifier (which wraps the read side directly) instead of going
// through registry.StoreHandles, which only exposes the write accessors
// the branch processors use.
package notify

import (
	"context"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/pipeline/notifier"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

type Processor struct {
	notifier *notifier.Notifier
}

func New(n *notifier.Notifier) *Processor { return &Processor{notifier: n} }

func (p *Processor) Order() domain.Order { return domain.OrderNotify }
func (p *Processor) NeedsStore() bool    { return true }
func (p *Processor) IsTerminal() bool    { return true }

// Invoke never returns an error: the Notifier already reduces every
// failure mode to the "failed" result string, which is recorded as this
// task's terminal result rather than retried.
func (p *Processor) Invoke(ctx context.Context, _ dbctx.Context, pipelineID, _ string, _ registry.StoreHandles) (string, error) {
	return p.notifier.Notify(ctx, pipelineID), nil
}
