package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/platform/logger"
	"github.com/narraforge/pipeline/internal/pipeline/notifier"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

type fakeScenes struct{}

func (f fakeScenes) Assemble(dbctx.Context, string) ([]domain.PageEntry, error) {
	return nil, nil
}

func TestInvokeDelegatesToNotifierAndNeverErrors(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)

	p := New(notifier.New(fakeScenes{}, log))
	result, err := p.Invoke(context.Background(), dbctx.New(context.Background()), "p1", "", registry.StoreHandles{})
	require.NoError(t, err)
	require.Equal(t, "failed", result) // no BASE_URL/NOTIFY_ENDPOINT configured in test env
}

func TestOrderAndTerminalFlags(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	p := New(notifier.New(fakeScenes{}, log))

	require.Equal(t, domain.OrderNotify, p.Order())
	require.True(t, p.NeedsStore())
	require.True(t, p.IsTerminal())
}
