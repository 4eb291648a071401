package scenetranslate

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/platform/logger"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
)

type fakeLLM struct {
	failOn map[string]bool
}

func (f fakeLLM) GenerateText(_ context.Context, _, user string) (string, error) {
	if f.failOn[user] {
		return "", errBoom{}
	}
	return "ko:" + user, nil
}

func (f fakeLLM) GenerateJSON(context.Context, string, string, string, map[string]any) (map[string]any, error) {
	return nil, nil
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeScenes struct {
	mu      sync.Mutex
	stories map[int]string
	failPut map[int]bool
}

func newFakeScenes() *fakeScenes {
	return &fakeScenes{stories: map[int]string{}}
}

func (f *fakeScenes) PutMood(dbctx.Context, string, int, string) error { return nil }

func (f *fakeScenes) PutStory(_ dbctx.Context, _ string, sceneNumber int, story string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut[sceneNumber] {
		return errBoom{}
	}
	f.stories[sceneNumber] = story
	return nil
}

func (f *fakeScenes) PutImageURL(dbctx.Context, string, int, string) error { return nil }

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return log
}

func TestInvokeTranslatesAndPersistsEachScene(t *testing.T) {
	scenes := newFakeScenes()
	p := New(fakeLLM{}, newTestLogger(t))
	payload := `[{"scene_number":1,"story":"hello"},{"scene_number":2,"story":"world"}]`

	result, err := p.Invoke(context.Background(), dbctx.New(context.Background()), "p1", payload,
		registry.StoreHandles{Scenes: scenes})
	require.NoError(t, err)
	require.Equal(t, "success", result)
	require.Equal(t, "ko:hello", scenes.stories[1])
	require.Equal(t, "ko:world", scenes.stories[2])
}

func TestInvokeContinuesPastPerSceneLLMFailure(t *testing.T) {
	scenes := newFakeScenes()
	p := New(fakeLLM{failOn: map[string]bool{"bad": true}}, newTestLogger(t))
	payload := `[{"scene_number":1,"story":"bad"},{"scene_number":2,"story":"good"}]`

	_, err := p.Invoke(context.Background(), dbctx.New(context.Background()), "p1", payload,
		registry.StoreHandles{Scenes: scenes})
	require.Error(t, err)
	_, stillMissing := scenes.stories[1]
	require.False(t, stillMissing)
	require.Equal(t, "ko:good", scenes.stories[2])
}

func TestInvokeContinuesPastPerSceneStoreFailure(t *testing.T) {
	scenes := newFakeScenes()
	scenes.failPut = map[int]bool{1: true}
	p := New(fakeLLM{}, newTestLogger(t))
	payload := `[{"scene_number":1,"story":"a"},{"scene_number":2,"story":"b"}]`

	_, err := p.Invoke(context.Background(), dbctx.New(context.Background()), "p1", payload,
		registry.StoreHandles{Scenes: scenes})
	require.Error(t, err)
	require.Equal(t, "ko:b", scenes.stories[2])
}

func TestInvokeRejectsMalformedPayload(t *testing.T) {
	scenes := newFakeScenes()
	p := New(fakeLLM{}, newTestLogger(t))
	_, err := p.Invoke(context.Background(), dbctx.New(context.Background()), "p1", "not json",
		registry.StoreHandles{Scenes: scenes})
	require.Error(t, err)
}
