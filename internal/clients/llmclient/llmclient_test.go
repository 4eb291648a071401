package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narraforge/pipeline/internal/platform/logger"
)

func newTestClient(t *testing.T, srv *httptest.Server) Client {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)
	log, err := logger.New("test")
	require.NoError(t, err)
	c, err := New(log)
	require.NoError(t, err)
	return c
}

func TestGenerateTextExtractsOutputText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{
				{
					"type": "message",
					"role": "assistant",
					"content": []map[string]any{
						{"type": "output_text", "text": "hello world"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	text, err := c.GenerateText(context.Background(), "sys", "user")
	require.NoError(t, err)
	require.Equal(t, "hello world", text)
}

func TestGenerateJSONParsesSchemaOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{
				{
					"type": "message",
					"role": "assistant",
					"content": []map[string]any{
						{"type": "output_text", "text": `{"scenes":[{"scene_number":1}]}`},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	obj, err := c.GenerateJSON(context.Background(), "sys", "user", "scenes", map[string]any{"type": "object"})
	require.NoError(t, err)
	scenes, ok := obj["scenes"].([]any)
	require.True(t, ok)
	require.Len(t, scenes, 1)
}

func TestGenerateJSONRequiresSchema(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	t.Setenv("OPENAI_API_KEY", "test-key")
	c, err := New(log)
	require.NoError(t, err)

	_, err = c.GenerateJSON(context.Background(), "sys", "user", "", nil)
	require.Error(t, err)
}

func TestStubEchoesDeterministically(t *testing.T) {
	s := NewStub()
	text, err := s.GenerateText(context.Background(), "sys", "ping")
	require.NoError(t, err)
	require.Equal(t, "[stub] ping", text)

	obj, err := s.GenerateJSON(context.Background(), "sys", "user", "scenes", map[string]any{})
	require.NoError(t, err)
	require.Contains(t, obj, "scenes")
}
