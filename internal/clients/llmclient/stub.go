package llmclient

import (
	"context"
	"fmt"

	"github.com/narraforge/pipeline/internal/platform/envutil"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

// stub is a deterministic offline Client used when OPENAI_API_KEY is
// unset. It lets the pipeline run without network access or
// credentials; it is never selected when a real key is configured.
type stub struct{}

// NewStub returns a Client that echoes its input deterministically
// instead of calling out to a real model.
func NewStub() Client {
	return stub{}
}

func (stub) GenerateText(_ context.Context, _, user string) (string, error) {
	return fmt.Sprintf("[stub] %s", user), nil
}

func (stub) GenerateJSON(_ context.Context, _, _, _ string, _ map[string]any) (map[string]any, error) {
	return map[string]any{"scenes": []any{}}, nil
}

// NewFromEnv returns a real Client when OPENAI_API_KEY is set, otherwise
// the deterministic stub.
func NewFromEnv(log *logger.Logger) (Client, error) {
	if envutil.String("OPENAI_API_KEY", "") == "" {
		log.Warn("OPENAI_API_KEY not set, using offline stub llm client")
		return NewStub(), nil
	}
	return New(log)
}
