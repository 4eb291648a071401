package app

import (
	"fmt"

	"github.com/narraforge/pipeline/internal/clients/llmclient"
	"github.com/narraforge/pipeline/internal/clients/objectstore"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

type Clients struct {
	LLM    llmclient.Client
	Bucket objectstore.BucketService
}

func wireClients(log *logger.Logger) (Clients, error) {
	llm, err := llmclient.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm client: %w", err)
	}
	bucket, err := objectstore.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket service: %w", err)
	}
	return Clients{LLM: llm, Bucket: bucket}, nil
}
