package app

import (
	"github.com/narraforge/pipeline/internal/platform/envutil"
)

// Config holds the process-level settings the app wiring reads once at
// startup: the HTTP port and the tracing settings. WorkerConcurrency and
// ClaimBlockInterval are loaded but not passed on: the worker pool reads
// WORKER_CONCURRENCY itself, and workers block on the queue without a
// timeout. Clients, stores, and the Notifier read their own environment
// variables when they are constructed.
type Config struct {
	Port               string
	OtelEnabled        bool
	OtelServiceName    string
	OtelEnvironment    string
	WorkerConcurrency  int
	ClaimBlockInterval int
}

func LoadConfig() Config {
	return Config{
		Port:               envutil.String("PORT", "8080"),
		OtelEnabled:        envutil.Bool("OTEL_ENABLED", false),
		OtelServiceName:    envutil.String("OTEL_SERVICE_NAME", "narraforge-pipeline"),
		OtelEnvironment:    envutil.String("ENVIRONMENT", "development"),
		WorkerConcurrency:  envutil.Int("WORKER_CONCURRENCY", 4),
		ClaimBlockInterval: envutil.Int("CLAIM_BLOCK_SECONDS", 5),
	}
}
