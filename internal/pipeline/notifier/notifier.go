// Package notifier implements the Terminal Notifier: on invocation for a
// pipeline, it assembles the persisted scene rows into a result document
// and POSTs it to the downstream service.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/platform/envutil"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

// SceneReader is the subset of the Scene Store the Notifier depends on.
type SceneReader interface {
	Assemble(dbc dbctx.Context, pipelineID string) ([]domain.PageEntry, error)
}

type Notifier struct {
	scenes     SceneReader
	httpClient *http.Client
	baseURL    string
	endpoint   string
	token      string
	log        *logger.Logger
}

func New(scenes SceneReader, log *logger.Logger) *Notifier {
	return &Notifier{
		scenes:     scenes,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    envutil.String("BASE_URL", ""),
		endpoint:   envutil.String("NOTIFY_ENDPOINT", ""),
		token:      envutil.String("SERVICE_TOKEN", ""),
		log:        log.With("component", "Notifier"),
	}
}

// Notify reads every SceneResult row for pipelineID, composes the result
// document, and POSTs it downstream. It returns "success" or "failed" —
// a terminal string recorded as this task's result, never retried.
func (n *Notifier) Notify(ctx context.Context, pipelineID string) string {
	pages, err := n.scenes.Assemble(dbctx.New(ctx), pipelineID)
	if err != nil {
		n.log.Warn("assemble scene rows failed", "pipeline_id", pipelineID, "error", err)
		return "failed"
	}

	doc := domain.NotifyDocument{
		PipelineID: pipelineID,
		Status:     "completed",
		PageList:   pages,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		n.log.Warn("marshal notify document failed", "error", err)
		return "failed"
	}

	url := n.baseURL + n.endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.log.Warn("build notify request failed", "error", err)
		return "failed"
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.log.Warn("notify POST failed", "url", url, "error", err)
		return "failed"
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.log.Warn("notify POST returned non-2xx", "status", resp.StatusCode)
		return "failed"
	}
	return "success"
}
