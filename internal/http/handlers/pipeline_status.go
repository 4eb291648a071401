package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narraforge/pipeline/internal/data/repos/scenes"
	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
)

type PipelineStatusHandler struct {
	scenes scenes.SceneResultRepo
}

func NewPipelineStatusHandler(s scenes.SceneResultRepo) *PipelineStatusHandler {
	return &PipelineStatusHandler{scenes: s}
}

// GET /pipelines/:pipelineId returns the same page-list shape the
// Notifier assembles, so an operator can poll progress without waiting
// on the downstream POST.
func (h *PipelineStatusHandler) GetPipeline(c *gin.Context) {
	pipelineID := c.Param("pipelineId")
	pages, err := h.scenes.Assemble(dbctx.New(c.Request.Context()), pipelineID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "assemble_failed", err)
		return
	}
	RespondOK(c, domain.NotifyDocument{
		PipelineID: pipelineID,
		Status:     "in_progress",
		PageList:   pages,
	})
}
