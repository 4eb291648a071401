package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narraforge/pipeline/internal/pipeline/launcher"
)

type LaunchHandler struct {
	launcher *launcher.Launcher
}

func NewLaunchHandler(l *launcher.Launcher) *LaunchHandler {
	return &LaunchHandler{launcher: l}
}

type launchRequest struct {
	PipelineID string `json:"pipelineId" binding:"required"`
	OCRResult  string `json:"ocrResult"`
}

type launchResponse struct {
	Message string `json:"message"`
	StepID  string `json:"stepId"`
}

// POST /enque
func (h *LaunchHandler) Enque(c *gin.Context) {
	var req launchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	stepID, err := h.launcher.Launch(c.Request.Context(), req.PipelineID, req.OCRResult)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "launch_failed", err)
		return
	}

	c.JSON(http.StatusOK, launchResponse{Message: "pipeline enqueued", StepID: stepID})
}
