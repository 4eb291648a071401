package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/narraforge/pipeline/internal/data/repos/tasks"
)

type TaskStatusHandler struct {
	tasks tasks.TaskRepo
}

func NewTaskStatusHandler(t tasks.TaskRepo) *TaskStatusHandler {
	return &TaskStatusHandler{tasks: t}
}

type taskStatusResponse struct {
	StepID     string `json:"stepId"`
	PipelineID string `json:"pipelineId,omitempty"`
	Order      int    `json:"order,omitempty"`
	Status     string `json:"status,omitempty"`
	Result     string `json:"result,omitempty"`
	Found      bool   `json:"found"`
}

// GET /tasks/:stepId is a thin operational view over the Task Store's
// read path, used for diagnostics rather than correctness.
func (h *TaskStatusHandler) GetTask(c *gin.Context) {
	stepID := c.Param("stepId")
	claimed, err := h.tasks.Read(c.Request.Context(), stepID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "read_failed", err)
		return
	}

	RespondOK(c, taskStatusResponse{
		StepID:     stepID,
		PipelineID: claimed.PipelineID,
		Order:      int(claimed.Order),
		Status:     string(claimed.Status),
		Result:     claimed.Result,
		Found:      claimed.HasRequiredFields(),
	})
}
