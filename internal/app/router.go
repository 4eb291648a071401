package app

import (
	"github.com/gin-gonic/gin"

	httpserver "github.com/narraforge/pipeline/internal/http"
)

func wireRouter(handlers Handlers, otelEnabled bool) *gin.Engine {
	return httpserver.NewRouter(httpserver.RouterConfig{
		OtelEnabled:           otelEnabled,
		LaunchHandler:         handlers.Launch,
		PipelineStatusHandler: handlers.PipelineStatus,
		TaskStatusHandler:     handlers.TaskStatus,
		HealthHandler:         handlers.Health,
	})
}
