package httpserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/narraforge/pipeline/internal/http/handlers"
)

type RouterConfig struct {
	OtelEnabled bool

	LaunchHandler         *handlers.LaunchHandler
	PipelineStatusHandler *handlers.PipelineStatusHandler
	TaskStatusHandler     *handlers.TaskStatusHandler
	HealthHandler         *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.OtelEnabled {
		router.Use(otelgin.Middleware("narraforge-pipeline"))
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	router.GET("/healthz", cfg.HealthHandler.Healthz)
	router.POST("/enque", cfg.LaunchHandler.Enque)
	router.GET("/pipelines/:pipelineId", cfg.PipelineStatusHandler.GetPipeline)
	router.GET("/tasks/:stepId", cfg.TaskStatusHandler.GetTask)

	return router
}
