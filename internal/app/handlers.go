package app

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/narraforge/pipeline/internal/http/handlers"
)

type Handlers struct {
	Launch         *handlers.LaunchHandler
	PipelineStatus *handlers.PipelineStatusHandler
	TaskStatus     *handlers.TaskStatusHandler
	Health         *handlers.HealthHandler
}

func wireHandlers(repos Repos, services Services, rdb *goredis.Client, gdb *gorm.DB) Handlers {
	return Handlers{
		Launch:         handlers.NewLaunchHandler(services.Launcher),
		PipelineStatus: handlers.NewPipelineStatusHandler(repos.Scenes),
		TaskStatus:     handlers.NewTaskStatusHandler(repos.Tasks),
		Health:         handlers.NewHealthHandler(rdb, gdb),
	}
}
