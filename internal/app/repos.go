package app

import (
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/narraforge/pipeline/internal/data/repos/scenes"
	"github.com/narraforge/pipeline/internal/data/repos/tasks"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

type Repos struct {
	Tasks  tasks.TaskRepo
	Scenes scenes.SceneResultRepo
}

func wireRepos(rdb *goredis.Client, gdb *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Tasks:  tasks.NewTaskRepo(rdb, log),
		Scenes: scenes.NewSceneResultRepo(gdb, log),
	}
}
