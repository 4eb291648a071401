package app

import (
	"fmt"

	"github.com/narraforge/pipeline/internal/pipeline/executor"
	"github.com/narraforge/pipeline/internal/pipeline/launcher"
	"github.com/narraforge/pipeline/internal/pipeline/notifier"
	"github.com/narraforge/pipeline/internal/pipeline/processors/emotion"
	"github.com/narraforge/pipeline/internal/pipeline/processors/imagegen"
	"github.com/narraforge/pipeline/internal/pipeline/processors/notify"
	"github.com/narraforge/pipeline/internal/pipeline/processors/promptgen"
	"github.com/narraforge/pipeline/internal/pipeline/processors/sceneparse"
	"github.com/narraforge/pipeline/internal/pipeline/processors/scenetranslate"
	"github.com/narraforge/pipeline/internal/pipeline/processors/story"
	"github.com/narraforge/pipeline/internal/pipeline/processors/translate"
	"github.com/narraforge/pipeline/internal/pipeline/registry"
	"github.com/narraforge/pipeline/internal/pipeline/worker"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

type Services struct {
	Launcher *launcher.Launcher
	Executor *executor.Executor
	Worker   *worker.Worker
	Notifier *notifier.Notifier
}

// wireServices builds the processor registry (every order bound exactly
// once), then the Executor, Worker, Launcher, and Notifier on top of it.
func wireServices(repos Repos, clients Clients, log *logger.Logger) (Services, error) {
	reg := registry.New()
	handles := registry.StoreHandles{Scenes: repos.Scenes}

	imageProc, err := imagegen.New(clients.Bucket, log)
	if err != nil {
		return Services{}, fmt.Errorf("init imagegen processor: %w", err)
	}

	n := notifier.New(repos.Scenes, log)

	procs := []registry.Processor{
		translate.New(clients.LLM),
		story.New(clients.LLM),
		sceneparse.New(clients.LLM),
		promptgen.New(clients.LLM),
		imageProc,
		notify.New(n),
		scenetranslate.New(clients.LLM, log),
		emotion.New(clients.LLM, log),
	}
	for _, p := range procs {
		if err := reg.Register(p); err != nil {
			return Services{}, fmt.Errorf("register processor: %w", err)
		}
	}

	exec := executor.New(repos.Tasks, reg, handles, log)
	l := launcher.New(repos.Tasks, log)
	w := worker.New(repos.Tasks, exec, log)

	return Services{Launcher: l, Executor: exec, Worker: w, Notifier: n}, nil
}
