package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/narraforge/pipeline/internal/data/db"
	"github.com/narraforge/pipeline/internal/platform/logger"
	"github.com/narraforge/pipeline/internal/platform/tracing"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Redis    *goredis.Client
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	shutdownTracing func(context.Context) error
	cancel          context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()

	shutdownTracing := tracing.Init(context.Background(), log, tracing.Config{
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.OtelEnvironment,
	})

	rdb, err := db.NewRedisClient(context.Background(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	gdb := pg.DB()
	if err := db.AutoMigrateAll(gdb); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}

	repos := wireRepos(rdb, gdb, log)

	clients, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init clients: %w", err)
	}

	services, err := wireServices(repos, clients, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init services: %w", err)
	}

	handlerset := wireHandlers(repos, services, rdb, gdb)
	router := wireRouter(handlerset, cfg.OtelEnabled)

	return &App{
		Log:             log,
		DB:              gdb,
		Redis:           rdb,
		Router:          router,
		Cfg:             cfg,
		Repos:           repos,
		Clients:         clients,
		Services:        services,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Start launches background components: the worker pool, when runWorker
// is set. The HTTP server itself is started separately via Run, so a
// container can run either role, or both.
func (a *App) Start(runWorker bool) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if runWorker {
		a.Services.Worker.Start(ctx)
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.shutdownTracing != nil {
		_ = a.shutdownTracing(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
