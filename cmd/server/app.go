package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/metanav/internal/config"
	"github.com/phrazzld/metanav/internal/events"
	"github.com/phrazzld/metanav/internal/flow"
	"github.com/phrazzld/metanav/internal/keyword"
	"github.com/phrazzld/metanav/internal/platform/postgres"
	"github.com/phrazzld/metanav/internal/service"
	"github.com/phrazzld/metanav/internal/subtask"
	"github.com/phrazzld/metanav/internal/task"
)

// application holds the wired dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	sessionService service.SessionService
	mapService     service.CognitiveMapService
	cardService    service.CardService
	extractor      *keyword.Extractor

	taskRunner *task.Runner
}

// newApplication builds stores, the flow engine, the keyword-indexing
// pipeline and the services, and starts the task runner.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		extractor: keyword.New(
			keyword.DefaultVocabulary(),
			keyword.WithDefaultLimits(cfg.Keywords.MaxKeywords, cfg.Keywords.MaxPhrases),
		),
	}

	sessionStore := postgres.NewPostgresSessionStore(db, logger)
	mapStore := postgres.NewPostgresCognitiveMapStore(db, logger)
	cardStore := postgres.NewPostgresKnowledgeCardStore(db, logger)

	generator := subtask.NewGenerator()
	engine, err := flow.NewEngine(sessionStore, flow.NewMachine(), generator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flow engine: %w", err)
	}

	indexFactory, err := task.NewKeywordIndexFactory(cardStore, app.extractor, cfg.Keywords.MaxKeywords, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyword index factory: %w", err)
	}
	registry := task.NewRegistry()
	indexFactory.Register(registry)

	app.taskRunner, err = setupTaskRunner(ctx, cfg, postgres.NewPostgresTaskStore(db, registry, logger), logger)
	if err != nil {
		return nil, err
	}

	emitter := events.NewInMemoryEmitter(logger)
	emitter.Subscribe(task.NewIndexEventHandler(indexFactory, app.taskRunner, logger), events.TypeCardIndexRequested)

	if app.sessionService, err = service.NewSessionService(sessionStore, engine, generator, logger); err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}
	if app.mapService, err = service.NewCognitiveMapService(db, mapStore, sessionStore, engine, logger); err != nil {
		return nil, fmt.Errorf("failed to create cognitive map service: %w", err)
	}
	if app.cardService, err = service.NewCardService(cardStore, emitter, logger); err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// setupTaskRunner creates the background runner and starts it, recovering
// tasks left over from a previous run.
func setupTaskRunner(ctx context.Context, cfg *config.Config, store task.Store, logger *slog.Logger) (*task.Runner, error) {
	runnerCfg := task.DefaultRunnerConfig()
	runnerCfg.WorkerCount = cfg.Task.WorkerCount
	runnerCfg.QueueSize = cfg.Task.QueueSize
	runnerCfg.StuckTaskAge = time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute

	runner := task.NewRunner(store, runnerCfg, logger)
	runner.SetErrorHandler(func(t task.Task, err error) {
		logger.Warn("background task failed",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
	})

	if err := runner.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}
	return runner, nil
}

// Run serves HTTP until ctx is cancelled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background work before closing the pool it writes to.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
