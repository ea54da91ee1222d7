package app

import (
	"context"
	"fmt"

	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/db"
	"github.com/driftml/sweep-runner/internal/db/models"
	"github.com/driftml/sweep-runner/internal/db/repository"
	"github.com/driftml/sweep-runner/internal/services/objectstore"
	"github.com/driftml/sweep-runner/internal/services/uploader"
	"github.com/driftml/sweep-runner/internal/tracking"
	"github.com/driftml/sweep-runner/internal/training"
	"github.com/driftml/sweep-runner/pkg/logger"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type App struct {
	db         *bun.DB
	config     *config.Config
	ctx        context.Context
	cancelFunc context.CancelFunc
	store      objectstore.ObjectStore
	uploader   *uploader.Uploader
	tracking   *tracking.Client
	trainer    *training.Client

	Logger *zap.Logger

	SubmissionRepository repository.ISubmissionRepository
}

// Option funcs used to initialize the App struct
type OptionFunc func(app *App) error

func WithLogger(logger *zap.Logger) OptionFunc {
	return func(app *App) error {
		app.Logger = logger
		return nil
	}
}

func WithDBInitialization() OptionFunc {
	return func(app *App) error {
		dbConn, err := db.NewConnection(app.ctx, app.config)
		if err != nil {
			return err
		}
		app.db = dbConn.GetDB()

		// Ensure tables exist
		err = app.db.RunInTx(app.ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			tables := []interface{}{
				(*models.Submission)(nil),
				(*models.Experiment)(nil),
				(*models.Trial)(nil),
				(*models.TrialComponent)(nil),
			}

			for _, table := range tables {
				if _, err := tx.NewCreateTable().
					Model(table).
					IfNotExists().
					Exec(ctx); err != nil {
					return fmt.Errorf("failed to create table: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		app.SubmissionRepository = repository.NewSubmissionRepository(app.db)
		return nil
	}
}

func WithObjectStore() OptionFunc {
	return func(app *App) error {
		store, err := objectstore.NewObjectStore(app.config)
		if err != nil {
			return err
		}
		app.store = store
		app.uploader = uploader.NewUploader(store, 4)
		return nil
	}
}

func WithTracking() OptionFunc {
	return func(app *App) error {
		client, err := tracking.NewClient(app.config.Tracking, app.Logger)
		if err != nil {
			return err
		}
		app.tracking = client
		return nil
	}
}

func WithTrainer() OptionFunc {
	return func(app *App) error {
		client, err := training.NewClient(app.config.Training, app.Logger)
		if err != nil {
			return err
		}
		app.trainer = client
		return nil
	}
}

func NewApp(config *config.Config, options ...OptionFunc) (*App, error) {
	logger, err := logger.InitLogger(config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		ctx:        ctx,
		config:     config,
		Logger:     logger,
		cancelFunc: cancel,
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			cancel()
			return nil, err
		}
	}

	return app, nil
}

func (app *App) Close() {
	app.cancelFunc()

	if app.uploader != nil {
		app.uploader.Stop()
	}
	if app.Logger != nil {
		app.Logger.Sync()
	}
}

func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) Context() context.Context {
	return app.ctx
}

func (app *App) DB() *bun.DB {
	return app.db
}

func (app *App) ObjectStore() objectstore.ObjectStore {
	return app.store
}

func (app *App) Uploader() *uploader.Uploader {
	return app.uploader
}

func (app *App) Tracking() *tracking.Client {
	return app.tracking
}

func (app *App) Trainer() *training.Client {
	return app.trainer
}
