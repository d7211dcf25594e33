// Package server assembles and runs the application: store, migrations,
// services, the verification dispatcher and the HTTP API. It owns the
// lifecycle of all of them, including graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/todopoc/internal/logging"
	"github.com/dmitrijs2005/todopoc/internal/server/config"
	"github.com/dmitrijs2005/todopoc/internal/server/httpapi"
	"github.com/dmitrijs2005/todopoc/internal/server/notify"
	"github.com/dmitrijs2005/todopoc/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todopoc/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	dispatcher *notify.Dispatcher
	httpServer *httpapi.HTTPServer
}

// NewApp opens the store, applies migrations and wires the components.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.NewLogger(os.Stdout, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, err
	}

	rm, err := repomanager.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	notifier, err := newNotifier(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dispatcher := notify.NewDispatcher(notifier, logger, c.NotifyQueueSize, c.NotifyAttempts, c.NotifyRetryDelay)

	vs := services.NewVerificationService(db, rm, dispatcher, logger, c.VerificationExpiry)
	cs := services.NewContactService(db, rm, logger)
	ts := services.NewTaskService(db, rm, logger)

	hs, err := httpapi.NewHTTPServer(c.EndpointAddrHTTP, c.ShutdownTimeout, logger, cs, vs, ts, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, dispatcher: dispatcher, httpServer: hs}, nil
}

func newNotifier(ctx context.Context, c *config.Config, l logging.Logger) (notify.Notifier, error) {
	switch c.Notifier {
	case config.NotifierEmailJS:
		return notify.NewEmailJS(notify.EmailJSConfig{
			Endpoint:   c.EmailJSEndpoint,
			ServiceID:  c.EmailJSServiceID,
			TemplateID: c.EmailJSTemplateID,
			PublicKey:  c.EmailJSPublicKey,
			PrivateKey: c.EmailJSPrivateKey,
		}, nil), nil
	case config.NotifierS3:
		return notify.NewS3Outbox(ctx, notify.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
	case config.NotifierLog, "":
		return notify.NewLogNotifier(l), nil
	default:
		return nil, fmt.Errorf("unknown notifier %q", c.Notifier)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a component fails.
// The store is closed once everything has stopped.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver, "notifier", app.config.Notifier)

	app.initSignalHandler(cancelFunc)

	err := supervise(ctx, app.httpServer, app.dispatcher)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close", "error", cerr.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return err
}

type runner interface {
	Run(ctx context.Context) error
}

// supervise runs front and back together. back keeps running until front
// has returned, so work accepted by front during its shutdown still reaches
// back before back stops.
func supervise(ctx context.Context, front, back runner) error {
	g, gctx := errgroup.WithContext(ctx)
	backCtx, stopBack := context.WithCancel(context.WithoutCancel(ctx))
	defer stopBack()

	g.Go(func() error {
		defer stopBack()
		return front.Run(gctx)
	})
	g.Go(func() error {
		return back.Run(backCtx)
	})

	return g.Wait()
}
