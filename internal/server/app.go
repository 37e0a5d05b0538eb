// Package server wires configuration, storage, services and the HTTP server
// together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/wanderlust/internal/logging"
	"github.com/dmitrijs2005/wanderlust/internal/server/attempts"
	"github.com/dmitrijs2005/wanderlust/internal/server/config"
	"github.com/dmitrijs2005/wanderlust/internal/server/httpapi"
	"github.com/dmitrijs2005/wanderlust/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wanderlust/internal/server/services"
	"github.com/redis/go-redis/v9"
)

// attemptsTTL bounds how long an idle failure history is kept, in redis and
// in memory alike.
const attemptsTTL = 24 * time.Hour

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	repomanager repomanager.RepositoryManager
	server      *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(repomanager.DriverName, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	var rc *redis.Client
	tracker := NewTracker(c, func(addr string) *redis.Client {
		rc = redis.NewClient(&redis.Options{Addr: addr})
		return rc
	})

	us, err := services.NewUserService(db, rm, c, tracker)
	if err != nil {
		db.Close()
		return nil, err
	}
	ls := services.NewListingService(db, rm)
	is := services.NewImageService(c)

	srv, err := httpapi.NewServer(c.HTTPAddr, logger, us, ls, is, httpapi.Options{
		SecretKey:  c.SecretKey,
		AccessTTL:  c.AccessTokenValidityDuration,
		AdminToken: c.AdminToken,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: c, logger: logger, db: db, redis: rc, repomanager: rm, server: srv}, nil
}

// NewTracker picks the attempt tracker for c: redis when an address is
// configured, process memory otherwise. dial builds the redis client.
func NewTracker(c *config.Config, dial func(addr string) *redis.Client) attempts.Tracker {
	if c.RedisAddr != "" {
		return attempts.NewRedis(dial(c.RedisAddr), attemptsTTL)
	}
	return attempts.NewMemory(attemptsTTL)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run applies migrations and serves until a signal or a server failure.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close(ctx)

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	return nil
}

func (app *App) close(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "closing database", "error", err)
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "closing redis", "error", err)
		}
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
}
