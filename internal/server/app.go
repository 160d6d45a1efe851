// Package server wires the choirhub server together: database and
// migrations, object storage, services, the bootstrap admin, and the HTTP and
// gRPC health servers with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/choirhub/internal/logging"
	"github.com/dmitrijs2005/choirhub/internal/server/config"
	"github.com/dmitrijs2005/choirhub/internal/server/httpapi"
	"github.com/dmitrijs2005/choirhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/choirhub/internal/server/services"
	"github.com/dmitrijs2005/choirhub/internal/server/storage"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/choirhub/internal/server/grpc"
)

var (
	openDB         = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	accountService *services.AccountService
	router         *gin.Engine
}

// NewApp connects to the database, applies migrations, seeds the bootstrap
// admin and builds the HTTP router.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(c.LogLevel, c.LogFormat, os.Stdout)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store := storage.NewS3Store(storage.S3Options{
		Region:    c.S3Region,
		AccessKey: c.S3RootUser,
		SecretKey: c.S3RootPassword,
		Endpoint:  c.S3BaseEndpoint,
		Bucket:    c.S3Bucket,
		Expiry:    c.PresignExpiry,
	})

	as := services.NewAccountService(db, rm, c, logger)
	if _, err := as.EnsureAdmin(ctx, c); err != nil {
		_ = db.Close()
		return nil, err
	}

	h := httpapi.NewHandler(
		as,
		services.NewConcertService(db, rm),
		services.NewRehearsalService(db, rm),
		services.NewRecordingService(db, rm, store, logger),
		services.NewSheetMusicService(db, rm, store, logger),
		logger,
	)

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(h, logger, httpapi.RouterOptions{
		RateLimiter: httpapi.NewRateLimiter(c.RateLimitRequests, c.RateLimitWindow),
		CORSOrigins: c.CORSAllowedOrigins,
	})

	return &App{config: c, logger: logger, db: db, accountService: as, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives, ctx is cancelled or a server fails, then
// waits for both servers to stop and closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
