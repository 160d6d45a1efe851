package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/choirhub/internal/client/client"
	"github.com/dmitrijs2005/choirhub/internal/client/config"
	"github.com/dmitrijs2005/choirhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/choirhub/internal/client/services"
	"github.com/dmitrijs2005/choirhub/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = "unknown"
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config           *config.Config
	db               *sql.DB
	authService      services.AuthService
	memberService    services.MemberService
	recordingService services.RecordingService
	log              logging.Logger

	reader *bufio.Reader
	out    io.Writer

	mu      sync.RWMutex
	mode    Mode
	session *metadata.Session
}

// NewApp opens the local state, builds the API client and wires the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New("info", "text", os.Stderr)

	db, err := client.OpenState(ctx, c.StateDir)
	if err != nil {
		log.Error(ctx, "error initializing local state", "error", err)
		return nil, err
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.HTTPTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:           c,
		db:               db,
		authService:      services.NewAuthService(apiClient, db),
		memberService:    services.NewMemberService(apiClient),
		recordingService: services.NewRecordingService(apiClient),
		log:              log,
		reader:           bufio.NewReader(os.Stdin),
		out:              os.Stdout,
		mode:             ModeUnknown,
	}, nil
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) getMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setSession(s *metadata.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session != nil
}

// status is shown in the prompt: the logged-in user and connectivity.
func (a *App) status() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return string(a.mode)
	}
	return a.session.Username + "@" + string(a.mode)
}

// Run restores a saved session, starts the connectivity watcher and runs the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.restore(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to choirhub (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) restore(ctx context.Context) {
	s, err := a.authService.Restore(ctx)
	if err != nil {
		printlnFn(describe(err))
		return
	}
	a.setSession(s)
}

func (a *App) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the health endpoint every interval until
// ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.probe(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}
