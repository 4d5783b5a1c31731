package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/talentdesk/internal/client/api"
	"github.com/dmitrijs2005/talentdesk/internal/client/config"
	"github.com/dmitrijs2005/talentdesk/internal/client/demo"
	"github.com/dmitrijs2005/talentdesk/internal/client/live"
	"github.com/dmitrijs2005/talentdesk/internal/client/portal"
	"github.com/dmitrijs2005/talentdesk/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/talentdesk/internal/client/services"
	"github.com/dmitrijs2005/talentdesk/internal/client/session"
	"github.com/dmitrijs2005/talentdesk/internal/client/store"
	"github.com/dmitrijs2005/talentdesk/internal/common"
	"github.com/dmitrijs2005/talentdesk/internal/logging"
)

// App is the interactive portal client: it owns the session, the candidate
// cache, the live channel, and the REPL that drives them.
type App struct {
	config     *config.Config
	log        logging.Logger
	session    *session.Store
	cache      *store.CandidateStore
	candidates services.CandidateService
	actions    services.ActionService
	channel    *live.Channel

	reader *bufio.Reader
	out    io.Writer
	db     *sql.DB
	events chan live.Event
}

// NewApp wires the application from configuration. In demo mode everything
// runs against built-in data: no backend, no cache database, no live
// channel.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	a := &App{
		config: cfg,
		log:    log,
		cache:  store.NewCandidateStore(),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		events: make(chan live.Event, 32),
	}

	var (
		gateway api.Gateway
		creds   credentials.Repository
	)

	if cfg.DemoMode {
		gateway = demo.New()
	} else {
		db, err := portal.InitDatabase(ctx, cfg.CacheDSN)
		if err != nil {
			return nil, fmt.Errorf("initializing cache database: %w", err)
		}
		a.db = db
		creds = credentials.NewSQLiteRepository(db)

		gateway = api.NewHTTPGateway(cfg.APIBaseURL,
			api.TokenFunc(func() string { return a.session.Token() }), nil, log)
	}

	a.session = session.New(gateway, creds, log)
	a.candidates = services.NewCandidateService(gateway, a.cache, log)
	a.actions = services.NewActionService(gateway, a.cache, log)

	if !cfg.DemoMode {
		a.channel = live.NewChannel(live.Options{
			URL:        strings.TrimRight(cfg.APIBaseURL, "/") + "/sse/events",
			Tokens:     a.session,
			Logger:     log,
			Base:       cfg.LiveReconnectInterval,
			MaxRetries: uint64(cfg.LiveMaxRetries),
			OnEvent:    a.enqueueEvent,
			OnState: func(s live.ConnState) {
				if s == live.StateDisconnected {
					fmt.Fprintln(a.out, "Live updates disconnected; use 'reconnect' to resubscribe.")
				}
			},
		})
	}

	return a, nil
}

// enqueueEvent hands a live event to the background applier without ever
// blocking the channel's read loop. A full queue drops the event; the next
// full refresh catches up.
func (a *App) enqueueEvent(ev live.Event) {
	select {
	case a.events <- ev:
	default:
		a.log.Warn(context.Background(), "live event queue full, dropping event", "event", ev.Type)
	}
}

// Run restores the session, starts the background workers, and hands control
// to the REPL. It returns when the user exits or the context ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.session.OnExpired = a.sessionExpired

	if err := a.session.Init(ctx); err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			fmt.Fprintln(a.out, "Backend unreachable, stored session not validated yet.")
		}
	}

	go a.applyEvents(ctx)
	go a.session.StartExpiryWatcher(ctx, a.config.ExpiryCheckInterval)

	if a.session.Status() == session.StatusAuthenticated {
		a.afterAuth(ctx)
	}

	a.Root(ctx)
}

// applyEvents drains the live event queue into the candidate cache.
func (a *App) applyEvents(ctx context.Context) {
	for {
		select {
		case ev := <-a.events:
			a.candidates.ApplyEvent(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

// sessionExpired runs when the expiry watcher ends the session. The live
// subscription is torn down with it: its token is no longer valid, and an
// unauthenticated session must hold no open stream. Stop blocks until the
// connection loop exits, so it runs off the watcher's goroutine.
func (a *App) sessionExpired() {
	fmt.Fprintln(a.out, "\nYour session has expired. Please log in again.")
	if a.channel != nil {
		go a.channel.Stop()
	}
}

// afterAuth runs once a session becomes authenticated: load the board and
// open the live subscription.
func (a *App) afterAuth(ctx context.Context) {
	if err := a.candidates.Refresh(ctx); err != nil {
		a.printErr(err)
	}
	if a.channel != nil {
		a.channel.Start(ctx)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Status() == session.StatusAuthenticated
}

// connectivity is the short status shown in the prompt.
func (a *App) connectivity() string {
	if a.config.DemoMode {
		return "demo"
	}
	if a.channel == nil {
		return ""
	}
	return string(a.channel.State())
}

func (a *App) printErr(err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		fmt.Fprintln(a.out, "Invalid input:", trimErr(err, common.ErrValidation))
	case errors.Is(err, common.ErrActionNotLegal):
		fmt.Fprintln(a.out, "Not available:", trimErr(err, common.ErrActionNotLegal))
	case errors.Is(err, common.ErrActionInFlight):
		fmt.Fprintln(a.out, "Please wait:", trimErr(err, common.ErrActionInFlight))
	case errors.Is(err, common.ErrUnavailable):
		fmt.Fprintln(a.out, "Backend unreachable. Check your connection and try again.")
	case errors.Is(err, common.ErrNotFound):
		fmt.Fprintln(a.out, "Not found:", trimErr(err, common.ErrNotFound))
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			fmt.Fprintln(a.out, "Request failed:", apiErr.Message)
			return
		}
		fmt.Fprintln(a.out, "Error:", err)
	}
}

// trimErr strips the sentinel prefix fmt.Errorf("%w: ...") produces, leaving
// the human part of the message.
func trimErr(err error, sentinel error) string {
	msg := err.Error()
	if cut, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return cut
	}
	return msg
}

// Close releases the live subscription and the cache database.
func (a *App) Close() {
	if a.channel != nil {
		a.channel.Stop()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
