package main

import (
	"context"
	"net/http"

	"github.com/NitinReddy01/codejudge-cli/internal/bootstrap"
	"github.com/NitinReddy01/codejudge-cli/internal/gateway"
	"github.com/NitinReddy01/codejudge-cli/internal/logger"
	"github.com/NitinReddy01/codejudge-cli/internal/service"
	"github.com/NitinReddy01/codejudge-cli/internal/session"
	"github.com/NitinReddy01/codejudge-cli/internal/storage"
	"github.com/NitinReddy01/codejudge-cli/internal/transport"
)

// App owns every long-lived object of the client and wires them
// together. Commands reach the backend only through its services.
type App struct {
	Log         logger.Logger
	Store       *session.Store
	Gateway     *gateway.Gateway
	Refresher   *session.Refresher
	Auth        *service.AuthService
	Problems    *service.ProblemsService
	Submissions *service.SubmissionsService
	Bootstrap   *bootstrap.Bootstrap

	detach func()
}

func NewApp(cfg *Config) (*App, error) {
	log := logger.NewLogger(cfg.LogLevel)

	statePath, err := cfg.ResolveStateFile()
	if err != nil {
		return nil, err
	}
	st, err := storage.NewFileStorage(statePath)
	if err != nil {
		return nil, err
	}

	store := session.NewStore(st, log)

	jar, err := gateway.NewPersistentJar(st)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Jar:     jar,
	}, log)
	if err != nil {
		return nil, err
	}

	refresher := session.NewRefresher(store, gw.Refresh, log)

	// In a CLI the session-expired hook has no view to switch to; the
	// command that hit the expiry reports the 401 to the user
	authTransport := transport.NewAuthTransport(transport.AuthTransportConfig{
		Base: &transport.LoggingTransport{Base: http.DefaultTransport, Logger: log},
	}, store, refresher, log)

	client := &http.Client{Timeout: cfg.Timeout}
	detach := transport.Attach(client, authTransport)

	problems := service.NewProblems(client, cfg.BaseURL)

	app := &App{
		Log:         log,
		Store:       store,
		Gateway:     gw,
		Refresher:   refresher,
		Auth:        service.NewAuth(gw, store, nil, log),
		Problems:    problems,
		Submissions: service.NewSubmissions(client, cfg.BaseURL),
		Bootstrap:   bootstrap.New(store, refresher, problems, log),
		detach:      detach,
	}

	return app, nil
}

// Start restores the session before the first command runs: a silent
// refresh when a remembered user has no access token yet, then the
// language catalogue once authenticated.
func (a *App) Start(ctx context.Context) {
	a.Bootstrap.Run(ctx)
}

func (a *App) Close() {
	if a.detach != nil {
		a.detach()
	}
}
