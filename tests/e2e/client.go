// Package e2e exercises the whole client stack against the fake
// backend: gateway, session store, refresh coalescing, intercepted
// transport, services and bootstrap wired together the way the
// application wires them.
package e2e

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NitinReddy01/codejudge-cli/internal/bootstrap"
	"github.com/NitinReddy01/codejudge-cli/internal/gateway"
	"github.com/NitinReddy01/codejudge-cli/internal/logger"
	"github.com/NitinReddy01/codejudge-cli/internal/service"
	"github.com/NitinReddy01/codejudge-cli/internal/session"
	"github.com/NitinReddy01/codejudge-cli/internal/storage"
	"github.com/NitinReddy01/codejudge-cli/internal/testutil"
	"github.com/NitinReddy01/codejudge-cli/internal/transport"
)

// Client is one "process": everything in-memory dies with it, while the
// shared storage plays the role of the durable state file.
type Client struct {
	Store       *session.Store
	Gateway     *gateway.Gateway
	Refresher   *session.Refresher
	Auth        *service.AuthService
	Problems    *service.ProblemsService
	Submissions *service.SubmissionsService
	Bootstrap   *bootstrap.Bootstrap

	// Routes records every navigation, including the forced move to
	// the login view after a session expiry
	Routes *[]string
}

func NewClient(t *testing.T, backend *testutil.Backend, st storage.Storage) *Client {
	t.Helper()

	log := logger.NewNoOpLogger()
	store := session.NewStore(st, log)

	jar, err := gateway.NewPersistentJar(st)
	require.NoError(t, err)

	gw, err := gateway.New(gateway.Config{BaseURL: backend.URL(), Jar: jar}, log)
	require.NoError(t, err)

	refresher := session.NewRefresher(store, gw.Refresh, log)

	routes := &[]string{}
	record := func(route string) { *routes = append(*routes, route) }

	authTransport := transport.NewAuthTransport(transport.AuthTransportConfig{
		OnSessionExpired: func() { record(service.RouteLogin) },
	}, store, refresher, log)

	client := &http.Client{}
	transport.Attach(client, authTransport)

	problems := service.NewProblems(client, backend.URL())

	return &Client{
		Store:       store,
		Gateway:     gw,
		Refresher:   refresher,
		Auth:        service.NewAuth(gw, store, service.NavigatorFunc(record), log),
		Problems:    problems,
		Submissions: service.NewSubmissions(client, backend.URL()),
		Bootstrap:   bootstrap.New(store, refresher, problems, log),
		Routes:      routes,
	}
}
