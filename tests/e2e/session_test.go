package e2e

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NitinReddy01/codejudge-cli/internal/apperrors"
	"github.com/NitinReddy01/codejudge-cli/internal/service"
	"github.com/NitinReddy01/codejudge-cli/internal/storage"
	"github.com/NitinReddy01/codejudge-cli/internal/testutil"
)

func TestSession_LoginAndBrowse(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewBackend(t)
	backend.SeedUser("Alice", "alice@example.com", "correct-horse")
	client := NewClient(t, backend, storage.NewMemoryStorage())

	require.NoError(t, client.Auth.Login(ctx, "alice@example.com", "correct-horse"))

	problems, err := client.Problems.List(ctx, service.ProblemFilters{})
	require.NoError(t, err)
	assert.Len(t, problems, 2)
	assert.Zero(t, backend.RefreshCalls(), "a live token needs no refresh")
}

func TestSession_ExpiredTokenRecovery(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewBackend(t)
	user := backend.SeedUser("Alice", "alice@example.com", "correct-horse")
	client := NewClient(t, backend, storage.NewMemoryStorage())

	require.NoError(t, client.Auth.Login(ctx, "alice@example.com", "correct-horse"))
	client.Store.SetAccessToken(backend.MintAccessToken(user.ID, -time.Minute))

	problems, err := client.Problems.List(ctx, service.ProblemFilters{})

	require.NoError(t, err)
	assert.Len(t, problems, 2)
	assert.EqualValues(t, 1, backend.RefreshCalls())
	assert.True(t, client.Store.State().IsAuthenticated)
}

// Refresh tokens rotate server-side, so anything other than exactly one
// refresh call would make some of the concurrent requests fail.
func TestSession_ConcurrentExpiryCoalesces(t *testing.T) {
	const workers = 8

	ctx := context.Background()
	backend := testutil.NewBackend(t)
	user := backend.SeedUser("Alice", "alice@example.com", "correct-horse")
	client := NewClient(t, backend, storage.NewMemoryStorage())

	require.NoError(t, client.Auth.Login(ctx, "alice@example.com", "correct-horse"))
	client.Store.SetAccessToken(backend.MintAccessToken(user.ID, -time.Minute))
	backend.SetRefreshDelay(100 * time.Millisecond)

	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = client.Problems.List(ctx, service.ProblemFilters{})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d should succeed on the shared refresh", i)
	}
	assert.EqualValues(t, 1, backend.RefreshCalls(), "concurrent 401s must coalesce into one refresh")
}

func TestSession_RefreshFailureEndsSession(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewBackend(t)
	user := backend.SeedUser("Alice", "alice@example.com", "correct-horse")
	client := NewClient(t, backend, storage.NewMemoryStorage())

	require.NoError(t, client.Auth.Login(ctx, "alice@example.com", "correct-horse"))
	client.Store.SetAccessToken(backend.MintAccessToken(user.ID, -time.Minute))
	backend.SetRefreshDown(true)

	_, err := client.Problems.List(ctx, service.ProblemFilters{})

	require.ErrorIs(t, err, apperrors.ErrUnauthorized, "the caller sees the original 401")
	state := client.Store.State()
	assert.False(t, state.IsAuthenticated)
	assert.Nil(t, state.User, "expired session leaves no user behind")
	assert.Contains(t, *client.Routes, service.RouteLogin, "expiry must route to the login view")
}

func TestSession_RestartRestoresRememberedSession(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewBackend(t)
	backend.SeedUser("Alice", "alice@example.com", "correct-horse")

	// memory storage shared across clients stands in for the state file
	st := storage.NewMemoryStorage()

	first := NewClient(t, backend, st)
	first.Auth.SetPersist(true)
	require.NoError(t, first.Auth.Login(ctx, "alice@example.com", "correct-horse"))

	// a fresh client over the same storage is a process restart: the
	// access token is gone, the durable user and refresh cookie are not
	second := NewClient(t, backend, st)
	require.False(t, second.Store.State().IsAuthenticated, "until the bootstrap runs there is no live token")

	state := second.Bootstrap.Run(ctx)

	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "alice@example.com", state.User.Email)
	assert.EqualValues(t, 1, backend.RefreshCalls())

	languages, err := second.Bootstrap.Languages()
	require.NoError(t, err)
	assert.Len(t, languages, 3, "catalogue loads once the session is restored")
}

func TestSession_RestartAfterLogoutStaysLoggedOut(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewBackend(t)
	backend.SeedUser("Alice", "alice@example.com", "correct-horse")
	st := storage.NewMemoryStorage()

	first := NewClient(t, backend, st)
	require.NoError(t, first.Auth.Login(ctx, "alice@example.com", "correct-horse"))
	first.Auth.Logout(ctx)

	second := NewClient(t, backend, st)
	state := second.Bootstrap.Run(ctx)

	assert.False(t, state.IsAuthenticated)
	assert.Zero(t, backend.RefreshCalls(), "no durable user, no refresh attempt")
}

func TestSession_RevokedEverywhere(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewBackend(t)
	backend.SeedUser("Alice", "alice@example.com", "correct-horse")
	st := storage.NewMemoryStorage()

	first := NewClient(t, backend, st)
	first.Auth.SetPersist(true)
	require.NoError(t, first.Auth.Login(ctx, "alice@example.com", "correct-horse"))

	// server-side "log out everywhere" between runs
	backend.RevokeRefreshTokens()

	second := NewClient(t, backend, st)
	state := second.Bootstrap.Run(ctx)

	assert.False(t, state.IsAuthenticated, "a revoked refresh token cannot restore the session")
}
