package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NitinReddy01/codejudge-cli/internal/apperrors"
	"github.com/NitinReddy01/codejudge-cli/internal/gateway"
	"github.com/NitinReddy01/codejudge-cli/internal/logger"
	"github.com/NitinReddy01/codejudge-cli/internal/models"
	"github.com/NitinReddy01/codejudge-cli/internal/service"
	"github.com/NitinReddy01/codejudge-cli/internal/session"
	"github.com/NitinReddy01/codejudge-cli/internal/storage"
	"github.com/NitinReddy01/codejudge-cli/internal/testutil"
	"github.com/NitinReddy01/codejudge-cli/internal/transport"
)

// apiFixture wires a logged-in session with the intercepted client, the
// way the application does
type apiFixture struct {
	backend *testutil.Backend
	store   *session.Store
	client  *http.Client
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()

	backend := testutil.NewBackend(t)
	backend.SeedUser("Alice", "alice@example.com", "correct-horse")

	store := session.NewStore(storage.NewMemoryStorage(), logger.NewNoOpLogger())

	gw, err := gateway.New(gateway.Config{BaseURL: backend.URL()}, logger.NewNoOpLogger())
	require.NoError(t, err)

	resp, err := gw.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	store.SetCredentials(resp.User, resp.AccessToken)

	refresher := session.NewRefresher(store, gw.Refresh, logger.NewNoOpLogger())
	client := &http.Client{}
	transport.Attach(client, transport.NewAuthTransport(transport.AuthTransportConfig{}, store, refresher, logger.NewNoOpLogger()))

	return &apiFixture{backend: backend, store: store, client: client}
}

func TestProblemsService(t *testing.T) {
	ctx := context.Background()

	t.Run("list all", func(t *testing.T) {
		f := newAPIFixture(t)
		problems := service.NewProblems(f.client, f.backend.URL())

		got, err := problems.List(ctx, service.ProblemFilters{})

		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("list filtered by difficulty", func(t *testing.T) {
		f := newAPIFixture(t)
		problems := service.NewProblems(f.client, f.backend.URL())

		got, err := problems.List(ctx, service.ProblemFilters{Difficulty: "easy"})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Two Sum", got[0].Title)
	})

	t.Run("get by id", func(t *testing.T) {
		f := newAPIFixture(t)
		problems := service.NewProblems(f.client, f.backend.URL())

		got, err := problems.Get(ctx, "1")

		require.NoError(t, err)
		assert.Equal(t, "Two Sum", got.Title)
		assert.NotEmpty(t, got.SampleTestCases)
	})

	t.Run("get unknown id", func(t *testing.T) {
		f := newAPIFixture(t)
		problems := service.NewProblems(f.client, f.backend.URL())

		_, err := problems.Get(ctx, "missing")

		var apiErr *apperrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})

	t.Run("languages", func(t *testing.T) {
		f := newAPIFixture(t)
		problems := service.NewProblems(f.client, f.backend.URL())

		got, err := problems.Languages(ctx)

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "python", got[0].Code)
	})

	t.Run("expired token is refreshed transparently", func(t *testing.T) {
		f := newAPIFixture(t)
		state := f.store.State()
		f.store.SetAccessToken(f.backend.MintAccessToken(state.User.ID, -time.Minute))
		problems := service.NewProblems(f.client, f.backend.URL())

		got, err := problems.List(ctx, service.ProblemFilters{})

		require.NoError(t, err, "a stale token must be refreshed, not surfaced")
		require.Len(t, got, 2)
		assert.EqualValues(t, 1, f.backend.RefreshCalls())
	})
}

func TestSubmissionsService(t *testing.T) {
	ctx := context.Background()

	submission := models.Submission{
		ProblemID: "1",
		Code:      "print(solve())",
		Language:  "python",
		TestCases: []models.TestCase{
			{Input: "2 7 11 15\n9", ExpectedOutput: "0 1"},
		},
		TimeLimit:   2000,
		MemoryLimit: 128,
	}

	t.Run("run", func(t *testing.T) {
		f := newAPIFixture(t)
		submissions := service.NewSubmissions(f.client, f.backend.URL())

		resp, err := submissions.Run(ctx, submission)

		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalTests)
		assert.Equal(t, 1, resp.PassedTests)
		require.Len(t, resp.Results, 1)
		assert.True(t, resp.Results[0].Passed)
	})

	t.Run("submit", func(t *testing.T) {
		f := newAPIFixture(t)
		submissions := service.NewSubmissions(f.client, f.backend.URL())

		resp, err := submissions.Submit(ctx, submission)

		require.NoError(t, err)
		assert.Zero(t, resp.FailedTests)
	})

	t.Run("submit is recorded in history, run is not", func(t *testing.T) {
		f := newAPIFixture(t)
		submissions := service.NewSubmissions(f.client, f.backend.URL())

		_, err := submissions.Run(ctx, submission)
		require.NoError(t, err)
		_, err = submissions.Submit(ctx, submission)
		require.NoError(t, err)

		records, err := submissions.History(ctx, "")

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "1", records[0].ProblemID)
		assert.Equal(t, "accepted", records[0].Status)
		assert.Equal(t, 1, records[0].PassedTests)
	})

	t.Run("history filtered by problem", func(t *testing.T) {
		f := newAPIFixture(t)
		submissions := service.NewSubmissions(f.client, f.backend.URL())

		_, err := submissions.Submit(ctx, submission)
		require.NoError(t, err)

		records, err := submissions.History(ctx, "does-not-exist")

		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
