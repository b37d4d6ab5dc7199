package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NitinReddy01/codejudge-cli/internal/logger"
	"github.com/NitinReddy01/codejudge-cli/internal/models"
	"github.com/NitinReddy01/codejudge-cli/internal/storage"
)

var testUser = models.User{ID: "u1", Email: "a@b.com", Name: "Alice"}

// requireInvariant checks the core session invariant:
// authenticated implies a non-empty access token
func requireInvariant(t *testing.T, state models.SessionState) {
	t.Helper()
	if state.IsAuthenticated {
		require.NotEmpty(t, state.AccessToken, "authenticated state must carry an access token")
		require.NotNil(t, state.User, "authenticated state must carry a user")
	}
}

func TestStore(t *testing.T) {
	t.Parallel()

	newStore := func() (*Store, storage.Storage) {
		st := storage.NewMemoryStorage()
		return NewStore(st, logger.NewNoOpLogger()), st
	}

	t.Run("fresh store is unauthenticated", func(t *testing.T) {
		s, _ := newStore()

		state := s.State()

		require.False(t, state.IsAuthenticated)
		require.Nil(t, state.User)
		require.Empty(t, state.AccessToken)
		requireInvariant(t, state)
	})

	t.Run("set credentials authenticates and mirrors user", func(t *testing.T) {
		s, st := newStore()

		s.SetCredentials(testUser, "tok1")

		state := s.State()
		require.True(t, state.IsAuthenticated)
		require.Equal(t, "tok1", state.AccessToken)
		require.Equal(t, testUser, *state.User)
		requireInvariant(t, state)

		raw, ok := st.Get(storage.KeyUser)
		require.True(t, ok, "user should be mirrored durably")
		var stored models.User
		require.NoError(t, json.Unmarshal([]byte(raw), &stored))
		require.Equal(t, testUser, stored)
	})

	t.Run("access token is never mirrored durably", func(t *testing.T) {
		s, st := newStore()

		s.SetCredentials(testUser, "tok1")
		s.SetAccessToken("tok2")

		for _, key := range []string{storage.KeyUser, storage.KeyPersist} {
			raw, _ := st.Get(key)
			assert.NotContains(t, raw, "tok1")
			assert.NotContains(t, raw, "tok2")
		}
	})

	t.Run("set access token alone does not authenticate without user", func(t *testing.T) {
		s, _ := newStore()

		s.SetAccessToken("tok2")

		state := s.State()
		require.False(t, state.IsAuthenticated, "token without user must not count as authenticated")
		requireInvariant(t, state)
	})

	t.Run("refresh after restart re-authenticates stored user", func(t *testing.T) {
		st := storage.NewMemoryStorage()
		first := NewStore(st, logger.NewNoOpLogger())
		first.SetCredentials(testUser, "tok1")

		// new store over same storage models a process restart:
		// the user survives, the token does not
		second := NewStore(st, logger.NewNoOpLogger())
		state := second.State()
		require.NotNil(t, state.User)
		require.Empty(t, state.AccessToken)
		require.False(t, state.IsAuthenticated)

		second.SetAccessToken("tok2")

		state = second.State()
		require.True(t, state.IsAuthenticated)
		requireInvariant(t, state)
	})

	t.Run("clear removes session and durable user but not persist", func(t *testing.T) {
		s, st := newStore()
		s.SetPersist(true)
		s.SetCredentials(testUser, "tok1")

		s.Clear()

		state := s.State()
		require.False(t, state.IsAuthenticated)
		require.Nil(t, state.User)
		require.Empty(t, state.AccessToken)
		require.True(t, state.Persist, "persist preference must survive clear")
		requireInvariant(t, state)

		_, ok := st.Get(storage.KeyUser)
		require.False(t, ok, "durable user must be removed on clear")
		raw, ok := st.Get(storage.KeyPersist)
		require.True(t, ok)
		require.Equal(t, "true", raw)
	})

	t.Run("corrupted stored user is dropped", func(t *testing.T) {
		st := storage.NewMemoryStorage()
		require.NoError(t, st.Set(storage.KeyUser, "{broken"))

		s := NewStore(st, logger.NewNoOpLogger())

		require.Nil(t, s.State().User)
	})

	t.Run("subscribers observe mutations until unsubscribed", func(t *testing.T) {
		s, _ := newStore()

		var seen []models.SessionState
		unsubscribe := s.Subscribe(func(st models.SessionState) {
			seen = append(seen, st)
		})

		s.SetCredentials(testUser, "tok1")
		require.Len(t, seen, 1)
		require.True(t, seen[0].IsAuthenticated)

		unsubscribe()
		s.Clear()
		require.Len(t, seen, 1, "unsubscribed consumer should see no further mutations")
	})

	t.Run("subscriber may read the store without deadlock", func(t *testing.T) {
		s, _ := newStore()

		var inner models.SessionState
		s.Subscribe(func(models.SessionState) {
			inner = s.State()
		})

		s.SetAccessToken("tok3")

		require.Equal(t, "tok3", inner.AccessToken)
	})
}
