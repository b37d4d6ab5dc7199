package session

import (
	"encoding/json"
	"sync"

	"github.com/NitinReddy01/codejudge-cli/internal/logger"
	"github.com/NitinReddy01/codejudge-cli/internal/models"
	"github.com/NitinReddy01/codejudge-cli/internal/storage"
)

// Store is the single shared holder of session state: the current user,
// the in-memory access token, and the persist preference.
//
// User and persist are mirrored to durable storage so a returning visitor
// is recognized before any network call completes. The access token lives
// only in memory and dies with the process, which is what forces the
// bootstrap to re-validate through the refresh cookie.
type Store struct {
	mu          sync.Mutex
	user        *models.User
	accessToken string
	loading     bool
	persist     bool

	subscribers map[int]func(models.SessionState)
	nextSubID   int

	storage storage.Storage
	logger  logger.Logger
}

// NewStore creates a store and restores user and persist preference
// from durable storage. A corrupted user record is dropped, not fatal.
func NewStore(st storage.Storage, l logger.Logger) *Store {
	s := &Store{
		subscribers: make(map[int]func(models.SessionState)),
		storage:     st,
		logger:      l,
	}

	if raw, ok := st.Get(storage.KeyUser); ok {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			l.Warn("dropping unreadable stored user", "error", err)
		} else {
			s.user = &user
		}
	}
	if raw, ok := st.Get(storage.KeyPersist); ok {
		s.persist = raw == "true"
	}

	return s
}

// State returns a snapshot of the session state
func (s *Store) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked()
}

// stateLocked must be called with the mutex held
func (s *Store) stateLocked() models.SessionState {
	var user *models.User
	if s.user != nil {
		u := *s.user
		user = &u
	}

	return models.SessionState{
		User:            user,
		AccessToken:     s.accessToken,
		IsAuthenticated: s.user != nil && s.accessToken != "",
		Loading:         s.loading,
		Persist:         s.persist,
	}
}

// SetCredentials installs a fresh user and access token after login,
// register or an OAuth exchange. The user is mirrored durably, the
// token is not.
func (s *Store) SetCredentials(user models.User, accessToken string) {
	s.mu.Lock()
	u := user
	s.user = &u
	s.accessToken = accessToken
	s.loading = false
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()

	data, err := json.Marshal(user)
	if err == nil {
		err = s.storage.Set(storage.KeyUser, string(data))
	}
	if err != nil {
		s.logger.Warn("failed to mirror user to storage", "error", err)
	}
}

// SetAccessToken replaces just the token after a successful refresh
func (s *Store) SetAccessToken(accessToken string) {
	s.mu.Lock()
	s.accessToken = accessToken
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()
}

// Clear tears the session down: token, user and the durable user record
// are removed. The persist preference is untouched.
func (s *Store) Clear() {
	s.mu.Lock()
	s.accessToken = ""
	s.user = nil
	s.loading = false
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()

	if err := s.storage.Delete(storage.KeyUser); err != nil {
		s.logger.Warn("failed to remove user from storage", "error", err)
	}
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()
}

// SetPersist records the "remember me" preference durably
func (s *Store) SetPersist(persist bool) {
	s.mu.Lock()
	s.persist = persist
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()

	value := "false"
	if persist {
		value = "true"
	}
	if err := s.storage.Set(storage.KeyPersist, value); err != nil {
		s.logger.Warn("failed to mirror persist preference", "error", err)
	}
}

// Subscribe registers fn to run after every mutation and returns the
// function that removes the registration
func (s *Store) Subscribe(fn func(models.SessionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// notifierLocked snapshots state and subscribers under the mutex and
// returns a closure to run after it is released, so subscribers can
// read the store without deadlocking.
func (s *Store) notifierLocked() func() {
	state := s.stateLocked()
	subs := make([]func(models.SessionState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}

	return func() {
		for _, fn := range subs {
			fn(state)
		}
	}
}
