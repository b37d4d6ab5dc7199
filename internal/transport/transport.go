package transport

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/NitinReddy01/codejudge-cli/internal/logger"
	"github.com/NitinReddy01/codejudge-cli/internal/models"
)

// TokenSource yields a refreshed access token, coalescing concurrent
// callers into a single refresh round trip
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// sessionStore is the slice of the session store the transport needs
type sessionStore interface {
	State() models.SessionState
	Clear()
}

// AuthTransport is the intercepted RoundTripper every authenticated
// request travels through.
//
// Outgoing: injects "Authorization: Bearer <token>" from the session
// store unless the header is already set, plus an X-Request-Id. An empty
// token still produces a bearer header and the request proceeds; the
// server's 401 is what drives the refresh path.
//
// Incoming: a 401 triggers one token refresh and one verbatim replay of
// the request. The retried guard lives in this call frame, so a second
// 401 surfaces as-is and two distinct requests retry independently even
// when their refreshes coalesce. If the refresh itself fails, the
// session is cleared, the expiry hook fires, and the original 401 is
// returned to the caller.
type AuthTransport struct {
	base      http.RoundTripper
	store     sessionStore
	tokens    TokenSource
	onExpired func()
	logger    logger.Logger
}

type AuthTransportConfig struct {
	// Base transport to delegate to. Defaults to http.DefaultTransport
	Base http.RoundTripper

	// OnSessionExpired runs after a failed refresh has cleared the
	// session; the application navigates to the login view here
	OnSessionExpired func()
}

func NewAuthTransport(cfg AuthTransportConfig, store sessionStore, tokens TokenSource, l logger.Logger) *AuthTransport {
	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return &AuthTransport{
		base:      base,
		store:     store,
		tokens:    tokens,
		onExpired: cfg.OnSessionExpired,
		logger:    l,
	}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	first := req.Clone(req.Context())
	if first.Header.Get("Authorization") == "" {
		first.Header.Set("Authorization", "Bearer "+t.store.State().AccessToken)
	}
	if first.Header.Get("X-Request-Id") == "" {
		first.Header.Set("X-Request-Id", uuid.NewString())
	}

	resp, err := t.base.RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	token, refreshErr := t.tokens.Token(req.Context())
	if refreshErr != nil {
		t.logger.Info("token refresh failed, ending session", "error", refreshErr)
		t.store.Clear()
		if t.onExpired != nil {
			t.onExpired()
		}
		// the caller sees the original 401, not the refresh failure
		return resp, nil
	}

	retry, rewindErr := t.rewind(req, first)
	if rewindErr != nil {
		t.logger.Warn("cannot replay request after refresh", "error", rewindErr)
		return resp, nil
	}
	retry.Header.Set("Authorization", "Bearer "+token)

	drain(resp)
	t.logger.Debug("replaying request with refreshed token", "method", req.Method, "url", req.URL.String())

	// one replay only: whatever comes back is the final outcome
	return t.base.RoundTrip(retry)
}

// rewind rebuilds the request with a fresh body for the replay
func (t *AuthTransport) rewind(orig *http.Request, first *http.Request) (*http.Request, error) {
	retry := first.Clone(orig.Context())
	if orig.Body == nil || orig.Body == http.NoBody {
		return retry, nil
	}
	if orig.GetBody == nil {
		return nil, io.ErrUnexpectedEOF
	}

	body, err := orig.GetBody()
	if err != nil {
		return nil, err
	}
	retry.Body = body

	return retry, nil
}

// drain discards a response we will not return so its connection
// can be reused
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// Attach installs t on a shared http.Client and returns the function
// that detaches it again. Attaching is idempotent: however many
// consumers ask for the authenticated client, the transport is
// registered exactly once, so no request can be double-intercepted.
func Attach(client *http.Client, t *AuthTransport) (detach func()) {
	if _, ok := client.Transport.(*AuthTransport); ok {
		return func() {}
	}

	prev := client.Transport
	if prev != nil {
		t.base = prev
	}
	client.Transport = t

	var once sync.Once
	return func() {
		once.Do(func() {
			client.Transport = prev
		})
	}
}
