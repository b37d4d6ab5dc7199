package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/NitinReddy01/codejudge-cli/internal/apperrors"
	"github.com/NitinReddy01/codejudge-cli/internal/logger"
	"github.com/NitinReddy01/codejudge-cli/internal/models"
)

const defaultTimeout = 30 * time.Second

var validate = validator.New()

type Config struct {
	// BaseURL of the backend API, e.g. http://localhost:4000/api
	BaseURL string

	// Timeout per credential round trip. Defaults to 30s
	Timeout time.Duration

	// Jar carries the refresh cookie between calls. Defaults to a
	// fresh in-memory jar; pass a PersistentJar to keep the cookie
	// across restarts
	Jar http.CookieJar
}

// Gateway performs the credential operations against the backend.
//
// It owns a dedicated, un-intercepted http.Client: no bearer injection
// and no retry may happen on the login/refresh paths themselves. The
// client carries a cookie jar, the process-side stand-in for the
// browser cookie store that transports the httpOnly refresh token.
type Gateway struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func New(cfg Config, l logger.Logger) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway base URL must not be empty")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	jar := cfg.Jar
	if jar == nil {
		var err error
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
	}

	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		logger: l,
	}, nil
}

// Login exchanges credentials for a user and access token. The backend
// also sets the refresh cookie on this response.
func (g *Gateway) Login(ctx context.Context, email string, password string) (models.AuthResponse, error) {
	type loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	req := loginRequest{Email: email, Password: password}
	if err := validate.Struct(req); err != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var resp models.AuthResponse
	err := g.do(ctx, http.MethodPost, "/auth/login", req, &resp, func(status int) error {
		switch status {
		case http.StatusUnauthorized:
			return apperrors.ErrInvalidCredentials
		case http.StatusBadRequest:
			return apperrors.ErrValidation
		default:
			return nil
		}
	})
	if err != nil {
		return models.AuthResponse{}, err
	}

	return resp, nil
}

// Register creates an account and logs it in, in one round trip
func (g *Gateway) Register(ctx context.Context, name string, email string, password string) (models.AuthResponse, error) {
	type registerRequest struct {
		Name     string `json:"name" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	req := registerRequest{Name: name, Email: email, Password: password}
	if err := validate.Struct(req); err != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var resp models.AuthResponse
	err := g.do(ctx, http.MethodPost, "/auth/register", req, &resp, func(status int) error {
		switch status {
		case http.StatusBadRequest, http.StatusConflict:
			return apperrors.ErrValidation
		default:
			return nil
		}
	})
	if err != nil {
		return models.AuthResponse{}, err
	}

	return resp, nil
}

// Refresh mints a new access token. No body: the refresh token rides in
// the httpOnly cookie the jar sends automatically. A 401 here means the
// cookie is missing, expired or revoked, the one failure that ends a
// session for good.
func (g *Gateway) Refresh(ctx context.Context) (string, error) {
	var resp models.RefreshResponse
	err := g.do(ctx, http.MethodPost, "/auth/refresh", nil, &resp, func(status int) error {
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.ErrRefreshInvalid
		default:
			return nil
		}
	})
	if err != nil {
		return "", err
	}

	return resp.AccessToken, nil
}

// Logout asks the backend to revoke the refresh token and clear its
// cookie. Best effort: the caller clears local state whether or not
// this round trip succeeds.
func (g *Gateway) Logout(ctx context.Context) error {
	return g.do(ctx, http.MethodPost, "/auth/logout", nil, nil, func(status int) error {
		return nil
	})
}

// ExchangeOAuthToken resolves the identity behind a one-time access
// token delivered on the OAuth redirect. The token authorizes this
// single request only; it is set per request and can never leak into
// the shared client the way a mutated default header could.
func (g *Gateway) ExchangeOAuthToken(ctx context.Context, token string) (models.AuthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/auth/me", nil)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		sentinel := error(nil)
		if resp.StatusCode == http.StatusUnauthorized {
			sentinel = apperrors.ErrUnauthorized
		}
		return models.AuthResponse{}, apperrors.NewAPIError(resp.StatusCode, readMessage(resp.Body), sentinel)
	}

	var body struct {
		User models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.AuthResponse{}, fmt.Errorf("failed to decode user profile: %w", err)
	}

	return models.AuthResponse{User: body.User, AccessToken: token}, nil
}

// GoogleAuthURL is where the application sends the user to start the
// Google OAuth flow. The backend completes the provider handshake and
// redirects back with a one-time token for ExchangeOAuthToken.
func (g *Gateway) GoogleAuthURL() string {
	return g.baseURL + "/auth/google"
}

// do executes a single JSON round trip. A request that never produced a
// response classifies as ErrNetwork; a status >= 400 is wrapped into an
// APIError whose sentinel the endpoint resolves via classify.
func (g *Gateway) do(ctx context.Context, method string, path string, body any, out any, classify func(status int) error) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		message := readMessage(resp.Body)
		g.logger.Debug("auth request rejected", "method", method, "path", path, "status", resp.StatusCode, "message", message)
		return apperrors.NewAPIError(resp.StatusCode, message, classify(resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// readMessage extracts the backend's {"message": ...} error body
func readMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	return body.Message
}
