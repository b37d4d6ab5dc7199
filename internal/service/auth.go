package service

import (
	"context"

	"github.com/NitinReddy01/codejudge-cli/internal/logger"
	"github.com/NitinReddy01/codejudge-cli/internal/models"
	"github.com/NitinReddy01/codejudge-cli/internal/session"
)

// credentialGateway is the slice of the auth gateway this service uses
type credentialGateway interface {
	Login(ctx context.Context, email string, password string) (models.AuthResponse, error)
	Register(ctx context.Context, name string, email string, password string) (models.AuthResponse, error)
	Logout(ctx context.Context) error
	ExchangeOAuthToken(ctx context.Context, token string) (models.AuthResponse, error)
}

// AuthService orchestrates the credential operations: gateway round
// trip, session store update, navigation. Form-level errors (bad
// credentials, validation) bubble up untouched and never alter the
// stored session.
type AuthService struct {
	gateway  credentialGateway
	store    *session.Store
	navigate Navigator
	logger   logger.Logger
}

func NewAuth(gw credentialGateway, store *session.Store, nav Navigator, l logger.Logger) *AuthService {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}

	return &AuthService{
		gateway:  gw,
		store:    store,
		navigate: nav,
		logger:   l,
	}
}

func (s *AuthService) Login(ctx context.Context, email string, password string) error {
	s.store.SetLoading(true)

	resp, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		s.store.SetLoading(false)
		return err
	}

	s.store.SetCredentials(resp.User, resp.AccessToken)
	s.navigate.NavigateTo(RouteProblems)
	return nil
}

func (s *AuthService) Register(ctx context.Context, name string, email string, password string) error {
	s.store.SetLoading(true)

	resp, err := s.gateway.Register(ctx, name, email, password)
	if err != nil {
		s.store.SetLoading(false)
		return err
	}

	s.store.SetCredentials(resp.User, resp.AccessToken)
	s.navigate.NavigateTo(RouteProblems)
	return nil
}

// Logout clears the session. The backend call that revokes the refresh
// cookie is best effort: a user who asked to log out must end up logged
// out locally even with the backend unreachable.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.gateway.Logout(ctx); err != nil {
		s.logger.Warn("logout request failed, clearing local session anyway", "error", err)
	}

	s.store.Clear()
	s.navigate.NavigateTo(RouteLogin)
}

// CompleteOAuth finishes the Google redirect flow: the one-time token
// from the callback URL is exchanged for the user profile
func (s *AuthService) CompleteOAuth(ctx context.Context, token string) error {
	resp, err := s.gateway.ExchangeOAuthToken(ctx, token)
	if err != nil {
		return err
	}

	s.store.SetCredentials(resp.User, resp.AccessToken)
	s.navigate.NavigateTo(RouteProblems)
	return nil
}

func (s *AuthService) SetPersist(persist bool) {
	s.store.SetPersist(persist)
}
