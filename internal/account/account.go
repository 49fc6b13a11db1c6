// Package account maps the auth endpoints' status codes onto the
// closed outcome sets the login, registration and logout flows handle.
package account

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mdayat/artics-communication/internal/api"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/notice"
	"github.com/mdayat/artics-communication/internal/session"
)

// LoginOutcome is the closed set of login results.
type LoginOutcome int

const (
	LoginSuccess LoginOutcome = iota
	LoginBadCredentials
	LoginUserNotFound
	LoginFailed
)

// RegisterOutcome is the closed set of registration results.
type RegisterOutcome int

const (
	RegisterSuccess RegisterOutcome = iota
	RegisterInvalid
	RegisterEmailTaken
	RegisterFailed
)

// Service wires the auth endpoints to the session store. Login and
// logout replace the identity wholesale; nothing here mutates it in
// place.
type Service struct {
	client   *api.Client
	sessions *session.Store
	notify   notice.Notifier
	logger   zerolog.Logger
}

func NewService(client *api.Client, sessions *session.Store, notify notice.Notifier, logger zerolog.Logger) *Service {
	return &Service{client: client, sessions: sessions, notify: notify, logger: logger}
}

// Login authenticates with email and password. On success the server
// sets the access_token cookie and returns the identity, which becomes
// the new session identity.
func (s *Service) Login(ctx context.Context, email, password string) LoginOutcome {
	resp, err := s.client.Post(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to login")
		s.notify.Errorf("Login failed, please try again")
		return LoginFailed
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		var identity models.Identity
		if err := resp.Decode(&identity); err != nil {
			s.logger.Error().Err(err).Msg("failed to decode login response")
			s.notify.Errorf("Login failed, please try again")
			return LoginFailed
		}
		s.sessions.SetIdentity(&identity)
		s.notify.Successf("Login success")
		return LoginSuccess
	case http.StatusBadRequest:
		s.notify.Errorf("Please check your email and password again")
		return LoginBadCredentials
	case http.StatusNotFound:
		s.notify.Errorf("User not found")
		return LoginUserNotFound
	default:
		s.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for login")
		s.notify.Errorf("Login failed, please try again")
		return LoginFailed
	}
}

// Register creates a new account. It does not log the user in.
func (s *Service) Register(ctx context.Context, username, email, password string) RegisterOutcome {
	body := models.RegisterRequest{Username: username, Email: email, Password: password}
	resp, err := s.client.Post(ctx, "/auth/register", body)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to register")
		s.notify.Errorf("Registration failed, please try again")
		return RegisterFailed
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		s.notify.Successf("Registration success, please login to continue")
		return RegisterSuccess
	case http.StatusBadRequest:
		s.notify.Errorf("Please check your username, email, and password again")
		return RegisterInvalid
	case http.StatusConflict:
		s.notify.Errorf("Email already registered")
		return RegisterEmailTaken
	default:
		s.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for register")
		s.notify.Errorf("Registration failed, please try again")
		return RegisterFailed
	}
}

// Logout clears the server-side cookie and drops the session identity.
// Returns true when the identity was cleared.
func (s *Service) Logout(ctx context.Context) bool {
	resp, err := s.client.Post(ctx, "/auth/logout", nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to logout")
		s.notify.Errorf("Logout failed, please try again")
		return false
	}

	if resp.StatusCode != http.StatusNoContent {
		s.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for logout")
		s.notify.Errorf("Logout failed, please try again")
		return false
	}

	s.sessions.SetIdentity(nil)
	return true
}
