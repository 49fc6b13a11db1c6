// Package session owns the client's knowledge of who is logged in.
//
// The identity is fetched exactly once per process. Until that fetch
// finishes the session is "resolving" and the navigation guard renders
// nothing; once resolved the flag never flips back. Login and logout
// replace the identity wholesale through SetIdentity, the only writer
// path.
package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mdayat/artics-communication/internal/api"
	"github.com/mdayat/artics-communication/internal/models"
	"github.com/mdayat/artics-communication/internal/notice"
)

// Session is an immutable snapshot for guard evaluation.
type Session struct {
	Identity  *models.Identity
	Resolving bool
}

// Store is the process-wide session holder.
type Store struct {
	mu        sync.RWMutex
	identity  *models.Identity
	resolving bool
	once      sync.Once

	client *api.Client
	notify notice.Notifier
	logger zerolog.Logger
}

// NewStore creates a store in the resolving state. Call Resolve to
// trigger the one-time identity fetch.
func NewStore(client *api.Client, notify notice.Notifier, logger zerolog.Logger) *Store {
	return &Store{
		resolving: true,
		client:    client,
		notify:    notify,
		logger:    logger,
	}
}

// Resolve performs the single identity fetch. Subsequent calls are
// no-ops regardless of the first call's outcome: there is no retry and
// no refresh path.
func (s *Store) Resolve(ctx context.Context) {
	s.once.Do(func() { s.resolve(ctx) })
}

func (s *Store) resolve(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.resolving = false
		s.mu.Unlock()
	}()

	resp, err := s.client.Get(ctx, "/users/me")
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get user data")
		s.notify.Errorf("Something is wrong, please restart the client")
		return
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var identity models.Identity
		if err := resp.Decode(&identity); err != nil {
			s.logger.Error().Err(err).Msg("failed to decode user data")
			s.notify.Errorf("Something is wrong, please restart the client")
			return
		}
		s.mu.Lock()
		s.identity = &identity
		s.mu.Unlock()
	case http.StatusUnauthorized:
		// No session; a normal outcome, not an error.
	case http.StatusNotFound:
		s.notify.Errorf("User not found")
	default:
		s.logger.Error().Int("status_code", resp.StatusCode).Msg("unknown status code for GET /users/me")
		s.notify.Errorf("Something is wrong, please restart the client")
	}
}

// SetIdentity replaces the identity wholesale. Pass nil on logout.
func (s *Store) SetIdentity(identity *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
}

// Snapshot returns the current session state for guard evaluation.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{Identity: s.identity, Resolving: s.resolving}
}
