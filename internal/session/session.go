package session

import (
	"context"
	"sync"

	"github.com/safar/go-storefront-client/internal/api"
	"github.com/safar/go-storefront-client/internal/models"
)

// Session holds the current user identity. It is created at session start
// and torn down at logout; cart and checkout operations are gated on a
// present user. A failed or rejected profile fetch means "no user", never a
// surfaced error.
type Session struct {
	client *api.Client

	mu        sync.RWMutex
	user      *models.User
	listeners []func(*models.User)
}

func New(client *api.Client) *Session {
	return &Session{client: client}
}

// User returns the current user, nil when nobody is signed in.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a user is present.
func (s *Session) Authenticated() bool {
	return s.User() != nil
}

// Subscribe registers a callback invoked whenever the user changes. The
// callback receives the new user, nil on logout or a stale session.
func (s *Session) Subscribe(notify func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, notify)
}

// Refresh fetches the profile and replaces the held user. Any failure,
// including a rejected credential, resolves to no user.
func (s *Session) Refresh(ctx context.Context) *models.User {
	user, err := s.client.Profile(ctx)
	if err != nil {
		user = nil
	}
	s.setUser(user)
	return user
}

// Login authenticates and then refetches the profile to populate the
// session, matching the backend's cookie-then-profile handshake.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := s.client.Login(ctx, email, password); err != nil {
		return nil, err
	}
	return s.Refresh(ctx), nil
}

// Register creates an account and populates the session the same way.
func (s *Session) Register(ctx context.Context, fullName, email, password string) (*models.User, error) {
	if err := s.client.Register(ctx, fullName, email, password); err != nil {
		return nil, err
	}
	return s.Refresh(ctx), nil
}

// Logout invalidates the credential and clears the user. The user is kept
// when the remote call fails, so a retry is possible.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return err
	}
	s.setUser(nil)
	return nil
}

func (s *Session) setUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	listeners := s.listeners
	s.mu.Unlock()

	for _, notify := range listeners {
		notify(user)
	}
}
