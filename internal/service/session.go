package service

import (
	"context"
	"log/slog"

	"flicker/internal/api"
	"flicker/internal/domain"
	"flicker/internal/session"
	"flicker/internal/store"
)

// authClient provides the authentication operations this service needs.
type authClient interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Register(ctx context.Context, username, email, password string) (domain.Session, error)
	Profile(ctx context.Context) (domain.User, error)
}

// SessionService manages login, registration, OAuth completion and logout.
type SessionService struct {
	client    authClient
	sessions  *session.Store
	snapshots *store.SnapshotStore
	logger    *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(client authClient, sessions *session.Store, snapshots *store.SnapshotStore, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		client:    client,
		sessions:  sessions,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Login exchanges credentials for a session and persists it. A failed login
// leaves the stored authentication state untouched.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	sess, err := s.client.Login(ctx, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.sessions.Save(sess.Token, sess.User); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("logged in", "user", sess.User.Username)
	return sess, nil
}

// Register creates an account and persists the resulting session.
func (s *SessionService) Register(ctx context.Context, username, email, password string) (domain.Session, error) {
	sess, err := s.client.Register(ctx, username, email, password)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.sessions.Save(sess.Token, sess.User); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("registered", "user", sess.User.Username)
	return sess, nil
}

// CompleteOAuth finishes the OAuth flow from a pasted callback URL: the
// token parameter is persisted, then the profile is fetched best-effort to
// fill in the user record. A missing token fails without touching state.
func (s *SessionService) CompleteOAuth(ctx context.Context, callbackURL string) (domain.Session, error) {
	token, err := api.ParseOAuthCallback(callbackURL)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.sessions.Save(token, domain.User{}); err != nil {
		return domain.Session{}, err
	}

	// The profile fetch rides on the just-saved token. Failure degrades to
	// a session without a user record; it never rolls back the token.
	user, err := s.client.Profile(ctx)
	if err != nil {
		s.logger.Warn("profile fetch after oauth failed", "error", err)
		return domain.Session{Token: token}, nil
	}
	if err := s.sessions.Save(token, user); err != nil {
		s.logger.Warn("failed to persist oauth user", "error", err)
	}
	return domain.Session{Token: token, User: user}, nil
}

// Logout clears the persisted session and every authenticated-only cache.
func (s *SessionService) Logout() error {
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	if s.snapshots != nil {
		if err := s.snapshots.ClearUserData(); err != nil {
			s.logger.Warn("failed to clear user caches", "error", err)
		}
	}
	s.logger.Info("logged out")
	return nil
}

// IsAuthenticated reports whether a token is stored.
func (s *SessionService) IsAuthenticated() bool {
	return s.sessions.IsAuthenticated()
}

// CurrentUser returns the stored user record, if any.
func (s *SessionService) CurrentUser() (domain.User, bool) {
	return s.sessions.User()
}
