package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flicker/internal/domain"
	"flicker/internal/log"
	"flicker/internal/session"
	"flicker/internal/store"
)

type fakeAuthClient struct {
	session    domain.Session
	profile    domain.User
	loginErr   error
	profileErr error
}

func (f *fakeAuthClient) Login(ctx context.Context, email, password string) (domain.Session, error) {
	if f.loginErr != nil {
		return domain.Session{}, f.loginErr
	}
	return f.session, nil
}

func (f *fakeAuthClient) Register(ctx context.Context, username, email, password string) (domain.Session, error) {
	return f.Login(ctx, email, password)
}

func (f *fakeAuthClient) Profile(ctx context.Context) (domain.User, error) {
	if f.profileErr != nil {
		return domain.User{}, f.profileErr
	}
	return f.profile, nil
}

func newSessionFixture(t *testing.T, client *fakeAuthClient) (*SessionService, *session.Store, *store.SnapshotStore) {
	t.Helper()
	sessions, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	snapshots, err := store.NewSnapshotStore(t.TempDir(), "http://backend:3000")
	require.NoError(t, err)
	t.Cleanup(func() { snapshots.Close() })
	return NewSessionService(client, sessions, snapshots, log.NullLogger()), sessions, snapshots
}

func TestLoginPersistsSession(t *testing.T) {
	client := &fakeAuthClient{session: domain.Session{
		Token: "tok-1",
		User:  domain.User{ID: "u1", Username: "rin"},
	}}
	svc, sessions, _ := newSessionFixture(t, client)

	sess, err := svc.Login(context.Background(), "rin@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)

	assert.True(t, sessions.IsAuthenticated())
	user, ok := sessions.User()
	require.True(t, ok)
	assert.Equal(t, "rin", user.Username)
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	client := &fakeAuthClient{loginErr: domain.ErrAuthFailed}
	svc, sessions, _ := newSessionFixture(t, client)

	_, err := svc.Login(context.Background(), "rin@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.False(t, sessions.IsAuthenticated())
}

func TestLogoutClearsSessionAndUserCaches(t *testing.T) {
	client := &fakeAuthClient{session: domain.Session{Token: "tok", User: domain.User{ID: "u1"}}}
	svc, _, snapshots := newSessionFixture(t, client)

	_, err := svc.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	require.NoError(t, snapshots.SaveHistory([]domain.WatchHistoryEntry{{ItemID: "a1"}}))

	require.NoError(t, svc.Logout())

	assert.False(t, svc.IsAuthenticated())
	_, ok := snapshots.History()
	assert.False(t, ok, "authenticated caches cleared on logout")
}

func TestCompleteOAuth(t *testing.T) {
	client := &fakeAuthClient{profile: domain.User{ID: "u1", Username: "rin"}}
	svc, sessions, _ := newSessionFixture(t, client)

	sess, err := svc.CompleteOAuth(context.Background(), "http://localhost:4200/auth/callback?token=tok-oauth")
	require.NoError(t, err)
	assert.Equal(t, "tok-oauth", sess.Token)
	assert.Equal(t, "rin", sess.User.Username)
	assert.True(t, sessions.IsAuthenticated())
}

func TestCompleteOAuthMissingToken(t *testing.T) {
	svc, sessions, _ := newSessionFixture(t, &fakeAuthClient{})

	_, err := svc.CompleteOAuth(context.Background(), "http://localhost:4200/auth/callback")
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.False(t, sessions.IsAuthenticated(), "missing token leaves no session behind")
}

func TestCompleteOAuthProfileFailureKeepsToken(t *testing.T) {
	client := &fakeAuthClient{profileErr: domain.ErrNetwork}
	svc, sessions, _ := newSessionFixture(t, client)

	sess, err := svc.CompleteOAuth(context.Background(), "http://cb?token=tok-2")
	require.NoError(t, err, "profile fetch failure degrades, never fails the flow")
	assert.Equal(t, "tok-2", sess.Token)
	assert.True(t, sessions.IsAuthenticated())
}
