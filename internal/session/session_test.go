package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safar/go-storefront-client/internal/api"
	"github.com/safar/go-storefront-client/internal/api/apitest"
	"github.com/safar/go-storefront-client/internal/config"
	"github.com/safar/go-storefront-client/internal/models"
	"github.com/safar/go-storefront-client/internal/session"
)

func newSession(t *testing.T) (*apitest.Server, *session.Session) {
	t.Helper()

	srv := apitest.New()
	t.Cleanup(srv.Close)

	client, err := api.NewClient(&config.APIConfig{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     1,
		RetryBaseDelay: time.Millisecond,
	})
	require.NoError(t, err)

	return srv, session.New(client)
}

func TestRefreshWithoutCredentialMeansNoUser(t *testing.T) {
	_, sess := newSession(t)

	user := sess.Refresh(context.Background())
	assert.Nil(t, user)
	assert.False(t, sess.Authenticated())
}

func TestLoginPopulatesTheSession(t *testing.T) {
	srv, sess := newSession(t)
	srv.SeedAccount(models.User{ID: "u1", FullName: "Ayesha Rahman", Email: "ayesha@example.com"}, "secret")

	user, err := sess.Login(context.Background(), "ayesha@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ayesha Rahman", user.FullName)
	assert.True(t, sess.Authenticated())
}

func TestLoginRejectionLeavesNoUser(t *testing.T) {
	srv, sess := newSession(t)
	srv.SeedAccount(models.User{ID: "u1", FullName: "Ayesha Rahman", Email: "ayesha@example.com"}, "secret")

	_, err := sess.Login(context.Background(), "ayesha@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, sess.Authenticated())
}

func TestRegisterPopulatesTheSession(t *testing.T) {
	_, sess := newSession(t)

	user, err := sess.Register(context.Background(), "Nusrat Jahan", "nusrat@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Nusrat Jahan", user.FullName)
	assert.True(t, sess.Authenticated())
}

func TestStaleProfileResolvesToNoUser(t *testing.T) {
	srv, sess := newSession(t)
	srv.SeedAccount(models.User{ID: "u1", FullName: "Ayesha Rahman", Email: "ayesha@example.com"}, "secret")

	_, err := sess.Login(context.Background(), "ayesha@example.com", "secret")
	require.NoError(t, err)

	// Profile fetch fails past its retries: not an error, just no user.
	srv.FailNext("/user/profile", 2)
	user := sess.Refresh(context.Background())
	assert.Nil(t, user)
	assert.False(t, sess.Authenticated())
}

func TestLogoutClearsUserAndNotifies(t *testing.T) {
	srv, sess := newSession(t)
	srv.SeedAccount(models.User{ID: "u1", FullName: "Ayesha Rahman", Email: "ayesha@example.com"}, "secret")

	var seen []*models.User
	sess.Subscribe(func(u *models.User) { seen = append(seen, u) })

	_, err := sess.Login(context.Background(), "ayesha@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, sess.Logout(context.Background()))
	assert.False(t, sess.Authenticated())

	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0])
	assert.Nil(t, seen[1])
}
