package session_test

import (
	"context"
	"testing"
	"time"

	"clinic-inventory/config"
	"clinic-inventory/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*session.Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := session.NewService(config.SessionConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
	}, client)
	return svc, mr
}

func TestCreateAndValidate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, sessionID, err := svc.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, sessionID)

	claims, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Create(ctx, 1)
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	other := session.NewService(config.SessionConfig{
		Secret: "different-secret",
		Expiry: time.Hour,
	}, client)

	_, err = other.Validate(ctx, token)
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestRevokedSessionNoLongerValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Create(ctx, 7)
	require.NoError(t, err)

	claims, err := svc.Validate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, claims))

	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, session.ErrSessionRevoked)
}

func TestExpiredWhitelistEntryRevokesSession(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	token, _, err := svc.Create(ctx, 7)
	require.NoError(t, err)

	// Redis TTL elapses before the signed token does.
	mr.FastForward(2 * time.Hour)

	_, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, session.ErrSessionRevoked)
}

func TestFlashesAreDrainedOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFlash(ctx, "sid-1", "first"))
	require.NoError(t, svc.AddFlash(ctx, "sid-1", "second"))

	notices, err := svc.Flashes(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, notices)

	notices, err = svc.Flashes(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, notices)
}

func TestFlashesAreScopedToSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddFlash(ctx, "sid-a", "for a"))

	notices, err := svc.Flashes(ctx, "sid-b")
	require.NoError(t, err)
	assert.Empty(t, notices)
}
