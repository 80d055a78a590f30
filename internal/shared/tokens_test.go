package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager(t *testing.T, ttl time.Duration) (*TokenManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenManager(client, ttl), mr
}

func TestTokenIssueResolve(t *testing.T) {
	tm, _ := newTestTokenManager(t, time.Hour)
	ctx := context.Background()

	id := Identity{UserID: 7, Username: "somchai", Role: RoleCashier, BranchCode: "PNH"}
	token, err := tm.Issue(ctx, id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tm.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, id, *got)
}

func TestTokenResolveUnknown(t *testing.T) {
	tm, _ := newTestTokenManager(t, time.Hour)

	_, err := tm.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = tm.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenExpiry(t *testing.T) {
	tm, mr := newTestTokenManager(t, time.Minute)
	ctx := context.Background()

	token, err := tm.Issue(ctx, Identity{UserID: 1, Username: "a", Role: RoleAdmin, BranchCode: "CMC"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = tm.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSlidingTTL(t *testing.T) {
	tm, mr := newTestTokenManager(t, time.Minute)
	ctx := context.Background()

	token, err := tm.Issue(ctx, Identity{UserID: 1, Username: "a", Role: RoleAdmin, BranchCode: "CMC"})
	require.NoError(t, err)

	// Activity just before expiry pushes the deadline out again.
	mr.FastForward(50 * time.Second)
	_, err = tm.Resolve(ctx, token)
	require.NoError(t, err)

	mr.FastForward(50 * time.Second)
	_, err = tm.Resolve(ctx, token)
	assert.NoError(t, err)
}

func TestTokenRevoke(t *testing.T) {
	tm, _ := newTestTokenManager(t, time.Hour)
	ctx := context.Background()

	token, err := tm.Issue(ctx, Identity{UserID: 1, Username: "a", Role: RoleAdmin, BranchCode: "CMC"})
	require.NoError(t, err)

	require.NoError(t, tm.Revoke(ctx, token))
	_, err = tm.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	assert.NoError(t, tm.Revoke(ctx, token))
}
