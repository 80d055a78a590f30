package shared

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenManager issues and resolves opaque bearer tokens backed by Redis. The token
// value itself carries no claims; the identity lives server side under the token
// key and disappears when the TTL lapses or the token is revoked.
type TokenManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(client *redis.Client, ttl time.Duration) *TokenManager {
	return &TokenManager{client: client, ttl: ttl}
}

// Issue stores the identity and returns a fresh bearer token for it.
func (tm *TokenManager) Issue(ctx context.Context, id Identity) (string, error) {
	payload, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	token := tm.generateToken()
	if err := tm.client.Set(ctx, tm.redisKey(token), payload, tm.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve looks up the identity for a bearer token, refreshing its TTL.
func (tm *TokenManager) Resolve(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrTokenExpired
	}
	payload, err := tm.client.Get(ctx, tm.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}
	var id Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return nil, err
	}
	// Sliding expiry: activity keeps a shift's token alive.
	_ = tm.client.Expire(ctx, tm.redisKey(token), tm.ttl).Err()
	return &id, nil
}

// Revoke deletes a token, ending its session.
func (tm *TokenManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	err := tm.client.Del(ctx, tm.redisKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

// TTL exposes the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

func (tm *TokenManager) redisKey(token string) string {
	return "token:" + token
}

func (tm *TokenManager) generateToken() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
