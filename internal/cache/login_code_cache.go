package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// LoginCode is a pending magic-link login.
type LoginCode struct {
	Email     string    `json:"email"`
	CitizenID int       `json:"citizenId"`
	CodeHash  string    `json:"codeHash"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// LoginCodeCache stores pending logins.
type LoginCodeCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewLoginCodeCache creates a new LoginCodeCache whose entries live for ttl.
func NewLoginCodeCache(redis *RedisClient, ttl time.Duration) *LoginCodeCache {
	return &LoginCodeCache{redis: redis, ttl: ttl}
}

// TTL is how long a login code stays valid.
func (c *LoginCodeCache) TTL() time.Duration {
	return c.ttl
}

func (c *LoginCodeCache) keyByEmail(email string) string {
	return fmt.Sprintf("login:email:%s", strings.ToLower(email))
}

func (c *LoginCodeCache) keyByToken(token string) string {
	return fmt.Sprintf("login:token:%s", token)
}

func (c *LoginCodeCache) keyAttempts(email string) string {
	return fmt.Sprintf("login:attempts:%s", strings.ToLower(email))
}

// Set stores a pending login under two keys.
// Primary key: login:email:{email}
// Secondary key: login:token:{token} -> email
func (c *LoginCodeCache) Set(ctx context.Context, data *LoginCode) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal login code: %w", err)
	}

	if err := c.redis.Set(ctx, c.keyByEmail(data.Email), string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set primary key: %w", err)
	}
	if err := c.redis.Set(ctx, c.keyByToken(data.Token), strings.ToLower(data.Email), c.ttl); err != nil {
		return fmt.Errorf("failed to set token key: %w", err)
	}
	return nil
}

// GetByEmail returns the pending login for email.
func (c *LoginCodeCache) GetByEmail(ctx context.Context, email string) (*LoginCode, error) {
	jsonData, err := c.redis.Get(ctx, c.keyByEmail(email))
	if err != nil {
		return nil, err
	}

	var data LoginCode
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login code: %w", err)
	}
	return &data, nil
}

// GetByToken resolves a magic-link token to its pending login. A token
// replaced by a newer login for the same email is rejected.
func (c *LoginCodeCache) GetByToken(ctx context.Context, token string) (*LoginCode, error) {
	email, err := c.redis.Get(ctx, c.keyByToken(token))
	if err != nil {
		return nil, err
	}

	data, err := c.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if data.Token != token {
		return nil, ErrMiss
	}
	return data, nil
}

// RecordAttempt counts a failed verification and returns the running total
// for the lifetime of the code.
func (c *LoginCodeCache) RecordAttempt(ctx context.Context, email string) (int64, error) {
	return c.redis.Incr(ctx, c.keyAttempts(email), c.ttl)
}

// Delete removes the pending login and its attempt counter.
func (c *LoginCodeCache) Delete(ctx context.Context, data *LoginCode) error {
	return c.redis.Delete(ctx, c.keyByEmail(data.Email), c.keyByToken(data.Token), c.keyAttempts(data.Email))
}

// IsMiss reports whether err means the key does not exist or expired.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}
