package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const signupCooldownPrefix = "signup:cooldown:"

// SignupCooldown throttles repeated confirmation-code emails per address
// using a TTL'd redis key.
type SignupCooldown struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSignupCooldown(client *redis.Client, ttl time.Duration) *SignupCooldown {
	return &SignupCooldown{client: client, ttl: ttl}
}

// Allow reports whether a confirmation email may be sent to the address.
// The first call within the window claims the key; later calls are denied
// until it expires.
func (c *SignupCooldown) Allow(ctx context.Context, email string) (bool, error) {
	key := signupCooldownPrefix + strings.ToLower(email)
	ok, err := c.client.SetNX(ctx, key, 1, c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("signup cooldown: %w", err)
	}
	return ok, nil
}
