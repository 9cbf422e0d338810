package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ipLimit       = 10
	ipWindow      = 15 * time.Minute
	emailCooldown = 2 * time.Minute
)

// Limiter tracks per-IP request counts and per-email cooldowns in Redis.
// It guards the password reset endpoint; Redis TTLs handle expiry.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// CheckIPRateLimit reports whether the IP has exceeded its request budget
// (10 requests per 15 minutes).
func (l *Limiter) CheckIPRateLimit(ctx context.Context, ip string) (bool, error) {
	count, err := l.client.Get(ctx, ipKey(ip)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get IP request count: %w", err)
	}

	return count >= ipLimit, nil
}

// RecordIPRequest increments the IP's request counter, starting the window on
// the first request.
func (l *Limiter) RecordIPRequest(ctx context.Context, ip string) error {
	key := ipKey(ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment IP request count: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, ipWindow).Err(); err != nil {
			return fmt.Errorf("failed to set window on IP request count: %w", err)
		}
	}

	return nil
}

// CheckEmailCooldown reports whether the address requested a reset within the
// cooldown window.
func (l *Limiter) CheckEmailCooldown(ctx context.Context, email string) (bool, error) {
	exists, err := l.client.Exists(ctx, emailKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check email cooldown: %w", err)
	}

	return exists > 0, nil
}

// SetEmailCooldown starts the 2-minute cooldown for the address.
func (l *Limiter) SetEmailCooldown(ctx context.Context, email string) error {
	err := l.client.Set(ctx, emailKey(email), "1", emailCooldown).Err()
	if err != nil {
		return fmt.Errorf("failed to set email cooldown: %w", err)
	}

	return nil
}

func ipKey(ip string) string {
	return fmt.Sprintf("reset_ip:%s", ip)
}

// emailKey hashes the address so raw emails never land in Redis keys.
func emailKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return fmt.Sprintf("reset_email:%s", hex.EncodeToString(sum[:]))
}
