// Package ratelimit provides Redis-backed per-user throttling using the
// INCR + EXPIRE fixed-window algorithm. The bot applies it to relayed
// messages and to search commands so a single user cannot flood a partner
// or hammer the matcher. Redis outages fail open: throttling is a courtesy,
// not a correctness requirement.
package ratelimit

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rule defines a throttling policy: the Redis key prefix, the maximum number
// of actions allowed in the window, and the window duration.
type Rule struct {
	Key    string        // Redis key prefix (e.g. "rl:msg:", "rl:search:")
	Limit  int           // max count in the window
	Window time.Duration // time window
}

var (
	// RuleMessage allows 20 relayed messages per 10 seconds per user.
	RuleMessage = Rule{Key: "rl:msg:", Limit: 20, Window: 10 * time.Second}

	// RuleSearch allows 10 search/next attempts per minute per user.
	RuleSearch = Rule{Key: "rl:search:", Limit: 10, Window: 1 * time.Minute}
)

// Limiter performs rate limiting checks against Redis. A nil Limiter allows
// everything, so callers need no branching when throttling is disabled.
type Limiter struct {
	client *redis.Client
}

// NewLimiter creates a Limiter backed by the given Redis client.
func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Allow checks whether the user is within the rate limit defined by rule.
// It increments the counter in Redis and sets the expiry on first access.
//
// Returns true if the action is allowed, false if rate limited. On Redis
// errors the method fails open (returns true) so that a Redis outage does
// not block legitimate traffic.
func (l *Limiter) Allow(ctx context.Context, userID int64, rule Rule) bool {
	if l == nil || l.client == nil {
		return true
	}

	key := rule.Key + strconv.FormatInt(userID, 10)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("[ratelimit] redis INCR error key=%s: %v (failing open)", key, err)
		return true
	}

	// On the first increment, set the expiry to define the window boundary.
	if count == 1 {
		if err := l.client.Expire(ctx, key, rule.Window).Err(); err != nil {
			log.Printf("[ratelimit] redis EXPIRE error key=%s: %v (failing open)", key, err)
			// The key exists but has no TTL and would throttle the user
			// forever. Best effort: delete it.
			l.client.Del(ctx, key)
			return true
		}
	}

	return int(count) <= rule.Limit
}
