package spotify

import (
	"sync"
	"time"
)

// expiryMargin is subtracted from the lifetime the server reports so a token
// is never used in its last minute
const expiryMargin = 60 * time.Second

// TokenCache holds one access token with an explicit expiry. It is safe for
// concurrent use and is passed to the Client rather than kept as package state.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewTokenCache creates an empty cache using the wall clock
func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// Get returns the cached token if it has not expired
func (c *TokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || !c.now().Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// Set stores a token valid for lifetime (as reported by the server)
func (c *TokenCache) Set(token string, lifetime time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = c.now().Add(lifetime - expiryMargin)
}

// Invalidate forgets the cached token
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

// ExpiresAt returns when the cached token stops being served
func (c *TokenCache) ExpiresAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiresAt
}
