// ABOUTME: Caching Authenticator wrapper with a TTL and size-bounded store
// ABOUTME: Avoids a directory lookup on every authenticated request

package auth

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// cacheEntry stores a resolved principal and its list element for eviction.
type cacheEntry struct {
	principal *Principal
	timestamp time.Time
	element   *list.Element
}

// CachingAuthenticator wraps an Authenticator with a short-lived cache of
// token -> principal resolutions. Entries are bounded by TTL and count;
// only successful authentications are cached, so failures always hit the
// underlying authenticator. The TTL bounds how long a deleted account's
// token keeps resolving, so keep it short relative to token lifetime.
type CachingAuthenticator struct {
	next Authenticator

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   *list.List // token keys in insertion order, oldest at front
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// NewCachingAuthenticator wraps next with a cache of the given TTL and
// maximum entry count. A background goroutine periodically removes expired
// entries; call Close to stop it.
func NewCachingAuthenticator(next Authenticator, ttl time.Duration, maxSize int) *CachingAuthenticator {
	c := &CachingAuthenticator{
		next:    next,
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// Authenticate resolves a token, consulting the cache first.
func (c *CachingAuthenticator) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if principal, ok := c.lookup(token); ok {
		return principal, nil
	}

	principal, err := c.next.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	c.store(token, principal)
	return principal, nil
}

// lookup returns a cached principal if present and not expired.
func (c *CachingAuthenticator) lookup(token string) (*Principal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[token]
	if !ok || time.Since(entry.timestamp) >= c.ttl {
		return nil, false
	}
	return entry.principal, true
}

// store records a resolution, evicting the oldest entry at capacity.
func (c *CachingAuthenticator) store(token string, principal *Principal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if entry, exists := c.entries[token]; exists {
		entry.principal = principal
		entry.timestamp = now
		c.order.MoveToBack(entry.element)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushBack(token)
	c.entries[token] = &cacheEntry{
		principal: principal,
		timestamp: now,
		element:   elem,
	}
}

// evictOldest removes the oldest entry. Must be called with mu held.
func (c *CachingAuthenticator) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}

	token, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, token)
}

// cleanup periodically removes expired entries until Close is called.
func (c *CachingAuthenticator) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCleanup()
		case <-c.done:
			return
		}
	}
}

// runCleanup removes all expired entries.
func (c *CachingAuthenticator) runCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for token, entry := range c.entries {
		if now.Sub(entry.timestamp) >= c.ttl {
			c.order.Remove(entry.element)
			delete(c.entries, token)
		}
	}
}

// Close stops the background cleanup goroutine. Safe to call multiple times.
func (c *CachingAuthenticator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}

var _ Authenticator = (*CachingAuthenticator)(nil)
