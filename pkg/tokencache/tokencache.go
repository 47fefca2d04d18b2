// Package tokencache keeps the single current refresh token for each signed-in
// member in process memory. Entries die on logout, when their TTL lapses, or
// when the capacity bound pushes out the least-recently-used entry.
package tokencache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCapacity bounds the cache so a flood of logins cannot grow memory
// without limit.
const DefaultCapacity = 1000

// Cache maps a member's email to their current refresh token. A second login
// for the same email overwrites the previous entry, which is the same thing
// as invalidating it: no history is kept. All methods are safe for concurrent
// use; callers never need external locking.
type Cache struct {
	entries *expirable.LRU[string, string]
}

// New creates a cache holding at most capacity entries, each expiring ttl
// after it was written. capacity <= 0 falls back to DefaultCapacity.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{entries: expirable.NewLRU[string, string](capacity, nil, ttl)}
}

// Save stores or overwrites the refresh token for email. Concurrent saves for
// the same email race; last write wins and is what Get returns afterwards.
func (c *Cache) Save(email, refreshToken string) {
	c.entries.Add(email, refreshToken)
}

// Get returns the current refresh token for email, or ok=false when no live
// entry exists.
func (c *Cache) Get(email string) (string, bool) {
	return c.entries.Get(email)
}

// Delete removes the entry for email. Deleting an absent key is a no-op.
func (c *Cache) Delete(email string) {
	c.entries.Remove(email)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}
