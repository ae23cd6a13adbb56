// Package cache implements the in-memory, per-owner post cache that sits in
// front of the persistent store. It is a process-local, capacity-bounded,
// time-expiring view: keys are owner ids, values are the owner's posts in
// insertion order.
//
// Population discipline (read-through):
//   - Only a full list read fills an entry (Put). Writes never seed the
//     cache; Append and Remove patch an entry only when it is already warm.
//     This keeps a cold cache from ever holding a partial view created
//     concurrently with a read.
//   - Absence of an entry means "unknown", not "empty". Owners with zero
//     posts are represented by absence.
//
// Expiry is measured from the last Put of a key; in-place patches do not
// reset the clock, so a warm entry self-heals to the store within one TTL
// even if a patch was lost.
//
// All operations take a single mutex over the whole cache. Entries are
// small (a slice of posts per owner) and operations are short, so finer
// locking has not been worth the complexity.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/postboard/go-post-backend/internal/domain"
)

var (
	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postcache_hits_total",
		Help: "Number of cache lookups served without touching the store.",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postcache_misses_total",
		Help: "Number of cache lookups that fell through (absent, evicted, or expired).",
	})
	cacheEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "postcache_evictions_total",
		Help: "Number of owner entries evicted under capacity pressure.",
	})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, cacheEvictions)
}

// entry is one owner's cached post list plus bookkeeping.
type entry struct {
	ownerID   string
	posts     []domain.Post
	expiresAt time.Time
	elem      *list.Element // position in the recency list
}

// PostCache is a capacity-bounded, TTL-expiring map from owner id to that
// owner's posts. Safe for concurrent use.
type PostCache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	recency  *list.List // front = most recently used
	capacity int
	ttl      time.Duration

	// Now returns the current time; defaults to time.Now. Tests override it.
	Now func() time.Time
}

// New constructs a PostCache holding at most capacity owner entries, each
// fresh for ttl after its last Put. capacity < 1 is coerced to 1.
func New(capacity int, ttl time.Duration) *PostCache {
	if capacity < 1 {
		capacity = 1
	}
	return &PostCache{
		entries:  make(map[string]*entry, capacity),
		recency:  list.New(),
		capacity: capacity,
		ttl:      ttl,
		Now:      time.Now,
	}
}

// Get returns a copy of the cached posts for ownerID and whether the entry
// was live. An absent, evicted, or expired entry is a miss; expired entries
// are dropped on the way out. A hit refreshes the entry's LRU recency but
// not its expiry.
func (c *PostCache) Get(ownerID string) ([]domain.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ownerID]
	if !ok {
		cacheMisses.Inc()
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.drop(e)
		cacheMisses.Inc()
		return nil, false
	}
	c.recency.MoveToFront(e.elem)
	cacheHits.Inc()

	out := make([]domain.Post, len(e.posts))
	copy(out, e.posts)
	return out, true
}

// Put overwrites or creates the entry for ownerID and resets its expiry
// clock. The slice is copied; the caller keeps ownership of posts. When the
// cache is full the least recently used entry is evicted first.
func (c *PostCache) Put(ownerID string, posts []domain.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp := make([]domain.Post, len(posts))
	copy(cp, posts)
	exp := c.now().Add(c.ttl)

	if e, ok := c.entries[ownerID]; ok {
		e.posts = cp
		e.expiresAt = exp
		c.recency.MoveToFront(e.elem)
		return
	}

	for len(c.entries) >= c.capacity {
		oldest := c.recency.Back()
		if oldest == nil {
			break
		}
		c.drop(oldest.Value.(*entry))
		cacheEvictions.Inc()
	}

	e := &entry{ownerID: ownerID, posts: cp, expiresAt: exp}
	e.elem = c.recency.PushFront(e)
	c.entries[ownerID] = e
}

// Append adds post to the end of an already-warm entry. It is a no-op when
// the entry is absent or expired: writes patch the cache, they never
// populate it. The expiry clock is left untouched.
func (c *PostCache) Append(ownerID string, post domain.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ownerID]
	if !ok {
		return
	}
	if !c.now().Before(e.expiresAt) {
		c.drop(e)
		return
	}
	e.posts = append(e.posts, post)
	c.recency.MoveToFront(e.elem)
}

// Remove deletes the post with postID from an already-warm entry, in place.
// No-op when the entry is absent, expired, or does not contain the post.
func (c *PostCache) Remove(ownerID, postID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ownerID]
	if !ok {
		return
	}
	if !c.now().Before(e.expiresAt) {
		c.drop(e)
		return
	}
	for i := range e.posts {
		if e.posts[i].ID == postID {
			e.posts = append(e.posts[:i], e.posts[i+1:]...)
			break
		}
	}
	c.recency.MoveToFront(e.elem)
}

// Drop discards the whole entry for ownerID, if present. Used when an
// account is deleted.
func (c *PostCache) Drop(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[ownerID]; ok {
		c.drop(e)
	}
}

// Len reports the number of owner entries currently held, including entries
// that have expired but not yet been collected.
func (c *PostCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// drop removes e from both the map and the recency list. Caller holds mu.
func (c *PostCache) drop(e *entry) {
	delete(c.entries, e.ownerID)
	c.recency.Remove(e.elem)
}

func (c *PostCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
