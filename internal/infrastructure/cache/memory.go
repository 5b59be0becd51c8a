// Package cache provides the evidence cache implementations: an
// in-memory LRU store for single-node deployments and tests, and a
// Redis-backed store for shared deployments.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nutrilens/v1/internal/domain/assessment"
)

// MemoryEvidenceCache is a thread-safe in-memory evidence store with
// TTL and LRU eviction. Expired entries read as absent; physical
// removal happens lazily on access or on eviction.
type MemoryEvidenceCache struct {
	items   map[string]*memoryItem
	lru     *lruList
	maxSize int
	mu      sync.RWMutex
}

// memoryItem is immutable once stored. Put swaps the map entry for a
// fresh item rather than mutating fields, so a reader holding the old
// pointer always sees one complete record.
type memoryItem struct {
	evidence  assessment.AdditiveEvidence
	expiresAt time.Time
	node      *lruNode
}

type lruList struct {
	head *lruNode
	tail *lruNode
	size int
}

type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

// NewMemoryEvidenceCache creates an in-memory cache bounded to maxSize
// entries.
func NewMemoryEvidenceCache(maxSize int) *MemoryEvidenceCache {
	if maxSize <= 0 {
		maxSize = 1000
	}

	lru := &lruList{head: &lruNode{}, tail: &lruNode{}}
	lru.head.next = lru.tail
	lru.tail.prev = lru.head

	return &MemoryEvidenceCache{
		items:   make(map[string]*memoryItem),
		lru:     lru,
		maxSize: maxSize,
	}
}

// Get implements outbound.EvidenceCache.
func (c *MemoryEvidenceCache) Get(_ context.Context, name string) (assessment.AdditiveEvidence, bool, error) {
	c.mu.RLock()
	item, exists := c.items[name]
	var ev assessment.AdditiveEvidence
	var expired bool
	if exists {
		// Copy while the lock is held; the pointer may go stale the
		// moment it drops.
		ev = item.evidence
		expired = time.Now().After(item.expiresAt)
	}
	c.mu.RUnlock()

	if !exists {
		return assessment.AdditiveEvidence{}, false, nil
	}

	if expired {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// refreshed the entry.
		if cur, ok := c.items[name]; ok && time.Now().After(cur.expiresAt) {
			c.remove(name, cur)
		}
		c.mu.Unlock()
		return assessment.AdditiveEvidence{}, false, nil
	}

	c.mu.Lock()
	// Touch the LRU node only if the key is still live; a concurrent
	// expiry or eviction may have unlinked it already.
	if cur, ok := c.items[name]; ok && cur.node == item.node {
		c.moveToFront(cur.node)
	}
	c.mu.Unlock()

	return ev, true, nil
}

// Put implements outbound.EvidenceCache.
func (c *MemoryEvidenceCache) Put(_ context.Context, name string, ev assessment.AdditiveEvidence, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	if existing, ok := c.items[name]; ok {
		// Swap the item wholesale; items are immutable once stored.
		c.items[name] = &memoryItem{evidence: ev, expiresAt: expiresAt, node: existing.node}
		c.moveToFront(existing.node)
		return nil
	}

	node := &lruNode{key: name}
	c.items[name] = &memoryItem{evidence: ev, expiresAt: expiresAt, node: node}
	c.pushFront(node)

	for c.lru.size > c.maxSize {
		oldest := c.lru.tail.prev
		if oldest == c.lru.head {
			break
		}
		c.remove(oldest.key, c.items[oldest.key])
	}
	return nil
}

// Len reports the current number of entries, expired ones included.
func (c *MemoryEvidenceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *MemoryEvidenceCache) remove(key string, item *memoryItem) {
	if item == nil {
		return
	}
	c.unlink(item.node)
	delete(c.items, key)
}

func (c *MemoryEvidenceCache) pushFront(node *lruNode) {
	node.prev = c.lru.head
	node.next = c.lru.head.next
	c.lru.head.next.prev = node
	c.lru.head.next = node
	c.lru.size++
}

func (c *MemoryEvidenceCache) unlink(node *lruNode) {
	if node == nil || node.prev == nil {
		return
	}
	node.prev.next = node.next
	node.next.prev = node.prev
	node.prev = nil
	node.next = nil
	c.lru.size--
}

func (c *MemoryEvidenceCache) moveToFront(node *lruNode) {
	if node == nil || c.lru.head.next == node {
		return
	}
	c.unlink(node)
	c.pushFront(node)
}
