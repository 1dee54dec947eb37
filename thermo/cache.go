package thermo

import (
	"container/list"
	"fmt"
	"sync"
)

// Key identifies one cached ThermoRecord: a canonical complex-sequence hash
// (see sequence.Complex.Hash) paired with the decomposition depth it was
// computed at.
type Key struct {
	ComplexHash string
	Depth       int
}

type cacheEntry struct {
	key      Key
	record   ThermoRecord
	refCount int
}

// Cache is an LRU cache of ThermoRecords, bounded by an aggregate byte
// budget and safe for concurrent readers. Grounded on fold.FoldContext's V/W
// memo tables, generalized from one flat per-sequence table to a
// cross-sequence LRU: where the teacher allocates V/W once per fold() call
// and lets them fall out of scope, ThermoCache is shared across many
// complexes and decomposition nodes and must actively evict.
type Cache struct {
	mu        sync.RWMutex
	budget    int64
	used      int64
	entries   map[Key]*list.Element // value is *cacheEntry
	evictList *list.List
}

// NewCache creates a Cache with the given aggregate byte budget.
func NewCache(budgetBytes int64) *Cache {
	return &Cache{
		budget:    budgetBytes,
		entries:   make(map[Key]*list.Element),
		evictList: list.New(),
	}
}

// Get retrieves a record, marking it most-recently-used. The returned
// release function must be called when the caller is done reading the
// record, so the cache knows it is safe to evict.
func (c *Cache) Get(key Key) (rec ThermoRecord, release func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, found := c.entries[key]
	if !found {
		return ThermoRecord{}, func() {}, false
	}
	c.evictList.MoveToFront(elem)
	entry := elem.Value.(*cacheEntry)
	entry.refCount++
	release = func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		entry.refCount--
	}
	return entry.record, release, true
}

// Put inserts or overwrites a record and evicts least-recently-used entries
// (skipping any still referenced by an unreleased Get) until usage is back
// under budget.
func (c *Cache) Put(key Key, rec ThermoRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.entries[key]; found {
		entry := elem.Value.(*cacheEntry)
		c.used -= entry.record.byteSize()
		entry.record = rec
		c.used += rec.byteSize()
		c.evictList.MoveToFront(elem)
	} else {
		entry := &cacheEntry{key: key, record: rec}
		elem := c.evictList.PushFront(entry)
		c.entries[key] = elem
		c.used += rec.byteSize()
	}
	c.evict()
}

func (c *Cache) evict() {
	for c.used > c.budget {
		elem := c.evictList.Back()
		if elem == nil {
			return
		}
		// walk backward past any referenced entries rather than blocking
		for elem != nil {
			entry := elem.Value.(*cacheEntry)
			if entry.refCount == 0 {
				break
			}
			elem = elem.Prev()
		}
		if elem == nil {
			return // every remaining entry is referenced; budget temporarily exceeded
		}
		entry := elem.Value.(*cacheEntry)
		c.evictList.Remove(elem)
		delete(c.entries, entry.key)
		c.used -= entry.record.byteSize()
	}
}

// Clear empties the cache unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*list.Element)
	c.evictList.Init()
	c.used = 0
}

// Len returns the number of currently cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Used returns the current estimated byte usage.
func (c *Cache) Used() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.used
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.ComplexHash, k.Depth)
}
