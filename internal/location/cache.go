package location

import (
	"container/list"
	"sync"
)

// nameCache is a small thread-safe LRU of resolved names. A zero or negative size
// disables caching.
type nameCache struct {
	maxEntries int
	mu         sync.Mutex
	ll         *list.List
	entries    map[string]*list.Element
}

type cacheEntry struct {
	key  string
	name Name
}

func newNameCache(maxEntries int) *nameCache {
	return &nameCache{
		maxEntries: maxEntries,
		ll:         list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *nameCache) get(key string) (Name, bool) {
	if c.maxEntries <= 0 {
		return Name{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return Name{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).name, true
}

func (c *nameCache) put(key string, name Name) {
	if c.maxEntries <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).name = name
		c.ll.MoveToFront(el)
		return
	}
	c.entries[key] = c.ll.PushFront(&cacheEntry{key: key, name: name})

	if c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *nameCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
