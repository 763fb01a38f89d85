package defs

import (
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultCacheSize bounds each of the three lookup caches.
const defaultCacheSize = 512

// CachedStore wraps a Store with per-key LRU caches. Definitions are
// immutable once loaded, so cached values are returned to every caller
// without copying. Concurrent first access of the same key performs the
// underlying lookup once; other callers wait for it, so nobody observes a
// partially populated entry.
type CachedStore struct {
	inner Store

	segments *lru.Cache[string, *SegmentSchema]
	tables   *lru.Cache[int, *TableDefinition]
	events   *lru.Cache[string, *TriggerEvent]

	mu       sync.Mutex
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	val  any
	err  error
}

// NewCachedStore wraps inner with caches of the given size per definition
// kind. size <= 0 uses a default.
func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	segments, err := lru.New[string, *SegmentSchema](size)
	if err != nil {
		return nil, err
	}
	tables, err := lru.New[int, *TableDefinition](size)
	if err != nil {
		return nil, err
	}
	events, err := lru.New[string, *TriggerEvent](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{
		inner:    inner,
		segments: segments,
		tables:   tables,
		events:   events,
		inflight: make(map[string]*call),
	}, nil
}

// do collapses concurrent lookups of the same key into one call to fn.
func (c *CachedStore) do(key string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-cl.done
		return cl.val, cl.err
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	cl.val, cl.err = fn()
	close(cl.done)

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	return cl.val, cl.err
}

// Segment implements Store.
func (c *CachedStore) Segment(code string) (*SegmentSchema, error) {
	key := strings.ToUpper(code)
	if seg, ok := c.segments.Get(key); ok {
		return seg, nil
	}
	v, err := c.do("seg:"+key, func() (any, error) {
		if seg, ok := c.segments.Get(key); ok {
			return seg, nil
		}
		seg, err := c.inner.Segment(code)
		if err != nil {
			return nil, err
		}
		c.segments.Add(key, seg)
		return seg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SegmentSchema), nil
}

// Table implements Store.
func (c *CachedStore) Table(id int) (*TableDefinition, error) {
	if t, ok := c.tables.Get(id); ok {
		return t, nil
	}
	v, err := c.do("tbl:"+strconv.Itoa(id), func() (any, error) {
		if t, ok := c.tables.Get(id); ok {
			return t, nil
		}
		t, err := c.inner.Table(id)
		if err != nil {
			return nil, err
		}
		c.tables.Add(id, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TableDefinition), nil
}

// TriggerEvent implements Store.
func (c *CachedStore) TriggerEvent(code string) (*TriggerEvent, error) {
	key := NormalizeEventCode(code)
	if ev, ok := c.events.Get(key); ok {
		return ev, nil
	}
	v, err := c.do("ev:"+key, func() (any, error) {
		if ev, ok := c.events.Get(key); ok {
			return ev, nil
		}
		ev, err := c.inner.TriggerEvent(code)
		if err != nil {
			return nil, err
		}
		c.events.Add(key, ev)
		return ev, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TriggerEvent), nil
}
