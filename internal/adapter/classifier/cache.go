package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/quake-analytics-service/internal/domain"
	"github.com/couchcryptid/quake-analytics-service/internal/observability"
)

// CachedClassifier wraps a Classifier with an in-memory LRU cache. The remote
// model is deterministic per feature vector, so identical submissions from
// the prediction form need not leave the process twice.
type CachedClassifier struct {
	inner   domain.Classifier
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedClassifier creates a cache decorator around a classifier.
func NewCachedClassifier(inner domain.Classifier, maxEntries int, metrics *observability.Metrics) *CachedClassifier {
	return &CachedClassifier{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedClassifier) Predict(ctx context.Context, features domain.Features) (domain.Prediction, error) {
	key := featureKey(features)
	if result, ok := c.cache.get(key); ok {
		c.metrics.PredictCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.PredictCache.WithLabelValues("miss").Inc()
	result, err := c.inner.Predict(ctx, features)
	if err != nil {
		return result, err
	}
	// Only cache non-empty labels so degenerate responses can be retried.
	if result.Label != "" {
		c.cache.put(key, result)
	}
	return result, nil
}

func featureKey(f domain.Features) string {
	return fmt.Sprintf("%.4f|%.4f|%.4f|%.4f|%.4f|%s",
		f.Magnitude, f.Depth, f.Latitude, f.Longitude, f.Significance, f.MagnitudeType)
}

// lruCache is a simple thread-safe LRU cache for predictions.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.Prediction
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Prediction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Prediction{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Prediction) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *lruCache) pushFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.head == e {
		c.head = e.next
	}
	if c.tail == e {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (c *lruCache) evictOldest() {
	oldest := c.tail
	if oldest == nil {
		return
	}
	c.unlink(oldest)
	delete(c.entries, oldest.key)
}
