// Package projection is a client-side read cache that can show predicted
// results of in-flight writes. Predictions sit on top of the last value the
// server confirmed; they are never merged into it.
package projection

import "sync"

// Cache maps keys to the last authoritative value plus any pending
// predictions for that key.
type Cache[K comparable, V any] struct {
	mu     sync.Mutex
	seq    uint64
	values map[K]V
	layers map[K][]layer[V]
}

type layer[V any] struct {
	id    uint64
	apply func(V) V
}

// Pending is one in-flight prediction. Exactly one of Confirm or Discard
// should be called once the write settles; later calls are no-ops.
type Pending[K comparable, V any] struct {
	cache *Cache[K, V]
	key   K
	id    uint64
	once  sync.Once
}

func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{values: map[K]V{}, layers: map[K][]layer[V]{}}
}

// Put stores an authoritative value read from the server. Pending
// predictions for key stay layered on top of it.
func (c *Cache[K, V]) Put(key K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = v
}

// Get returns the projected value: the stored value with every pending
// prediction applied in the order they were made.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return v, false
	}
	for _, l := range c.layers[key] {
		v = l.apply(v)
	}
	return v, true
}

// Authoritative returns the stored value without predictions.
func (c *Cache[K, V]) Authoritative(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

// Forget drops key and its predictions.
func (c *Cache[K, V]) Forget(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	delete(c.layers, key)
}

// Predict layers apply over key until the returned handle settles. apply
// receives a copy of the current projected value and must not retain it.
func (c *Cache[K, V]) Predict(key K, apply func(V) V) *Pending[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.layers[key] = append(c.layers[key], layer[V]{id: c.seq, apply: apply})
	return &Pending[K, V]{cache: c, key: key, id: c.seq}
}

// PendingCount reports how many predictions are layered over key.
func (c *Cache[K, V]) PendingCount(key K) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.layers[key])
}

// Confirm replaces the stored value with the server's result and removes
// this prediction.
func (p *Pending[K, V]) Confirm(v V) {
	p.once.Do(func() {
		c := p.cache
		c.mu.Lock()
		defer c.mu.Unlock()
		c.values[p.key] = v
		c.drop(p.key, p.id)
	})
}

// Discard removes this prediction and leaves the stored value alone.
func (p *Pending[K, V]) Discard() {
	p.once.Do(func() {
		c := p.cache
		c.mu.Lock()
		defer c.mu.Unlock()
		c.drop(p.key, p.id)
	})
}

func (c *Cache[K, V]) drop(key K, id uint64) {
	ls := c.layers[key]
	for i, l := range ls {
		if l.id == id {
			ls = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(ls) == 0 {
		delete(c.layers, key)
		return
	}
	c.layers[key] = ls
}
