// Package store provides the in-memory keyed collections backing the
// simulated services. Nothing is persisted; a process restart loses all
// data.
package store

import (
	"sync"

	"bizsim/internal/apperr"
)

// Identifiable is implemented by stored entities. WithID returns a copy
// of the entity with the assigned ID set.
type Identifiable[T any] interface {
	WithID(id int) T
}

// Collection is a keyed in-memory collection with sequential IDs and
// insertion-order iteration. IDs start at 1 and are never reused while
// the process runs, including across Clear, so records created in
// different tests can never collide.
type Collection[T Identifiable[T]] struct {
	mu     sync.RWMutex
	entity string
	items  map[int]T
	order  []int
	nextID int
}

// NewCollection creates an empty collection. The entity name is used in
// error messages.
func NewCollection[T Identifiable[T]](entity string) *Collection[T] {
	return &Collection[T]{
		entity: entity,
		items:  make(map[int]T),
		nextID: 1,
	}
}

// Create assigns the next ID to v and stores it, returning the stored copy.
func (c *Collection[T]) Create(v T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	stored := v.WithID(id)
	c.items[id] = stored
	c.order = append(c.order, id)
	return stored
}

func (c *Collection[T]) Get(id int) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.items[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(c.entity, id)
	}
	return v, nil
}

// List returns all records in insertion order.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Update replaces the record stored under id.
func (c *Collection[T]) Update(id int, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return apperr.NotFound(c.entity, id)
	}
	c.items[id] = v
	return nil
}

func (c *Collection[T]) Delete(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return apperr.NotFound(c.entity, id)
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes every record. The ID counter keeps counting; cleared IDs
// are never handed out again.
func (c *Collection[T]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.items)
	c.items = make(map[int]T)
	c.order = nil
	return n
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
