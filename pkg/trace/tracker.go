package trace

import "sync"

// Tracker records which items a traversal has visited.
//
// Visit is the test-and-set at the heart of the engine: it returns true only
// the first time an item is marked, and false for every later call until
// Reset. Implementations used with parallel branch traversals must make
// Visit atomic.
type Tracker[T any] interface {
	HasVisited(item T) bool
	Visit(item T) bool
	Reset()
	// Visited returns the visited items in visit order.
	Visited() []T
	Len() int
}

// KeyedTracker is a [Tracker] that identifies items by a caller-supplied key.
// It is safe for concurrent use.
type KeyedTracker[T any, K comparable] struct {
	mu    sync.Mutex
	key   func(T) K
	order map[K]int
	items []T
}

var _ Tracker[int] = (*KeyedTracker[int, int])(nil)

// NewKeyedTracker creates a tracker that treats two items as the same when
// key returns the same value for both.
func NewKeyedTracker[T any, K comparable](key func(T) K) *KeyedTracker[T, K] {
	return &KeyedTracker[T, K]{
		key:   key,
		order: make(map[K]int),
	}
}

// NewTracker creates a tracker keyed by the items themselves.
func NewTracker[T comparable]() *KeyedTracker[T, T] {
	return NewKeyedTracker(func(item T) T { return item })
}

// NewStepTracker creates a tracker for equipment traces. Steps are keyed by
// equipment ID, so a piece of equipment is visited once no matter which edge
// it was reached through.
func NewStepTracker() *KeyedTracker[Step, string] {
	return NewKeyedTracker(func(s Step) string { return equipmentID(s.Equipment) })
}

func (t *KeyedTracker[T, K]) HasVisited(item T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.order[t.key(item)]
	return ok
}

func (t *KeyedTracker[T, K]) Visit(item T) bool {
	k := t.key(item)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.order[k]; ok {
		return false
	}
	t.order[k] = len(t.items)
	t.items = append(t.items, item)
	return true
}

func (t *KeyedTracker[T, K]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.order)
	t.items = nil
}

func (t *KeyedTracker[T, K]) Visited() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

func (t *KeyedTracker[T, K]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Order returns the 0-based position at which item was first visited.
func (t *KeyedTracker[T, K]) Order(item T) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.order[t.key(item)]
	return i, ok
}
