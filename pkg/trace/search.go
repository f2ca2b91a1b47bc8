package trace

import (
	"strings"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/emirpasic/gods/utils"

	"github.com/matzehuels/gridtrace/pkg/errors"
)

// SearchType selects the frontier discipline of a traversal.
type SearchType int

const (
	// DepthFirst pops the most recently pushed item (stack). It follows one
	// path to exhaustion before backtracking. Neighbours are pushed in the
	// order the queue next function returns them, so the last one is walked
	// first. [BranchTraversal] forks walk children in return order instead.
	DepthFirst SearchType = iota
	// BreadthFirst pops the oldest item (FIFO queue). Items are visited in
	// non-decreasing edge distance from the start items.
	BreadthFirst
	// PriorityFirst pops the smallest item according to the traversal's
	// Less function. Ties pop in push order.
	PriorityFirst
)

func (s SearchType) String() string {
	switch s {
	case DepthFirst:
		return "depth"
	case BreadthFirst:
		return "breadth"
	case PriorityFirst:
		return "priority"
	default:
		return "unknown"
	}
}

// ParseSearchType parses a search type name. It accepts "depth" or "dfs",
// "breadth" or "bfs", and "priority", case-insensitively.
func ParseSearchType(s string) (SearchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "depth", "dfs":
		return DepthFirst, nil
	case "breadth", "bfs":
		return BreadthFirst, nil
	case "priority":
		return PriorityFirst, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidSearch, "unknown search type %q (use depth, breadth or priority)", s)
}

// Frontier holds the items pending visitation.
type Frontier[T any] interface {
	Push(item T)
	// Pop removes and returns the next item. ok is false when the frontier
	// is empty.
	Pop() (item T, ok bool)
	Len() int
	Clear()
}

// NewFrontier returns an empty frontier for the given search type.
// less orders items for [PriorityFirst] and is ignored otherwise.
func NewFrontier[T any](search SearchType, less func(a, b T) bool) (Frontier[T], error) {
	switch search {
	case DepthFirst:
		return &stackFrontier[T]{stack: arraystack.New()}, nil
	case BreadthFirst:
		return &queueFrontier[T]{queue: linkedlistqueue.New()}, nil
	case PriorityFirst:
		if less == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "priority search requires a less function")
		}
		return newHeapFrontier(less), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidSearch, "unknown search type %d", int(search))
}

type stackFrontier[T any] struct {
	stack *arraystack.Stack
}

func (f *stackFrontier[T]) Push(item T) { f.stack.Push(item) }

func (f *stackFrontier[T]) Pop() (T, bool) {
	v, ok := f.stack.Pop()
	item, _ := v.(T)
	return item, ok
}

func (f *stackFrontier[T]) Len() int { return f.stack.Size() }
func (f *stackFrontier[T]) Clear()   { f.stack.Clear() }

type queueFrontier[T any] struct {
	queue *linkedlistqueue.Queue
}

func (f *queueFrontier[T]) Push(item T) { f.queue.Enqueue(item) }

func (f *queueFrontier[T]) Pop() (T, bool) {
	v, ok := f.queue.Dequeue()
	item, _ := v.(T)
	return item, ok
}

func (f *queueFrontier[T]) Len() int { return f.queue.Size() }
func (f *queueFrontier[T]) Clear()   { f.queue.Clear() }

// ranked tags heap entries with their push sequence so equal items pop in
// push order; the binary heap underneath is not stable.
type ranked[T any] struct {
	item T
	seq  uint64
}

type heapFrontier[T any] struct {
	queue *priorityqueue.Queue
	seq   uint64
}

func newHeapFrontier[T any](less func(a, b T) bool) *heapFrontier[T] {
	cmp := func(a, b any) int {
		x, _ := a.(ranked[T])
		y, _ := b.(ranked[T])
		switch {
		case less(x.item, y.item):
			return -1
		case less(y.item, x.item):
			return 1
		}
		return utils.UInt64Comparator(x.seq, y.seq)
	}
	return &heapFrontier[T]{queue: priorityqueue.NewWith(cmp)}
}

func (f *heapFrontier[T]) Push(item T) {
	f.queue.Enqueue(ranked[T]{item: item, seq: f.seq})
	f.seq++
}

func (f *heapFrontier[T]) Pop() (T, bool) {
	v, ok := f.queue.Dequeue()
	r, _ := v.(ranked[T])
	return r.item, ok
}

func (f *heapFrontier[T]) Len() int { return f.queue.Size() }

func (f *heapFrontier[T]) Clear() {
	f.queue.Clear()
	f.seq = 0
}
