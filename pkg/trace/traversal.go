package trace

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gridtrace/pkg/errors"
	"github.com/matzehuels/gridtrace/pkg/observability"
)

// StopCondition reports whether a traversal should stop at item.
// Every registered condition is evaluated for every visited item; the item
// stops when any of them returns true.
type StopCondition[T any] func(item T) bool

// StepAction runs for every visited item. stopping reports whether a stop
// condition fired for the item.
type StepAction[T any] func(item T, stopping bool)

// BranchAction runs when a branch traversal forks at parent into one child
// branch per item in children.
type BranchAction[T any] func(parent T, children []T)

// QueueNext returns the neighbours of item to enqueue. It is the only way a
// traversal learns about the graph it walks.
type QueueNext[T any] func(ctx context.Context, item T) ([]T, error)

// Options configure a traversal.
type Options[T any] struct {
	// Search selects the frontier discipline. The zero value is DepthFirst.
	Search SearchType
	// Less orders items for PriorityFirst. Required for PriorityFirst.
	Less func(a, b T) bool
	// Tracker records visited items. When nil, items are keyed by their own
	// value, which requires T to be comparable.
	Tracker Tracker[T]
	// Name labels log lines and metrics. Defaults to "trace".
	Name string
	// IgnoreStopOnStart skips stop conditions for start items. Step actions
	// still run for them.
	IgnoreStopOnStart bool
	// ContinueOnStop makes a stop prune only the stopping item's expansion
	// instead of halting the run.
	ContinueOnStop bool
}

// Traverser is the behaviour shared by [Traversal] and [BranchTraversal].
type Traverser[T any] interface {
	AddStart(items ...T) error
	AddStopCondition(cond StopCondition[T])
	AddStepAction(action StepAction[T])
	AddBranchAction(action BranchAction[T])
	Run(ctx context.Context) error
	Reset() error
	Tracker() Tracker[T]
	State() RunState
}

var (
	_ Traverser[int] = (*Traversal[int])(nil)
	_ Traverser[int] = (*BranchTraversal[int])(nil)
)

// entry is a frontier slot. start marks items added through AddStart.
type entry[T any] struct {
	item  T
	start bool
}

type callbacks[T any] struct {
	stops    []StopCondition[T]
	steps    []StepAction[T]
	branches []BranchAction[T]
}

func (c callbacks[T]) stopping(item T) bool {
	stop := false
	for _, cond := range c.stops {
		if cond(item) {
			stop = true
		}
	}
	return stop
}

func (c callbacks[T]) step(item T, stopping bool) {
	for _, action := range c.steps {
		action(item, stopping)
	}
}

func (c callbacks[T]) branch(parent T, children []T) {
	for _, action := range c.branches {
		action(parent, children)
	}
}

// base holds everything common to both traversal kinds: configuration,
// callbacks, the tracker, the seed frontier and the run state.
type base[T any] struct {
	name              string
	search            SearchType
	less              func(a, b T) bool
	next              QueueNext[T]
	tracker           Tracker[T]
	ignoreStopOnStart bool
	continueOnStop    bool

	mu       sync.Mutex // guards the fields below
	cb       callbacks[T]
	frontier Frontier[entry[T]]
	state    RunState
}

func newBase[T any](next QueueNext[T], opts Options[T]) (*base[T], error) {
	if next == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "queue next function is required")
	}
	b := &base[T]{
		name:              opts.Name,
		search:            opts.Search,
		less:              opts.Less,
		next:              next,
		tracker:           opts.Tracker,
		ignoreStopOnStart: opts.IgnoreStopOnStart,
		continueOnStop:    opts.ContinueOnStop,
	}
	if b.name == "" {
		b.name = "trace"
	}
	if b.tracker == nil {
		if !reflect.TypeFor[T]().Comparable() {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s items are not comparable; a tracker is required", reflect.TypeFor[T]())
		}
		b.tracker = NewKeyedTracker(func(item T) any { return item })
	}
	f, err := b.newFrontier()
	if err != nil {
		return nil, err
	}
	b.frontier = f
	return b, nil
}

func (b *base[T]) newFrontier() (Frontier[entry[T]], error) {
	var less func(x, y entry[T]) bool
	if b.less != nil {
		less = func(x, y entry[T]) bool { return b.less(x.item, y.item) }
	}
	return NewFrontier(b.search, less)
}

// AddStart seeds the traversal with items. Start items pushed onto a
// traversal that already ran are walked with the existing tracker, so
// anything visited before is skipped; call Reset first to start over.
func (b *base[T]) AddStart(items ...T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Running {
		return ErrReentrant
	}
	for _, item := range items {
		b.frontier.Push(entry[T]{item: item, start: true})
	}
	if len(items) > 0 {
		b.state = Seeded
	}
	return nil
}

// AddStopCondition registers a stop condition. Conditions registered while
// a run is in progress apply from the next run.
func (b *base[T]) AddStopCondition(cond StopCondition[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cb.stops = append(b.cb.stops, cond)
}

// AddStepAction registers an action run for every visited item.
func (b *base[T]) AddStepAction(action StepAction[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cb.steps = append(b.cb.steps, action)
}

// AddBranchAction registers an action run when a branch traversal forks.
// Plain traversals never fork.
func (b *base[T]) AddBranchAction(action BranchAction[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cb.branches = append(b.cb.branches, action)
}

// Reset clears the tracker and the frontier, start items included, and
// returns the traversal to Created. Registered callbacks are kept.
func (b *base[T]) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Running {
		return ErrReentrant
	}
	b.tracker.Reset()
	b.frontier.Clear()
	b.state = Created
	return nil
}

// Tracker returns the tracker shared by every branch of the traversal.
func (b *base[T]) Tracker() Tracker[T] { return b.tracker }

// State returns the current run state.
func (b *base[T]) State() RunState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// begin moves the traversal to Running and snapshots the callbacks.
func (b *base[T]) begin() (callbacks[T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Running {
		return callbacks[T]{}, ErrReentrant
	}
	if b.frontier.Len() == 0 {
		return callbacks[T]{}, ErrNotSeeded
	}
	b.state = Running
	return callbacks[T]{
		stops:    append([]StopCondition[T](nil), b.cb.stops...),
		steps:    append([]StepAction[T](nil), b.cb.steps...),
		branches: append([]BranchAction[T](nil), b.cb.branches...),
	}, nil
}

type run struct {
	id      string
	started time.Time
	logger  *log.Logger
}

func (b *base[T]) startRun(ctx context.Context, pending int) (context.Context, run) {
	r := run{id: uuid.NewString(), started: time.Now()}
	r.logger = LoggerFromContext(ctx).With("trace", b.name, "run", r.id)
	r.logger.Debug("trace started", "search", b.search, "pending", pending)
	observability.Trace().OnTraceStart(ctx, b.name, b.search.String())
	return WithLogger(ctx, r.logger), r
}

func (b *base[T]) endRun(ctx context.Context, r run, stopped bool, err error) error {
	if err != nil {
		err = wrapRunError(b.name, err)
	}

	b.mu.Lock()
	switch {
	case err != nil:
		b.state = Failed
	case stopped:
		b.state = Stopped
	default:
		b.state = Completed
	}
	state := b.state
	b.mu.Unlock()

	visited := b.tracker.Len()
	duration := time.Since(r.started)
	observability.Trace().OnTraceComplete(ctx, b.name, visited, duration, err)
	if err != nil {
		r.logger.Debug("trace failed", "visited", visited, "duration", duration, "err", err)
		return err
	}
	r.logger.Debug("trace finished", "state", state, "visited", visited, "duration", duration)
	return nil
}

// expand visits e and returns its unvisited neighbours. halt reports that a
// stop condition fired and the caller must stop walking. Items that were
// already visited yield nothing.
func (b *base[T]) expand(ctx context.Context, cb callbacks[T], e entry[T]) (next []T, halt bool, err error) {
	if !b.tracker.Visit(e.item) {
		return nil, false, nil
	}

	stopping := !(e.start && b.ignoreStopOnStart) && cb.stopping(e.item)
	cb.step(e.item, stopping)
	if stopping {
		return nil, !b.continueOnStop, nil
	}

	neighbours, err := b.next(ctx, e.item)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeNetworkModel, err, "queue next of %v", e.item)
	}
	for _, n := range neighbours {
		if !b.tracker.HasVisited(n) {
			next = append(next, n)
		}
	}
	return next, false, nil
}

// Traversal walks a graph from its start items using a single frontier.
type Traversal[T any] struct {
	*base[T]
}

// New creates a traversal that asks next for the neighbours of each visited
// item.
func New[T any](next QueueNext[T], opts Options[T]) (*Traversal[T], error) {
	b, err := newBase(next, opts)
	if err != nil {
		return nil, err
	}
	return &Traversal[T]{base: b}, nil
}

// Run walks the frontier until it is exhausted (Completed) or a stop
// condition halts it (Stopped). A stopped traversal keeps its frontier, and
// calling Run again resumes from it.
//
// Errors from the queue next function and context cancellation abort the
// run and leave it Failed, with the tracker holding what was visited so far.
func (t *Traversal[T]) Run(ctx context.Context) error {
	cb, err := t.begin()
	if err != nil {
		return err
	}
	ctx, r := t.startRun(ctx, t.Pending())
	stopped, err := t.drain(ctx, cb)
	return t.endRun(ctx, r, stopped, err)
}

func (t *Traversal[T]) drain(ctx context.Context, cb callbacks[T]) (stopped bool, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		t.mu.Lock()
		e, ok := t.frontier.Pop()
		t.mu.Unlock()
		if !ok {
			return false, nil
		}
		next, halt, err := t.expand(ctx, cb, e)
		if err != nil {
			return false, err
		}
		if halt {
			return true, nil
		}
		t.mu.Lock()
		for _, n := range next {
			t.frontier.Push(entry[T]{item: n})
		}
		t.mu.Unlock()
	}
}

// Pending returns the number of items left in the frontier. It is safe to
// call while the traversal runs, from a step action for example.
func (t *Traversal[T]) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frontier.Len()
}
