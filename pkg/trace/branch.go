package trace

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gridtrace/pkg/observability"
)

// BranchOptions configure a branch traversal.
type BranchOptions[T any] struct {
	Options[T]
	// Parallel is the number of sibling branches run concurrently after a
	// fork. Values below 2 run branches one after another. Callbacks must
	// be safe for concurrent use when Parallel is above 1.
	Parallel int
}

// BranchTraversal walks independent downstream paths as separate branches.
//
// Every start item roots a branch of its own, walked in frontier order.
// Whenever an item has more than one unvisited neighbour the current branch
// forks: one child branch per neighbour, each seeded with that neighbour,
// each run to completion before the parent resumes its own frontier. A stop
// condition halts only the branch that hit it, so siblings keep going. All
// branches share one tracker, so paths that reconverge visit the shared
// equipment once.
type BranchTraversal[T any] struct {
	*base[T]
	parallel int
	stopped  atomic.Bool
}

// branch is one pending sub-traversal. It owns nothing but its frontier and
// its depth in the branch tree.
type branch[T any] struct {
	frontier Frontier[entry[T]]
	depth    int
}

// NewBranch creates a branch traversal that asks next for the neighbours of
// each visited item.
func NewBranch[T any](next QueueNext[T], opts BranchOptions[T]) (*BranchTraversal[T], error) {
	b, err := newBase(next, opts.Options)
	if err != nil {
		return nil, err
	}
	return &BranchTraversal[T]{base: b, parallel: opts.Parallel}, nil
}

// Run walks every branch rooted at the start items. The run ends Stopped
// when any branch was halted by a stop condition and Completed otherwise;
// unlike [Traversal.Run] it cannot be resumed, since halted branches are
// discarded.
func (b *BranchTraversal[T]) Run(ctx context.Context) error {
	cb, err := b.begin()
	if err != nil {
		return err
	}

	b.mu.Lock()
	seeds := b.frontier
	b.frontier = b.emptyFrontier()
	b.mu.Unlock()
	b.stopped.Store(false)

	roots := make([]*branch[T], 0, seeds.Len())
	for e, ok := seeds.Pop(); ok; e, ok = seeds.Pop() {
		root := &branch[T]{frontier: b.emptyFrontier()}
		root.frontier.Push(e)
		roots = append(roots, root)
	}

	ctx, r := b.startRun(ctx, len(roots))
	err = b.walk(ctx, cb, roots...)
	return b.endRun(ctx, r, b.stopped.Load(), err)
}

// emptyFrontier returns a frontier of the configured discipline. The search
// type and less function were checked when the traversal was built.
func (b *BranchTraversal[T]) emptyFrontier() Frontier[entry[T]] {
	f, _ := b.newFrontier()
	return f
}

// walk processes roots in order, and every branch forked beneath them, on an
// explicit work stack. A parent is pushed back under its children so it
// resumes only once they are done.
func (b *BranchTraversal[T]) walk(ctx context.Context, cb callbacks[T], roots ...*branch[T]) error {
	work := make([]*branch[T], 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		work = append(work, roots[i])
	}
	for len(work) > 0 {
		br := work[len(work)-1]
		work = work[:len(work)-1]

		children, err := b.advance(ctx, cb, br)
		if err != nil {
			return err
		}
		if len(children) == 0 {
			continue
		}

		if b.parallel > 1 {
			if err := b.fanOut(ctx, cb, children); err != nil {
				return err
			}
			work = append(work, br)
			continue
		}

		work = append(work, br)
		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, children[i])
		}
	}
	return nil
}

// fanOut runs the children of one fork concurrently.
func (b *BranchTraversal[T]) fanOut(ctx context.Context, cb callbacks[T], children []*branch[T]) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.parallel)
	for _, child := range children {
		g.Go(func() error {
			return b.walk(gctx, cb, child)
		})
	}
	return g.Wait()
}

// advance pops items off br until its frontier is empty, a stop condition
// halts it, or it forks. A fork returns the child branches.
func (b *BranchTraversal[T]) advance(ctx context.Context, cb callbacks[T], br *branch[T]) ([]*branch[T], error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, ok := br.frontier.Pop()
		if !ok {
			return nil, nil
		}

		next, halt, err := b.expand(ctx, cb, e)
		if err != nil {
			return nil, err
		}
		if halt {
			b.stopped.Store(true)
			br.frontier.Clear()
			return nil, nil
		}

		switch len(next) {
		case 0:
			continue
		case 1:
			br.frontier.Push(entry[T]{item: next[0]})
			continue
		}

		cb.branch(e.item, next)
		observability.Trace().OnBranch(ctx, b.name, br.depth, len(next))
		LoggerFromContext(ctx).Debug("forking branch", "depth", br.depth, "children", len(next))

		children := make([]*branch[T], 0, len(next))
		for _, n := range next {
			child := &branch[T]{frontier: b.emptyFrontier(), depth: br.depth + 1}
			child.frontier.Push(entry[T]{item: n})
			children = append(children, child)
		}
		return children, nil
	}
}
