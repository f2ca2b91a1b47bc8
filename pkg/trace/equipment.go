package trace

import (
	"context"
	"strconv"

	"github.com/matzehuels/gridtrace/pkg/errors"
)

// Equipment is a piece of network equipment as the engine sees it.
// Implementations are read, never mutated, by traversals.
type Equipment interface {
	// ID returns the equipment's unique identifier.
	ID() string

	// Open reports whether the equipment blocks flow in the given state,
	// such as an open switch. It must return false for IgnoreOpen.
	Open(state NetworkState) bool

	// Connectivity returns the live connections of the equipment to its
	// neighbours. Connections whose edge is the Same as exclude must be
	// left out. The zero Edge excludes nothing.
	Connectivity(exclude Edge) ([]ConnectivityResult, error)
}

// Step is the item visited by equipment traces: a piece of equipment, the
// connection it was reached through and its distance from the start.
type Step struct {
	Equipment Equipment
	// Via is nil for start steps.
	Via   *ConnectivityResult
	Depth int
}

// StartStep returns the step that starts a trace at eq.
func StartStep(eq Equipment) Step {
	return Step{Equipment: eq}
}

// IsStart reports whether s is a start step.
func (s Step) IsStart() bool { return s.Via == nil }

func (s Step) String() string {
	return equipmentID(s.Equipment) + "@" + strconv.Itoa(s.Depth)
}

// StepLess orders steps by depth, shallowest first. It is the priority used
// by equipment traces with PriorityFirst search.
func StepLess(a, b Step) bool { return a.Depth < b.Depth }

// QueueOptions tune [QueueNextEquipment].
type QueueOptions struct {
	// AllowBacktrack keeps the edge a step arrived through, so algorithms
	// can revisit it from the other direction.
	AllowBacktrack bool
}

// QueueNextEquipment returns the queue-next function for equipment traces.
//
// It excludes the edge a step arrived through (unless opts.AllowBacktrack is
// set) and yields one step per neighbouring equipment. Equipment that is
// open in state is reached but not crossed: a non-start step on it yields
// nothing, while a trace may still start from it. IgnoreOpen never blocks.
func QueueNextEquipment(state NetworkState, opts QueueOptions) QueueNext[Step] {
	return func(ctx context.Context, s Step) ([]Step, error) {
		if s.Equipment == nil {
			return nil, errors.New(errors.ErrCodeNetworkModel, "step has no equipment")
		}
		if !s.IsStart() && state != IgnoreOpen && s.Equipment.Open(state) {
			return nil, nil
		}

		var exclude Edge
		if s.Via != nil && !opts.AllowBacktrack {
			exclude = s.Via.Edge()
		}
		results, err := s.Equipment.Connectivity(exclude)
		if err != nil {
			return nil, err
		}

		next := make([]Step, 0, len(results))
		seen := make(map[string]bool, len(results))
		for _, r := range results {
			if r.To() == nil {
				return nil, errors.New(errors.ErrCodeNetworkModel, "dangling connection %s on %s", r, s.Equipment.ID())
			}
			if !exclude.IsZero() && r.Edge().Same(exclude) {
				continue
			}
			id := r.To().ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			via := r
			next = append(next, Step{Equipment: r.To(), Via: &via, Depth: s.Depth + 1})
		}

		LoggerFromContext(ctx).Debug("queuing connections",
			"equipment", s.Equipment.ID(), "depth", s.Depth, "next", len(next))
		return next, nil
	}
}

// NewEquipmentTrace creates a connected-equipment trace with the given search
// type over the network in the given state.
func NewEquipmentTrace(search SearchType, state NetworkState) (*Traversal[Step], error) {
	return New(QueueNextEquipment(state, QueueOptions{}), Options[Step]{
		Search:  search,
		Less:    StepLess,
		Tracker: NewStepTracker(),
		Name:    "equipment-" + search.String(),
	})
}

// NewBranchEquipmentTrace creates a depth-first branch trace over the network
// in the given state. parallel is passed through as [BranchOptions.Parallel].
func NewBranchEquipmentTrace(state NetworkState, parallel int) (*BranchTraversal[Step], error) {
	return NewBranch(QueueNextEquipment(state, QueueOptions{}), BranchOptions[Step]{
		Options: Options[Step]{
			Search:  DepthFirst,
			Less:    StepLess,
			Tracker: NewStepTracker(),
			Name:    "equipment-branch",
		},
		Parallel: parallel,
	})
}
