package trace

import (
	"context"
	"sync"
)

// graph is an adjacency list over strings used to drive generic traversals.
type graph map[string][]string

func (g graph) next(_ context.Context, item string) ([]string, error) {
	return g[item], nil
}

// recorder collects visited items safely from parallel branches.
type recorder[T any] struct {
	mu    sync.Mutex
	items []T
	stops []T
}

func (r *recorder[T]) step(item T, stopping bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
	if stopping {
		r.stops = append(r.stops, item)
	}
}

func (r *recorder[T]) visited() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.items...)
}

// fakeEquipment is a minimal Equipment: a list of links to other equipment.
type fakeEquipment struct {
	id          string
	normalOpen  bool
	currentOpen bool
	links       []link
	failWith    error
}

type link struct {
	fromSeq int
	to      *fakeEquipment
	toSeq   int
	// dangling produces a result with no target equipment.
	dangling bool
}

func (e *fakeEquipment) ID() string { return e.id }

func (e *fakeEquipment) Open(state NetworkState) bool {
	switch state {
	case NormalState:
		return e.normalOpen
	case CurrentState:
		return e.currentOpen
	}
	return false
}

func (e *fakeEquipment) Connectivity(exclude Edge) ([]ConnectivityResult, error) {
	if e.failWith != nil {
		return nil, e.failWith
	}
	var out []ConnectivityResult
	for _, l := range e.links {
		var r ConnectivityResult
		if l.dangling {
			r = NewConnectivityResult(e, l.fromSeq, nil, l.toSeq)
		} else {
			r = NewConnectivityResult(e, l.fromSeq, l.to, l.toSeq)
		}
		if !exclude.IsZero() && r.Edge().Same(exclude) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// connect links a.aSeq and b.bSeq in both directions.
func connect(a *fakeEquipment, aSeq int, b *fakeEquipment, bSeq int) {
	a.links = append(a.links, link{fromSeq: aSeq, to: b, toSeq: bSeq})
	b.links = append(b.links, link{fromSeq: bSeq, to: a, toSeq: aSeq})
}

// chain builds equipment ids[0] - ids[1] - ... joined terminal 2 to terminal 1.
func chain(ids ...string) []*fakeEquipment {
	eqs := make([]*fakeEquipment, len(ids))
	for i, id := range ids {
		eqs[i] = &fakeEquipment{id: id}
		if i > 0 {
			connect(eqs[i-1], 2, eqs[i], 1)
		}
	}
	return eqs
}

func stepIDs(steps []Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.Equipment.ID()
	}
	return ids
}
