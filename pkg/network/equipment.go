package network

import (
	"fmt"

	"github.com/matzehuels/gridtrace/pkg/trace"
)

// Equipment is a piece of conducting equipment: a breaker, switch, cable,
// transformer, busbar and so on. It implements [trace.Equipment].
//
// The exported fields describe operating state and may be changed between
// traversals, never during one.
type Equipment struct {
	id        string
	terminals []*Terminal

	Name string
	Kind string

	// NormalOpen is the designed switch position; CurrentOpen is the live one.
	NormalOpen  bool
	CurrentOpen bool

	// Equipment out of service blocks flow like an open switch.
	NormallyInService bool
	InService         bool

	Meta Metadata
}

var _ trace.Equipment = (*Equipment)(nil)

func (e *Equipment) ID() string { return e.id }

// Label returns the name if set, otherwise the ID.
func (e *Equipment) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.id
}

// Terminals returns the equipment's terminals in sequence order.
func (e *Equipment) Terminals() []*Terminal {
	return append([]*Terminal(nil), e.terminals...)
}

// Terminal returns the terminal with sequence number seq, or nil.
func (e *Equipment) Terminal(seq int) *Terminal {
	if seq < 1 || seq > len(e.terminals) {
		return nil
	}
	return e.terminals[seq-1]
}

// Open reports whether the equipment blocks flow in state. Equipment out of
// service counts as open. IgnoreOpen never reports open.
func (e *Equipment) Open(state trace.NetworkState) bool {
	switch state {
	case trace.NormalState:
		return !e.NormallyInService || e.NormalOpen
	case trace.CurrentState:
		return !e.InService || e.CurrentOpen
	default:
		return false
	}
}

// Connectivity returns a result for every other connected terminal sharing a
// connectivity node with one of this equipment's connected terminals, in
// terminal then attachment order. Results whose edge is the Same as exclude
// are left out. Two terminals of this equipment on one node yield a
// self-loop result.
func (e *Equipment) Connectivity(exclude trace.Edge) ([]trace.ConnectivityResult, error) {
	var out []trace.ConnectivityResult
	for _, t := range e.terminals {
		if !t.connected || t.node == nil {
			continue
		}
		for _, other := range t.node.terminals {
			if other == t {
				continue
			}
			if other == nil || other.equipment == nil {
				return nil, fmt.Errorf("%w: on node %s reached from %s", ErrDanglingTerminal, t.node.id, t.Ref())
			}
			if !other.connected {
				continue
			}
			r := trace.NewConnectivityResult(e, t.sequence, other.equipment, other.sequence)
			if !exclude.IsZero() && r.Edge().Same(exclude) {
				continue
			}
			out = append(out, r)
		}
	}
	return out, nil
}

// Terminal is a numbered connection point on a piece of equipment.
type Terminal struct {
	equipment *Equipment
	sequence  int
	node      *ConnectivityNode
	connected bool
}

func (t *Terminal) Equipment() *Equipment { return t.equipment }
func (t *Terminal) Sequence() int         { return t.sequence }

// Node returns the connectivity node the terminal is attached to, or nil.
func (t *Terminal) Node() *ConnectivityNode { return t.node }

// Connected reports whether the terminal conducts. A disconnected terminal
// stays on its node but carries no connectivity.
func (t *Terminal) Connected() bool { return t.connected }

// SetConnected switches the terminal in or out of conduction.
func (t *Terminal) SetConnected(connected bool) { t.connected = connected }

// Ref returns the terminal's reference as used in traversal edges.
func (t *Terminal) Ref() trace.TerminalRef {
	id := ""
	if t.equipment != nil {
		id = t.equipment.id
	}
	return trace.TerminalRef{Equipment: id, Sequence: t.sequence}
}
