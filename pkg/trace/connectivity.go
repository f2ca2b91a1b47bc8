package trace

import (
	"fmt"
	"strconv"
)

// TerminalRef identifies a connection point: the terminal with the given
// sequence number on the named equipment. Sequence numbers start at 1.
type TerminalRef struct {
	Equipment string
	Sequence  int
}

// IsZero reports whether r is the zero reference.
func (r TerminalRef) IsZero() bool { return r == TerminalRef{} }

func (r TerminalRef) String() string {
	return r.Equipment + "/" + strconv.Itoa(r.Sequence)
}

// Edge is one traversed connection between two terminals.
// The zero Edge excludes nothing when passed to [Equipment.Connectivity].
type Edge struct {
	From TerminalRef
	To   TerminalRef
}

// IsZero reports whether e is the zero edge.
func (e Edge) IsZero() bool { return e == Edge{} }

// Reverse returns the edge walked in the opposite direction.
func (e Edge) Reverse() Edge { return Edge{From: e.To, To: e.From} }

// Same reports whether e and o join the same pair of terminals, in either
// direction. The zero edge is only the same as itself.
func (e Edge) Same(o Edge) bool {
	return e == o || e == o.Reverse()
}

func (e Edge) String() string {
	return e.From.String() + " -> " + e.To.String()
}

// ConnectivityResult describes one live connection from a piece of equipment
// to a neighbour: the two pieces of equipment and the terminals joining them.
// Results are immutable values; two results are equal when they connect the
// same pair of equipment.
type ConnectivityResult struct {
	from         Equipment
	to           Equipment
	fromTerminal TerminalRef
	toTerminal   TerminalRef
}

// NewConnectivityResult builds the result for a connection from terminal
// fromSeq of from to terminal toSeq of to.
func NewConnectivityResult(from Equipment, fromSeq int, to Equipment, toSeq int) ConnectivityResult {
	return ConnectivityResult{
		from:         from,
		to:           to,
		fromTerminal: TerminalRef{Equipment: equipmentID(from), Sequence: fromSeq},
		toTerminal:   TerminalRef{Equipment: equipmentID(to), Sequence: toSeq},
	}
}

func (r ConnectivityResult) From() Equipment { return r.from }
func (r ConnectivityResult) To() Equipment   { return r.to }

func (r ConnectivityResult) FromTerminal() TerminalRef { return r.fromTerminal }
func (r ConnectivityResult) ToTerminal() TerminalRef   { return r.toTerminal }

// Terminals returns the pair of connected terminals.
func (r ConnectivityResult) Terminals() (from, to TerminalRef) {
	return r.fromTerminal, r.toTerminal
}

// Edge returns the traversed edge, from the source terminal to the target.
func (r ConnectivityResult) Edge() Edge {
	return Edge{From: r.fromTerminal, To: r.toTerminal}
}

// Key returns the (from, to) equipment ID pair identifying the result.
func (r ConnectivityResult) Key() (from, to string) {
	return equipmentID(r.from), equipmentID(r.to)
}

// Equal reports whether r and o connect the same pair of equipment.
func (r ConnectivityResult) Equal(o ConnectivityResult) bool {
	af, at := r.Key()
	bf, bt := o.Key()
	return af == bf && at == bt
}

// IsSelfLoop reports whether the result connects a piece of equipment to
// itself.
func (r ConnectivityResult) IsSelfLoop() bool {
	if r.from == nil || r.to == nil {
		return false
	}
	return r.from.ID() == r.to.ID()
}

func (r ConnectivityResult) String() string {
	return fmt.Sprintf("%s => %s", r.fromTerminal, r.toTerminal)
}

func equipmentID(e Equipment) string {
	if e == nil {
		return ""
	}
	return e.ID()
}
