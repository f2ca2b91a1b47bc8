package trace

import (
	"strings"

	"github.com/matzehuels/gridtrace/pkg/errors"
)

// NetworkState selects which switch positions an equipment trace honours.
type NetworkState int

const (
	// NormalState uses the designed (normally open) switch positions.
	NormalState NetworkState = iota
	// CurrentState uses the live (currently open) switch positions.
	CurrentState
	// IgnoreOpen crosses every switch regardless of its position.
	IgnoreOpen
)

func (s NetworkState) String() string {
	switch s {
	case NormalState:
		return "normal"
	case CurrentState:
		return "current"
	case IgnoreOpen:
		return "ignore"
	default:
		return "unknown"
	}
}

// ParseNetworkState parses "normal", "current" or "ignore", case-insensitively.
func ParseNetworkState(s string) (NetworkState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal":
		return NormalState, nil
	case "current":
		return CurrentState, nil
	case "ignore":
		return IgnoreOpen, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidState, "unknown network state %q (use normal, current or ignore)", s)
}

// RunState is the lifecycle position of a traversal.
type RunState int

const (
	Created RunState = iota
	Seeded
	Running
	Stopped
	Completed
	Failed
)

func (s RunState) String() string {
	switch s {
	case Created:
		return "created"
	case Seeded:
		return "seeded"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Done reports whether s is a terminal state of a run.
func (s RunState) Done() bool {
	return s == Stopped || s == Completed || s == Failed
}
