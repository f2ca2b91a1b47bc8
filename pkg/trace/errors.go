package trace

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/gridtrace/pkg/errors"
)

var (
	// ErrNotSeeded is returned by Run when the traversal has no start items
	// and nothing left in its frontier.
	ErrNotSeeded = errors.New(errors.ErrCodeNotSeeded, "traversal has no start items")

	// ErrReentrant is returned by Run, Reset and AddStart while the
	// traversal is running. Traversals are not reentrant.
	ErrReentrant = errors.New(errors.ErrCodeReentrant, "traversal is already running")
)

// wrapRunError classifies an error that aborted a run.
func wrapRunError(name string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeCanceled, err, "trace %s canceled", name)
	}
	return err
}
