// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about traversal runs and network loading.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The Prometheus implementation lives in the promhooks subpackage, so the
// engine itself never imports a metrics client.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTraceHooks(promhooks.New(prometheus.DefaultRegisterer))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Trace().OnTraceStart(ctx, name, search)
//	// ... walk the network ...
//	observability.Trace().OnTraceComplete(ctx, name, visited, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Trace Hooks
// =============================================================================

// TraceHooks receives events from traversal runs.
type TraceHooks interface {
	// OnTraceStart is called when a run begins. search is the frontier
	// discipline name ("depth", "breadth" or "priority").
	OnTraceStart(ctx context.Context, name, search string)

	// OnTraceComplete is called when a run ends, whatever the outcome.
	// visited is the tracker size at the end of the run.
	OnTraceComplete(ctx context.Context, name string, visited int, duration time.Duration, err error)

	// OnBranch is called each time a branch traversal forks.
	OnBranch(ctx context.Context, name string, depth, children int)
}

// =============================================================================
// Network Hooks
// =============================================================================

// NetworkHooks receives events from network file loading.
type NetworkHooks interface {
	// OnLoadStart records the start of a network file load.
	OnLoadStart(ctx context.Context, path string)

	// OnLoadComplete records a finished load with the number of equipment read.
	OnLoadComplete(ctx context.Context, path string, equipment int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTraceHooks is a no-op implementation of TraceHooks.
type NoopTraceHooks struct{}

func (NoopTraceHooks) OnTraceStart(context.Context, string, string)                        {}
func (NoopTraceHooks) OnTraceComplete(context.Context, string, int, time.Duration, error) {}
func (NoopTraceHooks) OnBranch(context.Context, string, int, int)                          {}

// NoopNetworkHooks is a no-op implementation of NetworkHooks.
type NoopNetworkHooks struct{}

func (NoopNetworkHooks) OnLoadStart(context.Context, string)                                {}
func (NoopNetworkHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	traceHooks   TraceHooks   = NoopTraceHooks{}
	networkHooks NetworkHooks = NoopNetworkHooks{}
	hooksMu      sync.RWMutex
)

// SetTraceHooks registers custom trace hooks.
// This should be called once at application startup before any traversal runs.
func SetTraceHooks(h TraceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		traceHooks = h
	}
}

// SetNetworkHooks registers custom network hooks.
// This should be called once at application startup before any file is loaded.
func SetNetworkHooks(h NetworkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		networkHooks = h
	}
}

// Trace returns the registered trace hooks.
func Trace() TraceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return traceHooks
}

// Network returns the registered network hooks.
func Network() NetworkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return networkHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	traceHooks = NoopTraceHooks{}
	networkHooks = NoopNetworkHooks{}
}
