// Package promhooks implements the observability hooks on top of the
// Prometheus client.
//
// Register the hooks once at startup; the CLI does this and writes the
// collected series to a textfile when --metrics-out is given:
//
//	reg := prometheus.NewRegistry()
//	h := promhooks.New(reg)
//	observability.SetTraceHooks(h)
//	observability.SetNetworkHooks(h)
package promhooks

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/gridtrace/pkg/errors"
	"github.com/matzehuels/gridtrace/pkg/observability"
)

const namespace = "gridtrace"

// Status label values.
const (
	StatusOK       = "ok"
	StatusCanceled = "canceled"
	StatusError    = "error"
)

// Hooks records trace and network events as Prometheus series.
// It is safe for concurrent use; parallel branch traversals report forks
// from several goroutines.
type Hooks struct {
	runsStarted   *prometheus.CounterVec
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	visited       *prometheus.GaugeVec
	branches      *prometheus.CounterVec
	branchDepth   *prometheus.HistogramVec
	loads         *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	loadEquipment prometheus.Gauge
}

var (
	_ observability.TraceHooks   = (*Hooks)(nil)
	_ observability.NetworkHooks = (*Hooks)(nil)
)

// New creates hooks whose collectors are registered with reg.
// It panics if the collectors are already registered, like promauto does.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		runsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trace",
			Name:      "runs_started_total",
			Help:      "Traversal runs started, by trace name and search type",
		}, []string{"name", "search"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trace",
			Name:      "runs_total",
			Help:      "Traversal runs finished, by trace name and status",
		}, []string{"name", "status"}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trace",
			Name:      "duration_seconds",
			Help:      "Traversal run duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"name"}),
		visited: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "trace",
			Name:      "visited_items",
			Help:      "Items in the tracker at the end of the last run",
		}, []string{"name"}),
		branches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trace",
			Name:      "branches_total",
			Help:      "Child branches forked by branch traversals",
		}, []string{"name"}),
		branchDepth: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "trace",
			Name:      "branch_depth",
			Help:      "Depth of the branch that forked",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"name"}),
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "network",
			Name:      "loads_total",
			Help:      "Network files loaded, by status",
		}, []string{"status"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "network",
			Name:      "load_duration_seconds",
			Help:      "Network file load duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		loadEquipment: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "network",
			Name:      "equipment",
			Help:      "Equipment in the last loaded network",
		}),
	}
}

func (h *Hooks) OnTraceStart(_ context.Context, name, search string) {
	h.runsStarted.WithLabelValues(name, search).Inc()
}

func (h *Hooks) OnTraceComplete(_ context.Context, name string, visited int, duration time.Duration, err error) {
	h.runs.WithLabelValues(name, status(err)).Inc()
	h.runDuration.WithLabelValues(name).Observe(duration.Seconds())
	h.visited.WithLabelValues(name).Set(float64(visited))
}

func (h *Hooks) OnBranch(_ context.Context, name string, depth, children int) {
	h.branches.WithLabelValues(name).Add(float64(children))
	h.branchDepth.WithLabelValues(name).Observe(float64(depth))
}

func (h *Hooks) OnLoadStart(context.Context, string) {}

func (h *Hooks) OnLoadComplete(_ context.Context, _ string, equipment int, duration time.Duration, err error) {
	h.loads.WithLabelValues(status(err)).Inc()
	h.loadDuration.Observe(duration.Seconds())
	if err == nil {
		h.loadEquipment.Set(float64(equipment))
	}
}

func status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, errors.ErrCodeCanceled):
		return StatusCanceled
	default:
		return StatusError
	}
}
