package promhooks

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/gridtrace/pkg/errors"
)

func TestTraceHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	ctx := context.Background()

	h.OnTraceStart(ctx, "feeder", "breadth")
	h.OnTraceStart(ctx, "feeder", "breadth")
	h.OnBranch(ctx, "feeder", 0, 3)
	h.OnTraceComplete(ctx, "feeder", 7, time.Millisecond, nil)
	h.OnTraceComplete(ctx, "feeder", 2, time.Millisecond, errors.New(errors.ErrCodeCanceled, "stop"))

	if got := testutil.ToFloat64(h.runsStarted.WithLabelValues("feeder", "breadth")); got != 2 {
		t.Errorf("runs started = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.runs.WithLabelValues("feeder", StatusOK)); got != 1 {
		t.Errorf("ok runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.runs.WithLabelValues("feeder", StatusCanceled)); got != 1 {
		t.Errorf("canceled runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.visited.WithLabelValues("feeder")); got != 2 {
		t.Errorf("visited = %v, want 2 (last run)", got)
	}
	if got := testutil.ToFloat64(h.branches.WithLabelValues("feeder")); got != 3 {
		t.Errorf("branches = %v, want 3", got)
	}
}

func TestNetworkHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	ctx := context.Background()

	h.OnLoadStart(ctx, "net.json")
	h.OnLoadComplete(ctx, "net.json", 12, time.Millisecond, nil)
	h.OnLoadComplete(ctx, "bad.json", 0, time.Millisecond, fmt.Errorf("boom"))

	if got := testutil.ToFloat64(h.loadEquipment); got != 12 {
		t.Errorf("equipment = %v, want 12", got)
	}

	expected := `
# HELP gridtrace_network_loads_total Network files loaded, by status
# TYPE gridtrace_network_loads_total counter
gridtrace_network_loads_total{status="error"} 1
gridtrace_network_loads_total{status="ok"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "gridtrace_network_loads_total"); err != nil {
		t.Error(err)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, StatusOK},
		{"canceled", errors.Wrap(errors.ErrCodeCanceled, context.Canceled, "run"), StatusCanceled},
		{"network", errors.New(errors.ErrCodeNetworkModel, "dangling"), StatusError},
		{"plain", fmt.Errorf("plain"), StatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status(tt.err); got != tt.want {
				t.Errorf("status() = %q, want %q", got, tt.want)
			}
		})
	}
}
