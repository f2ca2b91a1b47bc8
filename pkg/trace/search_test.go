package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridtrace/pkg/errors"
)

func drainFrontier[T any](f Frontier[T]) []T {
	var out []T
	for {
		v, ok := f.Pop()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestFrontierDisciplines(t *testing.T) {
	less := func(a, b int) bool { return a < b }
	tests := []struct {
		search SearchType
		want   []int
	}{
		{DepthFirst, []int{2, 9, 1, 5}},
		{BreadthFirst, []int{5, 1, 9, 2}},
		{PriorityFirst, []int{1, 2, 5, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.search.String(), func(t *testing.T) {
			f, err := NewFrontier(tt.search, less)
			require.NoError(t, err)
			for _, v := range []int{5, 1, 9, 2} {
				f.Push(v)
			}
			assert.Equal(t, 4, f.Len())
			assert.Equal(t, tt.want, drainFrontier(f))
			assert.Equal(t, 0, f.Len())

			_, ok := f.Pop()
			assert.False(t, ok)
		})
	}
}

func TestPriorityFrontierTiesPopInPushOrder(t *testing.T) {
	type job struct {
		rank int
		name string
	}
	f, err := NewFrontier(PriorityFirst, func(a, b job) bool { return a.rank < b.rank })
	require.NoError(t, err)

	for _, j := range []job{{2, "x"}, {1, "a"}, {1, "b"}, {2, "y"}, {1, "c"}} {
		f.Push(j)
	}
	var names []string
	for _, j := range drainFrontier(f) {
		names = append(names, j.name)
	}
	assert.Equal(t, []string{"a", "b", "c", "x", "y"}, names)
}

func TestFrontierClear(t *testing.T) {
	for _, search := range []SearchType{DepthFirst, BreadthFirst, PriorityFirst} {
		f, err := NewFrontier(search, func(a, b string) bool { return a < b })
		require.NoError(t, err)
		f.Push("a")
		f.Push("b")
		f.Clear()
		assert.Equal(t, 0, f.Len(), search.String())
	}
}

func TestFrontierInterfaceItems(t *testing.T) {
	// A nil interface value must round-trip without a panic.
	f, err := NewFrontier[Equipment](DepthFirst, nil)
	require.NoError(t, err)
	f.Push(nil)
	v, ok := f.Pop()
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestParseSearchType(t *testing.T) {
	tests := []struct {
		in      string
		want    SearchType
		wantErr bool
	}{
		{"depth", DepthFirst, false},
		{"DFS", DepthFirst, false},
		{"breadth", BreadthFirst, false},
		{" bfs ", BreadthFirst, false},
		{"priority", PriorityFirst, false},
		{"random", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSearchType(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidSearch))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNetworkState(t *testing.T) {
	for _, s := range []NetworkState{NormalState, CurrentState, IgnoreOpen} {
		got, err := ParseNetworkState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseNetworkState("closed")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidState))
}

func TestRunStateString(t *testing.T) {
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "failed", Failed.String())
	assert.True(t, Stopped.Done())
	assert.False(t, Running.Done())
}
