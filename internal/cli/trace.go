package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtrace/pkg/network"
	"github.com/matzehuels/gridtrace/pkg/trace"
)

// traceOpts holds the command-line flags for the trace command.
type traceOpts struct {
	from      []string // start equipment IDs
	search    string   // frontier discipline: dfs, bfs or priority
	state     string   // network state: normal, current or ignore
	branch    bool     // fork a branch at every junction
	parallel  int      // concurrent sibling branches
	stopAt    []string // equipment IDs that stop the trace
	backtrack bool     // allow stepping back over the arrival edge
	json      bool     // print JSON instead of a table
}

// traceResult is the outcome of one trace, shared by the trace and render
// commands.
type traceResult struct {
	Run     string      `json:"run"`
	Search  string      `json:"search"`
	State   string      `json:"state"`
	Starts  []string    `json:"starts"`
	Visited []visitStep `json:"visited"`
	Stopped []string    `json:"stopped,omitempty"`
	Forks   int         `json:"forks,omitempty"`
}

type visitStep struct {
	ID    string `json:"id"`
	Kind  string `json:"kind,omitempty"`
	Depth int    `json:"depth"`
	Via   string `json:"via,omitempty"`
}

func (r traceResult) visitedSet() map[string]bool {
	set := make(map[string]bool, len(r.Visited))
	for _, s := range r.Visited {
		set[s.ID] = true
	}
	return set
}

func (c *CLI) traceCommand() *cobra.Command {
	opts := traceOpts{search: "bfs", state: "normal", parallel: 1}

	cmd := &cobra.Command{
		Use:   "trace [file]",
		Short: "Trace connected equipment from start equipment",
		Long: `Trace walks the network from the --from equipment, crossing closed
equipment and stopping at open switches in the chosen network state.

With --branch the walk forks at every junction and each branch proceeds on
its own; --parallel lets sibling branches run concurrently.`,
		Example: `  gridtrace trace feeder.yaml --from src
  gridtrace trace feeder.yaml --from src --state current --stop-at cb7 --json
  gridtrace trace mesh.toml --from bus1 --branch --parallel 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyTraceConfig(cmd, &opts)
			return c.runTrace(cmd.Context(), args[0], opts)
		},
	}

	addTraceFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.branch, "branch", false, "fork a branch at every junction")
	cmd.Flags().IntVar(&opts.parallel, "parallel", opts.parallel, "sibling branches run concurrently (with --branch)")
	cmd.Flags().StringSliceVar(&opts.stopAt, "stop-at", nil, "equipment IDs that stop the trace (repeatable)")
	cmd.Flags().BoolVar(&opts.backtrack, "backtrack", false, "allow stepping back over the arrival connection")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

// addTraceFlags registers the flags shared with the render command.
func addTraceFlags(cmd *cobra.Command, opts *traceOpts) {
	cmd.Flags().StringSliceVar(&opts.from, "from", nil, "start equipment IDs (repeatable)")
	cmd.Flags().StringVar(&opts.search, "search", opts.search, "search order: dfs, bfs or priority")
	cmd.Flags().StringVar(&opts.state, "state", opts.state, "network state: normal, current or ignore")
}

// applyTraceConfig fills flags that were not given on the command line from
// the config file.
func (c *CLI) applyTraceConfig(cmd *cobra.Command, opts *traceOpts) {
	cfg := c.config
	opts.search = pick(cmd, "search", opts.search, cfg.Search)
	opts.state = pick(cmd, "state", opts.state, cfg.State)
	if cmd.Flags().Lookup("branch") != nil {
		opts.branch = pick(cmd, "branch", opts.branch, cfg.Branch)
		opts.parallel = pick(cmd, "parallel", opts.parallel, cfg.Parallel)
		opts.backtrack = pick(cmd, "backtrack", opts.backtrack, cfg.Backtrack)
	}
}

func (c *CLI) runTrace(ctx context.Context, path string, opts traceOpts) error {
	n, err := c.loadNetwork(ctx, path)
	if err != nil {
		return err
	}
	res, err := c.traceNetwork(ctx, n, opts)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printTraceResult(c, res)
	return nil
}

// traceNetwork runs one trace over n. The traversal kind follows
// opts.branch; the tracker order gives the visit order in the result.
func (c *CLI) traceNetwork(ctx context.Context, n *network.Network, opts traceOpts) (traceResult, error) {
	starts, err := lookupStarts(n, opts.from)
	if err != nil {
		return traceResult{}, err
	}
	search, err := trace.ParseSearchType(opts.search)
	if err != nil {
		return traceResult{}, err
	}
	state, err := trace.ParseNetworkState(opts.state)
	if err != nil {
		return traceResult{}, err
	}

	next := trace.QueueNextEquipment(state, trace.QueueOptions{AllowBacktrack: opts.backtrack})
	base := trace.Options[trace.Step]{
		Search:            search,
		Less:              trace.StepLess,
		Tracker:           trace.NewStepTracker(),
		Name:              "cli-" + search.String(),
		IgnoreStopOnStart: true,
		ContinueOnStop:    true,
	}

	var tr trace.Traverser[trace.Step]
	if opts.branch {
		base.Search = trace.DepthFirst
		base.Name = "cli-branch"
		tr, err = trace.NewBranch(next, trace.BranchOptions[trace.Step]{Options: base, Parallel: opts.parallel})
	} else {
		tr, err = trace.New(next, base)
	}
	if err != nil {
		return traceResult{}, err
	}

	var (
		mu      sync.Mutex
		stopped []string
		forks   int
	)
	if len(opts.stopAt) > 0 {
		stopAt := make(map[string]bool, len(opts.stopAt))
		for _, id := range opts.stopAt {
			stopAt[id] = true
		}
		tr.AddStopCondition(func(s trace.Step) bool { return stopAt[s.Equipment.ID()] })
	}
	tr.AddStepAction(func(s trace.Step, stopping bool) {
		if !stopping {
			return
		}
		mu.Lock()
		stopped = append(stopped, s.Equipment.ID())
		mu.Unlock()
	})
	tr.AddBranchAction(func(trace.Step, []trace.Step) {
		mu.Lock()
		forks++
		mu.Unlock()
	})

	for _, e := range starts {
		if err := tr.AddStart(trace.StartStep(e)); err != nil {
			return traceResult{}, err
		}
	}
	if err := tr.Run(ctx); err != nil {
		return traceResult{}, err
	}

	res := traceResult{
		Run:     tr.State().String(),
		Search:  base.Search.String(),
		State:   state.String(),
		Starts:  slices.Clone(opts.from),
		Stopped: stopped,
		Forks:   forks,
	}
	for _, s := range tr.Tracker().Visited() {
		v := visitStep{ID: s.Equipment.ID(), Kind: kindOf(n, s.Equipment.ID()), Depth: s.Depth}
		if s.Via != nil {
			v.Via = s.Via.Edge().String()
		}
		res.Visited = append(res.Visited, v)
	}
	slices.Sort(res.Stopped)
	return res, nil
}

func printTraceResult(c *CLI, res traceResult) {
	stopped := make(map[string]bool, len(res.Stopped))
	for _, id := range res.Stopped {
		stopped[id] = true
	}

	printSuccess(c.out, "Traced %s from %s",
		StyleNumber.Render(fmt.Sprintf("%d equipment", len(res.Visited))),
		StyleHighlight.Render(strings.Join(res.Starts, ", ")))
	printDetail(c.out, "%s search · %s state", res.Search, res.State)
	for _, s := range res.Visited {
		printStep(c.out, s.ID, s.Kind, s.Depth, stopped[s.ID])
	}
	printStats(c.out, len(res.Visited), len(res.Stopped), res.Forks)
	if len(res.Stopped) > 0 {
		printWarning(c.out, "stopped at %s", strings.Join(res.Stopped, ", "))
	}
}
