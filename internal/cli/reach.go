package cli

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtrace/pkg/trace"
)

const defaultMaxSteps = 10

type reachOpts struct {
	from  []string
	steps int
	state string
	json  bool
}

type reachEntry struct {
	ID    string `json:"id"`
	Kind  string `json:"kind,omitempty"`
	Steps int    `json:"steps"`
}

func (c *CLI) reachCommand() *cobra.Command {
	opts := reachOpts{steps: defaultMaxSteps, state: "normal"}

	cmd := &cobra.Command{
		Use:   "reach [file]",
		Short: "List equipment within a number of connections",
		Long: fmt.Sprintf(`Reach lists every equipment within --steps connections of any --from
equipment, with the fewest connections needed to reach it. Steps are
clamped to %d..%d.`, trace.MinLimitedSteps, trace.MaxLimitedSteps),
		Example: `  gridtrace reach feeder.yaml --from cb1 --steps 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.steps = pick(cmd, "steps", opts.steps, c.config.MaxSteps)
			opts.state = pick(cmd, "state", opts.state, c.config.State)
			return c.runReach(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.from, "from", nil, "start equipment IDs (repeatable)")
	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "maximum number of connections")
	cmd.Flags().StringVar(&opts.state, "state", opts.state, "network state: normal, current or ignore")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func (c *CLI) runReach(ctx context.Context, path string, opts reachOpts) error {
	n, err := c.loadNetwork(ctx, path)
	if err != nil {
		return err
	}
	starts, err := lookupStarts(n, opts.from)
	if err != nil {
		return err
	}
	state, err := trace.ParseNetworkState(opts.state)
	if err != nil {
		return err
	}

	steps, err := trace.LimitedConnected(ctx, asTraceEquipment(starts), opts.steps, state)
	if err != nil {
		return err
	}

	entries := make([]reachEntry, 0, len(steps))
	for id, d := range steps {
		entries = append(entries, reachEntry{ID: id, Kind: kindOf(n, id), Steps: d})
	}
	slices.SortFunc(entries, func(a, b reachEntry) int {
		return cmp.Or(cmp.Compare(a.Steps, b.Steps), cmp.Compare(a.ID, b.ID))
	})

	if opts.json {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	printSuccess(c.out, "%s within %s of %s",
		StyleNumber.Render(fmt.Sprintf("%d equipment", len(entries))),
		StyleNumber.Render(fmt.Sprintf("%d steps", min(max(opts.steps, trace.MinLimitedSteps), trace.MaxLimitedSteps))),
		StyleHighlight.Render(strings.Join(opts.from, ", ")))
	for _, e := range entries {
		printStep(c.out, e.ID, e.Kind, e.Steps, false)
	}
	return nil
}
