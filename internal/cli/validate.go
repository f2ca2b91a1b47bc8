package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtrace/pkg/network"
)

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a network file for modelling errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, path string) error {
	n, err := c.loadNetwork(ctx, path)
	if err != nil {
		return err
	}

	printSuccess(c.out, "%s is valid", StyleValue.Render(path))
	printKeyValue(c.out, "equipment", fmt.Sprint(n.Len()))
	printKeyValue(c.out, "nodes", fmt.Sprint(len(n.Nodes())))
	if open := countOpen(n); open > 0 {
		printKeyValue(c.out, "open", fmt.Sprint(open))
	}
	if isolated := countIsolated(n); isolated > 0 {
		printWarning(c.out, "%d equipment have no connected terminals", isolated)
	}
	if eqs := n.Equipments(); len(eqs) > 0 {
		printNextStep(c.out, "Trace it", fmt.Sprintf("%s trace %s --from %s", appName, path, eqs[0].ID()))
	}
	return nil
}

// countOpen counts equipment open in the normal state.
func countOpen(n *network.Network) int {
	count := 0
	for _, e := range n.Equipments() {
		if e.NormalOpen || !e.NormallyInService {
			count++
		}
	}
	return count
}

func countIsolated(n *network.Network) int {
	count := 0
	for _, e := range n.Equipments() {
		attached := false
		for _, t := range e.Terminals() {
			if t.Node() != nil && t.Connected() {
				attached = true
				break
			}
		}
		if !attached {
			count++
		}
	}
	return count
}
