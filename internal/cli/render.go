package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtrace/pkg/cache"
	"github.com/matzehuels/gridtrace/pkg/errors"
	"github.com/matzehuels/gridtrace/pkg/render/nodelink"
	"github.com/matzehuels/gridtrace/pkg/trace"
)

// Output formats for the render command.
const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// renderCacheTTL bounds how long a rendered SVG is reused.
const renderCacheTTL = 30 * 24 * time.Hour

type renderOpts struct {
	traceOpts
	output   string // output file; the extension selects the format
	detailed bool   // kind, name and metadata in labels
	noCache  bool   // always render, skipping the SVG cache
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{traceOpts: traceOpts{search: "bfs", state: "normal"}}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the network with a trace overlay",
		Long: `Render draws the network as a node-link diagram. With --from, the
equipment reached by a trace from those equipment is highlighted. The output
format follows the extension of -o: .svg or .dot.`,
		Example: `  gridtrace render feeder.yaml -o feeder.svg
  gridtrace render feeder.yaml --from src --state current -o feeder.svg --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyTraceConfig(cmd, &opts.traceOpts)
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	addTraceFlags(cmd, &opts.traceOpts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg or .dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show kind, name and metadata in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached SVG exists")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.output)), ".")
	if format != formatSVG && format != formatDOT {
		return errors.New(errors.ErrCodeUnsupported, "unsupported output format %q (use .svg or .dot)", filepath.Ext(opts.output))
	}

	n, err := c.loadNetwork(ctx, path)
	if err != nil {
		return err
	}
	state, err := trace.ParseNetworkState(opts.state)
	if err != nil {
		return err
	}

	dotOpts := nodelink.Options{Detailed: opts.detailed, State: state, Starts: opts.from}
	if len(opts.from) > 0 {
		res, err := c.traceNetwork(ctx, n, opts.traceOpts)
		if err != nil {
			return err
		}
		dotOpts.Visited = res.visitedSet()
	} else {
		printInfo(c.out, "no --from given, rendering without a trace overlay")
	}

	dot := nodelink.ToDOT(n, dotOpts)
	data := []byte(dot)
	if format == formatSVG {
		if data, err = c.renderSVG(ctx, dot, opts.noCache); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.output)
		}
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess(c.out, "Rendered %s", StyleNumber.Render(fmt.Sprintf("%d equipment", n.Len())))
	printFile(c.out, opts.output)
	return nil
}

// renderSVG renders dot through Graphviz, reusing a cached result for the
// same DOT source.
func (c *CLI) renderSVG(ctx context.Context, dot string, noCache bool) ([]byte, error) {
	store := c.newCache(noCache)
	defer store.Close()

	key := cache.Key(formatSVG, dot)
	if svg, ok, err := store.Get(ctx, key); err == nil && ok {
		c.Logger.Debug("render cache hit", "key", key)
		return svg, nil
	}

	spinner := newSpinner(ctx, c.errOut, "Rendering SVG...")
	spinner.Start()
	svg, err := nodelink.RenderSVG(ctx, dot)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	if err := store.Set(ctx, key, svg, renderCacheTTL); err != nil {
		c.Logger.Warn("render cache write failed", "err", err)
	}
	return svg, nil
}
