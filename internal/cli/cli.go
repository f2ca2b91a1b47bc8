package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtrace/pkg/buildinfo"
	"github.com/matzehuels/gridtrace/pkg/cache"
	"github.com/matzehuels/gridtrace/pkg/errors"
	"github.com/matzehuels/gridtrace/pkg/network"
	"github.com/matzehuels/gridtrace/pkg/observability"
	"github.com/matzehuels/gridtrace/pkg/observability/promhooks"
	"github.com/matzehuels/gridtrace/pkg/trace"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for the config file and display.
const appName = "gridtrace"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out    io.Writer // command results
	errOut io.Writer // logs and spinners

	verbose    bool
	configPath string
	metricsOut string

	config   Config
	registry *prometheus.Registry
}

// New creates a new CLI instance logging to w. Results go to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		errOut: w,
	}
}

// SetOutput redirects command results, which go to stdout by default.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gridtrace walks electrical network models",
		Long: `Gridtrace traverses electrical network models: it follows connectivity
from start equipment, respects switch positions in the normal or current
network state, and reports or renders what it reaches.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "TOML file with flag defaults (default ./"+defaultConfigFile+" if present)")
	flags.StringVar(&c.metricsOut, "metrics-out", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.traceCommand())
	root.AddCommand(c.reachCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Run executes the command line in args. Metrics requested with
// --metrics-out are written even when the command fails.
func (c *CLI) Run(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if c.registry != nil {
		defer observability.Reset()
		if werr := prometheus.WriteToTextfile(c.metricsOut, c.registry); werr != nil {
			err = stderrors.Join(err, fmt.Errorf("write metrics: %w", werr))
		}
	}
	return err
}

// setup runs before every command: it applies --verbose, loads the config
// file, installs the metrics hooks and attaches the logger to the context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}
	c.Logger.Debug(appName, buildinfo.Fields()...)

	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "config", fmt.Sprintf("%+v", cfg))

	if c.metricsOut != "" {
		c.registry = prometheus.NewRegistry()
		hooks := promhooks.New(c.registry)
		observability.SetTraceHooks(hooks)
		observability.SetNetworkHooks(hooks)
	}

	cmd.SetContext(trace.WithLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadNetwork reads and validates a network file.
func (c *CLI) loadNetwork(ctx context.Context, path string) (*network.Network, error) {
	prog := newProgress(c.Logger)
	n, err := network.ReadFileContext(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetworkModel, err, "network file %s", path)
	}
	prog.done(fmt.Sprintf("Loaded %d equipment from %s", n.Len(), path))
	return n, nil
}

// newCache opens the render cache, falling back to a null cache when
// caching is disabled or no cache directory can be determined.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("render cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/gridtrace/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// lookupStarts resolves start IDs to equipment.
func lookupStarts(n *network.Network, ids []string) ([]*network.Equipment, error) {
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "at least one --from equipment is required")
	}
	if err := errors.ValidateIDs(ids); err != nil {
		return nil, err
	}
	return n.Lookup(ids...)
}

func asTraceEquipment(eqs []*network.Equipment) []trace.Equipment {
	out := make([]trace.Equipment, len(eqs))
	for i, e := range eqs {
		out[i] = e
	}
	return out
}

func kindOf(n *network.Network, id string) string {
	if e, ok := n.Equipment(id); ok {
		return e.Kind
	}
	return ""
}
