package cmd

import (
	"fmt"
	"os"

	"github.com/corey/aoi/internal/adapters/logger"
	"github.com/corey/aoi/internal/app"
	"github.com/corey/aoi/internal/ports"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every subcommand.
// Zero values mean "not set"; config file values apply instead.
type globalFlags struct {
	root      string
	mapping   string
	workers   int
	cacheSize int
	logJSON   bool
	verbose   bool
	color     string
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "aoi",
		Short: "aoi: research-interest canonicalizer",
		Long: "Normalizes free-text research interests, resolves them to canonical terms\n" +
			"from a synonym mapping, and builds the people↔interest bipartite graph.",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.root, "root", "", "project root holding .aoi/ (default: current directory)")
	pf.StringVarP(&g.mapping, "mapping", "m", "", "mapping file (default: config value, else embedded vocabulary)")
	pf.IntVar(&g.workers, "workers", 0, "entities resolved concurrently")
	pf.IntVar(&g.cacheSize, "cache-size", 0, "raw→canonical memo size (0 keeps config value)")
	pf.BoolVar(&g.logJSON, "log-json", false, "log as JSON")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&g.color, "color", "auto", "color output: auto, always, never")

	rootCmd.AddCommand(newNormalizeCmd())
	rootCmd.AddCommand(newResolveCmd(g))
	rootCmd.AddCommand(newCanonicalizeCmd(g))
	rootCmd.AddCommand(newUnmappedCmd(g))
	rootCmd.AddCommand(newScanCmd(g))
	rootCmd.AddCommand(newValidateCmd(g))
	rootCmd.AddCommand(newGraphCmd(g))
	rootCmd.AddCommand(newRunsCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// projectRoot returns the project root (--root, else cwd).
func (g *globalFlags) projectRoot() (string, error) {
	if g.root != "" {
		return g.root, nil
	}
	return os.Getwd()
}

// palette returns the color palette for cmd's stdout.
func (g *globalFlags) palette(cmd *cobra.Command) palette {
	return palette{on: resolveColor(g.color, cmd.OutOrStdout())}
}

// resolveConfig layers .aoi/config.yaml and then any flags that were set.
func (g *globalFlags) resolveConfig(cmd *cobra.Command) (*app.Paths, app.Config, error) {
	root, err := g.projectRoot()
	if err != nil {
		return nil, app.Config{}, err
	}
	paths := app.NewPaths(root)
	cfg, err := app.LoadConfig(paths.Config)
	if err != nil {
		return nil, cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("mapping") {
		// Flag paths are relative to the working directory, not the project.
		abs, err := absPath(g.mapping)
		if err != nil {
			return nil, cfg, err
		}
		cfg.Mapping = abs
	}
	if flags.Changed("workers") {
		cfg.Workers = g.workers
	}
	if flags.Changed("cache-size") {
		cfg.CacheSize = g.cacheSize
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = g.logJSON
	}
	if flags.Changed("verbose") {
		cfg.Verbose = g.verbose
	}
	return paths, cfg, cfg.Validate()
}

// newLogger builds the stderr logger for cfg.
func newLogger(cmd *cobra.Command, cfg app.Config) (ports.Logger, error) {
	return logger.New(logger.Options{
		Output:  cmd.ErrOrStderr(),
		JSON:    cfg.LogJSON,
		Verbose: cfg.Verbose,
	})
}

// loadApp resolves config, builds the logger and loads the mapping.
// The returned closer flushes the logger.
func (g *globalFlags) loadApp(cmd *cobra.Command) (*app.App, func(), error) {
	paths, cfg, err := g.resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	lg, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	a, err := app.New(paths, cfg, lg)
	if err != nil {
		lg.Close()
		return nil, nil, err
	}
	return a, func() { lg.Close() }, nil
}
