package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/corey/aoi/internal/app"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	var (
		initFile bool
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: "Prints the configuration after layering defaults, .aoi/config.yaml and flags.\n" +
			"--init writes the defaults to .aoi/config.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initFile {
				root, err := g.projectRoot()
				if err != nil {
					return err
				}
				paths := app.NewPaths(root)
				if _, err := os.Stat(paths.Config); err == nil && !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", paths.Config)
				} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				if err := paths.EnsureDirs(); err != nil {
					return err
				}
				if err := app.DefaultConfig().Save(paths.Config); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", paths.Config)
				return nil
			}

			paths, cfg, err := g.resolveConfig(cmd)
			if err != nil {
				return err
			}
			p := g.palette(cmd)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", p.gray("# project:"), paths.Project)
			fmt.Fprintf(out, "%s %s\n", p.gray("# config: "), paths.Config)
			fmt.Fprintf(out, "%s %s\n", p.gray("# runs:   "), paths.DB)
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&initFile, "init", false, "write default config to .aoi/config.yaml")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config with --init")
	return cmd
}
