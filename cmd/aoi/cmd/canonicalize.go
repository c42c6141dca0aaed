package cmd

import (
	"fmt"

	"github.com/corey/aoi/internal/adapters/records"
	"github.com/spf13/cobra"
)

func newCanonicalizeCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		out    string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "canonicalize <entities-file>",
		Short: "Resolve every entity's interests to sorted canonical terms",
		Long: "Reads a name → interests file (YAML or JSON), resolves each interest against\n" +
			"the mapping, and writes deduplicated, sorted canonical interests per entity.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeLog, err := g.loadApp(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			if !cmd.Flags().Changed("format") {
				format = a.Config.Format
			}
			f, err := records.ParseFormat(format)
			if err != nil {
				return err
			}

			run, err := a.Canonicalize(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				if err := records.Write(cmd.OutOrStdout(), run.Records, f); err != nil {
					return err
				}
			} else if err := records.WriteFile(out, run.Records, f); err != nil {
				return err
			}

			if len(run.Unmapped) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d unmapped terms (aoi unmapped %s)\n", len(run.Unmapped), args[0])
			}

			if save {
				store, err := openRuns(a)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := a.SaveRun(store, run); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved run %s\n", run.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&save, "save", false, "persist the run to .aoi/aoi.db")
	return cmd
}
