package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/corey/aoi/internal/adapters/records"
	"github.com/corey/aoi/internal/ports"
	"github.com/spf13/cobra"
)

func newRunsCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved canonicalization runs",
	}
	cmd.AddCommand(newRunsListCmd(g))
	cmd.AddCommand(newRunsShowCmd(g))
	cmd.AddCommand(newRunsRmCmd(g))
	return cmd
}

func newRunsListCmd(g *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeLog, err := g.loadApp(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			store, found, err := readRuns(a)
			if err != nil {
				return err
			}
			runs := []ports.RunSummary{}
			if found {
				defer store.Close()
				if runs, err = store.ListRuns(); err != nil {
					return err
				}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatRuns(g.palette(cmd), runs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newRunsShowCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print the canonical records of a run (default: latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := "latest"
			if len(args) == 1 {
				id = args[0]
			}

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

			store, found, err := readRuns(a)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("run %q not found: no saved runs", id)
			}
			defer store.Close()

			run, err := store.LoadRun(id)
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %q not found", id)
			}
			return records.Write(cmd.OutOrStdout(), run.Records, f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

func newRunsRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete saved runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeLog, err := g.loadApp(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			store, err := openRuns(a)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.DeleteRun(id); err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			}
			return nil
		},
	}
}
