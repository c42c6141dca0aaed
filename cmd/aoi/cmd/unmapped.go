package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/corey/aoi/internal/adapters/records"
	"github.com/spf13/cobra"
)

func newUnmappedCmd(g *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "unmapped <entities-file>",
		Short: "List interest terms the mapping does not cover",
		Long: "Groups unmapped raw interests by normalized form, most frequent first.\n" +
			"These are candidates for new canonical terms or variants.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeLog, err := g.loadApp(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			entities, err := records.ReadFile(args[0])
			if err != nil {
				return err
			}
			terms := a.Canon.UnmappedRecords(entities)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(terms)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatUnmapped(g.palette(cmd), terms))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
