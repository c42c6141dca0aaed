package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the mapping and report overlapping variants",
		Long: "Fails if the mapping is missing or malformed. Overlaps (a normalized variant\n" +
			"claimed by several canonical terms) are reported; the first declared term wins.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeLog, err := g.loadApp(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			fmt.Fprint(cmd.OutOrStdout(), formatValidation(g.palette(cmd), a.Mapping))
			if n := len(a.Mapping.Overlaps()); strict && n > 0 {
				return fmt.Errorf("%d overlapping variants", n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when variants overlap")
	return cmd
}
