package cmd

import (
	"bufio"
	"fmt"

	"github.com/corey/aoi/internal/domain/normalize"
	"github.com/spf13/cobra"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Print the normalized form of each argument",
		Long: "Lower-cases, replaces punctuation with spaces and collapses whitespace.\n" +
			"With no arguments, normalizes stdin line by line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, n := range normalize.All(args) {
					fmt.Fprintln(out, n)
				}
				return nil
			}
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				fmt.Fprintln(out, normalize.Normalize(sc.Text()))
			}
			return sc.Err()
		},
	}
}
