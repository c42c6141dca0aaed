package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// resolution is the JSON form of one resolved term.
type resolution struct {
	Raw       string `json:"raw"`
	Canonical string `json:"canonical"`
	Mapped    bool   `json:"mapped"`
}

func newResolveCmd(g *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve <term>...",
		Short: "Resolve raw interest terms to canonical terms",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeLog, err := g.loadApp(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			canonical := make([]string, len(args))
			mapped := make([]bool, len(args))
			for i, raw := range args {
				canonical[i] = a.Canon.Resolve(raw)
				mapped[i] = a.Canon.Mapped(canonical[i])
			}

			if asJSON {
				out := make([]resolution, len(args))
				for i := range args {
					out[i] = resolution{Raw: args[i], Canonical: canonical[i], Mapped: mapped[i]}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatResolution(g.palette(cmd), args, canonical, mapped))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
