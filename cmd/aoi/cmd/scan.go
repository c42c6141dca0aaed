package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/corey/aoi/internal/adapters/ahocorasick"
	"github.com/spf13/cobra"
)

// scanResult is the JSON form of one scanned text.
type scanResult struct {
	Text      string   `json:"text"`
	Interests []string `json:"interests"`
}

func newScanCmd(g *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan [text...]",
		Short: "Find mapped interest terms inside free text",
		Long: "Reports the canonical terms whose normalized spelling, or one of its\n" +
			"variants, appears as whole words in each text. With no arguments, scans\n" +
			"stdin line by line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeLog, err := g.loadApp(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			texts := args
			if len(texts) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if strings.TrimSpace(sc.Text()) != "" {
						texts = append(texts, sc.Text())
					}
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}

			scanner := ahocorasick.NewScanner(a.Canon)
			results := make([]scanResult, len(texts))
			for i, text := range texts {
				results[i] = scanResult{Text: text, Interests: scanner.Scan(text)}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			p := g.palette(cmd)
			for _, r := range results {
				found := p.gray("(none)")
				if len(r.Interests) > 0 {
					found = p.magenta(strings.Join(r.Interests, ", "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  →  %s\n", p.cyan(r.Text), found)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
