package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/corey/aoi/internal/domain/bipartite"
	"github.com/corey/aoi/internal/ports"
	"github.com/spf13/cobra"
)

func newGraphCmd(g *globalFlags) *cobra.Command {
	var (
		runID   string
		dotPath string
		export  bool
		top     int
		who     string
	)
	cmd := &cobra.Command{
		Use:   "graph [entities-file]",
		Short: "Build the entity↔interest bipartite graph",
		Long: "Canonicalizes the entities file (or loads a saved run with --run) and\n" +
			"builds the bipartite graph. --dot exports it in Graphviz DOT format;\n" +
			"--export writes the DOT file to .aoi/export/.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (runID == "") {
				return fmt.Errorf("need exactly one of <entities-file> or --run")
			}
			if export && dotPath != "" {
				return fmt.Errorf("--dot and --export are mutually exclusive")
			}

			a, closeLog, err := g.loadApp(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			var run *ports.Run
			if runID != "" {
				store, found, err := readRuns(a)
				if err != nil {
					return err
				}
				if found {
					run, err = store.LoadRun(runID)
					store.Close()
					if err != nil {
						return err
					}
				}
				if run == nil {
					return fmt.Errorf("run %q not found", runID)
				}
			} else {
				run, err = a.Canonicalize(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			}

			graph := bipartite.Build(run.Records)
			if who != "" {
				interest := a.Canon.Resolve(who)
				members := graph.Neighbors(interest, bipartite.Interest)
				if members == nil {
					return fmt.Errorf("no entity lists %q", interest)
				}
				for _, m := range members {
					fmt.Fprintln(cmd.OutOrStdout(), m)
				}
				return nil
			}
			if export {
				if err := a.Paths.EnsureDirs(); err != nil {
					return err
				}
				dotPath = filepath.Join(a.Paths.ExportDir, exportName(runID != "", run, args)+".dot")
				if err := writeDOT(cmd.OutOrStdout(), dotPath, graph); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dotPath)
				return nil
			}
			if dotPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), formatGraph(g.palette(cmd), graph, top))
				return nil
			}
			return writeDOT(cmd.OutOrStdout(), dotPath, graph)
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "use a saved run (ID or \"latest\")")
	cmd.Flags().StringVar(&dotPath, "dot", "", "write Graphviz DOT to this file (\"-\" for stdout)")
	cmd.Flags().BoolVar(&export, "export", false, "write Graphviz DOT to .aoi/export/<run or input name>.dot")
	cmd.Flags().StringVar(&who, "who", "", "list the entities sharing this interest (resolved through the mapping)")
	cmd.Flags().IntVar(&top, "top", 10, "show the N most connected interests")
	return cmd
}

func writeDOT(stdout io.Writer, path string, graph *bipartite.Graph) error {
	if path == "-" {
		return graph.WriteDOT(stdout, "interests")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := graph.WriteDOT(f, "interests"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// exportName names an exported DOT file after the saved run's ID, or after
// the input file without its extension.
func exportName(fromRun bool, run *ports.Run, args []string) string {
	if fromRun {
		return run.ID
	}
	base := filepath.Base(args[0])
	return strings.TrimSuffix(base, filepath.Ext(base))
}
