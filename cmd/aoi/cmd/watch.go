package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/aoi/internal/adapters/fsnotify"
	"github.com/corey/aoi/internal/adapters/records"
	"github.com/corey/aoi/internal/ports"
	"github.com/spf13/cobra"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var (
		out    string
		format string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "watch <entities-file>",
		Short: "Re-canonicalize whenever the entities or mapping file changes",
		Args:  cobra.ExactArgs(1),
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

			var store ports.RunStore
			if save {
				s, err := openRuns(a)
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			w, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("watcher: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stderr := cmd.ErrOrStderr()
			fmt.Fprintf(stderr, "watching %s (Ctrl-C to stop)\n", args[0])
			return a.Watch(ctx, w, args[0], func(run *ports.Run, err error) {
				if err != nil {
					a.Logger.Error("canonicalize failed", "err", err)
					return
				}
				if out == "" || out == "-" {
					err = records.Write(cmd.OutOrStdout(), run.Records, f)
				} else {
					err = records.WriteFile(out, run.Records, f)
				}
				if err != nil {
					a.Logger.Error("write failed", "err", err)
					return
				}
				if store != nil {
					if err := a.SaveRun(store, run); err != nil {
						a.Logger.Error("save failed", "err", err)
					}
				}
				fmt.Fprintf(stderr, "%d entities, %d unmapped terms\n", len(run.Records), len(run.Unmapped))
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file rewritten on every change (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&save, "save", false, "persist every run to .aoi/aoi.db")
	return cmd
}
