package main

import (
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
	"github.com/doomfront/doomfront/workspace"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <directory>",
		Short: "Index a mod directory and report diagnostics as files change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			idx, err := a.loadWorkspace(ctx, root)
			if err != nil {
				return err
			}
			defer idx.Close()

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			report := func(file token.FileID, removed bool) {
				mu.Lock()
				defer mu.Unlock()
				if removed {
					fmt.Fprintf(out, "%s: removed\n", file)
					return
				}
				diags, err := idx.Diagnostics(file)
				if err != nil {
					a.log.Warn().Err(err).Str("file", string(file)).Msg("diagnostics")
					return
				}
				fmt.Fprintf(out, "%s: %d error(s), %d warning(s)\n", file,
					diag.Count(diags, diag.Error), diag.Count(diags, diag.Warning))
				if e, ok := idx.Entry(file); ok {
					a.printDiagnostics(out, diags, e.Text)
				}
			}
			for _, file := range idx.Files() {
				report(file, false)
			}

			w, err := workspace.NewWatcher(idx, root, a.cfg.Debounce, report)
			if err != nil {
				return err
			}
			defer w.Close()
			a.log.Info().Str("root", root).Msg("watching")
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}
