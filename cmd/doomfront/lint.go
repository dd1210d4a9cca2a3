package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

// lintReport is the diagnostics of one file.
type lintReport struct {
	File        token.FileID      `json:"file"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	text        string
}

func newLintCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [file or directory...]",
		Short: "Report diagnostics; exits with status 1 when there are errors",
		Long: `Report the diagnostics of source files.

A directory argument is loaded as a workspace, so its diagnostics include
unresolved includes, parents and state labels across files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			floorName, _ := cmd.Flags().GetString("severity")
			floor, err := parseSeverity(floorName)
			if err != nil {
				return err
			}

			var reports []lintReport
			if len(args) == 0 {
				src, err := a.readSource(cmd, nil)
				if err != nil {
					return err
				}
				reports = append(reports, a.lintSource(src))
			}
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return err
				}
				if info.IsDir() {
					more, err := a.lintDir(cmd, arg)
					if err != nil {
						return err
					}
					reports = append(reports, more...)
					continue
				}
				src, err := a.readSource(cmd, []string{arg})
				if err != nil {
					return err
				}
				reports = append(reports, a.lintSource(src))
			}

			errs := 0
			for i := range reports {
				reports[i].Diagnostics = diag.Filter(reports[i].Diagnostics, floor)
				errs += diag.Count(reports[i].Diagnostics, diag.Error)
			}

			out := cmd.OutOrStdout()
			format, _ := cmd.Flags().GetString("output")
			if format != "text" {
				if err := a.writeOutput(out, reports, format); err != nil {
					return err
				}
			} else {
				clean := 0
				for _, r := range reports {
					if len(r.Diagnostics) == 0 {
						clean++
						continue
					}
					a.printDiagnostics(out, r.Diagnostics, r.text)
				}
				fmt.Fprintf(out, "%d file(s) checked, %d clean\n", len(reports), clean)
			}
			if errs > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	addInputFlags(cmd)
	addOutputFlag(cmd, "text", "json", "yaml")
	cmd.Flags().String("severity", "hint", "lowest severity to report: error, warning, info or hint")
	return cmd
}

func (a *app) lintSource(src *source) lintReport {
	res := doomfront.Analyze(src.file, src.text, src.dialect, a.cfg.AnalyzeOptions()...)
	return lintReport{File: src.file, Diagnostics: res.Diagnostics, text: src.text}
}

func (a *app) lintDir(cmd *cobra.Command, root string) ([]lintReport, error) {
	idx, err := a.loadWorkspace(cmd.Context(), root)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	snap := idx.Snapshot()
	var reports []lintReport
	for _, file := range snap.Files() {
		e, _ := snap.Entry(file)
		diags, err := snap.Diagnostics(file)
		if err != nil {
			return nil, err
		}
		reports = append(reports, lintReport{File: file, Diagnostics: diags, text: e.Text})
	}
	return reports, nil
}

func parseSeverity(name string) (diag.Severity, error) {
	for _, s := range []diag.Severity{diag.Error, diag.Warning, diag.Info, diag.Hint} {
		if s.String() == name {
			return s, nil
		}
	}
	return diag.Hint, fmt.Errorf("unknown severity %q", name)
}
