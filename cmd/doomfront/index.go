package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/doomfront/doomfront/config"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/export"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
	"github.com/doomfront/doomfront/workspace"
)

// loadWorkspace indexes every recognised file below root, applying the
// project manifest found there.
func (a *app) loadWorkspace(ctx context.Context, root string) (*workspace.Index, error) {
	m, err := config.LoadManifest(root)
	if err != nil {
		return nil, err
	}
	for _, key := range m.Unknown {
		a.log.Warn().Str("key", key).Str("manifest", config.ManifestName).Msg("unknown manifest key")
	}
	opts, err := a.cfg.WorkspaceOptions(m, a.log)
	if err != nil {
		return nil, err
	}
	idx := workspace.New(opts...)
	n, err := idx.LoadDir(ctx, root)
	if err != nil && n == 0 {
		_ = idx.Close()
		return nil, err
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("some files could not be loaded")
	}
	return idx, nil
}

type fileSummary struct {
	File     token.FileID `json:"file"`
	Dialect  string       `json:"dialect"`
	Symbols  int          `json:"symbols"`
	Errors   int          `json:"errors"`
	Warnings int          `json:"warnings"`
}

type indexOutput struct {
	Session string            `json:"session"`
	Files   []fileSummary     `json:"files"`
	Graph   *workspace.Graph  `json:"graph"`
	Cycles  []workspace.Cycle `json:"cycles,omitempty"`
}

type resolveOutput struct {
	Name        string               `json:"name"`
	Found       bool                 `json:"found"`
	Declaration *symbols.Declaration `json:"declaration,omitempty"`
}

func newIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <directory>",
		Short: "Index a mod directory and print its include graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			idx, err := a.loadWorkspace(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer idx.Close()

			out := cmd.OutOrStdout()
			format, _ := cmd.Flags().GetString("output")

			if path, _ := cmd.Flags().GetString("export"); path != "" {
				if err := exportSQLite(cmd.Context(), out, idx, path); err != nil {
					return err
				}
			}
			if path, _ := cmd.Flags().GetString("dump"); path != "" {
				if err := exportDump(idx, path); err != nil {
					return err
				}
			}
			if name, _ := cmd.Flags().GetString("resolve"); name != "" {
				return a.resolve(cmd, idx, name, format)
			}

			snap := idx.Snapshot()
			graph := snap.IncludeGraph()
			report := indexOutput{Session: idx.ID().String(), Graph: graph, Cycles: graph.Cycles()}
			for _, file := range snap.Files() {
				e, _ := snap.Entry(file)
				diags, err := snap.Diagnostics(file)
				if err != nil {
					return err
				}
				report.Files = append(report.Files, fileSummary{
					File:     file,
					Dialect:  e.Dialect.String(),
					Symbols:  e.Table.Len(),
					Errors:   diag.Count(diags, diag.Error),
					Warnings: diag.Count(diags, diag.Warning),
				})
			}
			if format != "text" {
				return a.writeOutput(out, report, format)
			}
			printIndex(out, report)
			return nil
		},
	}
	addOutputFlag(cmd, "text", "json", "yaml")
	cmd.Flags().String("resolve", "", "resolve a name and print its declaration")
	cmd.Flags().String("kind", "class", "declaration kind used by --resolve")
	cmd.Flags().String("from", "", "file the --resolve lookup starts from")
	cmd.Flags().String("export", "", "write the symbol index to a SQLite database")
	cmd.Flags().String("dump", "", "write a zstd-compressed JSON dump of the index")
	return cmd
}

func printIndex(w io.Writer, r indexOutput) {
	fmt.Fprintf(w, "%d file(s)\n", len(r.Files))
	for _, f := range r.Files {
		fmt.Fprintf(w, "  %s (%s): %d symbol(s), %d error(s), %d warning(s)\n", f.File, f.Dialect, f.Symbols, f.Errors, f.Warnings)
	}
	if len(r.Graph.Edges)+len(r.Graph.Unresolved) > 0 {
		fmt.Fprintln(w, "includes:")
	}
	for _, e := range r.Graph.Edges {
		fmt.Fprintf(w, "  %s -> %s\n", e.From, e.To)
	}
	for _, e := range r.Graph.Unresolved {
		fmt.Fprintf(w, "  %s -> ? (%s)\n", e.From, e.Path)
	}
	for _, c := range r.Cycles {
		fmt.Fprintf(w, "cycle: %s\n", c)
	}
}

func (a *app) resolve(cmd *cobra.Command, idx *workspace.Index, name, format string) error {
	kindName, _ := cmd.Flags().GetString("kind")
	kind, err := symbols.ParseKind(kindName)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	d, ok, err := idx.Resolve(token.FileID(from), name, kind)
	if err != nil {
		return err
	}
	res := resolveOutput{Name: name, Found: ok}
	if ok {
		res.Declaration = &d
	}
	out := cmd.OutOrStdout()
	if format != "text" {
		return a.writeOutput(out, res, format)
	}
	if !ok {
		fmt.Fprintf(out, "%s %q not found\n", kind, name)
		return &exitError{code: 1}
	}
	e, _ := idx.Entry(d.File)
	pos := token.NewLineIndex(e.Text).Position(d.Span.Start)
	fmt.Fprintf(out, "%s:%d:%d: %s %s\n", d.File, pos.LineNumber(), pos.ColumnNumber(), d.Kind, d.Name)
	return nil
}

func exportSQLite(ctx context.Context, w io.Writer, idx *workspace.Index, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	db, err := export.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	stats, err := db.Write(ctx, idx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "exported %d file(s), %d declaration(s) to %s\n", stats.Files, stats.Declarations, path)
	return nil
}

func exportDump(idx *workspace.Index, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteDump(f, idx); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
