package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
	"github.com/spf13/cobra"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/lspconv"
	"github.com/doomfront/doomfront/symbols"
	"github.com/doomfront/doomfront/token"
)

// lspOutput is the symbols command output in protocol form.
type lspOutput struct {
	URI         protocol.DocumentURI      `json:"uri"`
	Symbols     []protocol.DocumentSymbol `json:"symbols"`
	Diagnostics []protocol.Diagnostic     `json:"diagnostics"`
}

func parseKinds(names []string) ([]symbols.Kind, error) {
	var kinds []symbols.Kind
	for _, name := range names {
		k, err := symbols.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func newSymbolsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols [file]",
		Short: "List the declarations of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readSource(cmd, args)
			if err != nil {
				return err
			}
			kindNames, _ := cmd.Flags().GetStringSlice("kind")
			kinds, err := parseKinds(kindNames)
			if err != nil {
				return err
			}
			res := doomfront.Analyze(src.file, src.text, src.dialect, a.cfg.AnalyzeOptions()...)
			out := cmd.OutOrStdout()
			format, _ := cmd.Flags().GetString("output")

			if useLSP, _ := cmd.Flags().GetBool("lsp"); useLSP {
				uri := protocol.DocumentURI("untitled:" + string(src.file))
				if len(args) > 0 {
					uri = lspconv.URI(args[0])
				}
				conv := lspconv.NewConverter(src.file, uri, src.text)
				if format == "text" {
					format = "json"
				}
				return a.writeOutput(out, lspOutput{
					URI:         uri,
					Symbols:     conv.DocumentSymbols(res.Table),
					Diagnostics: conv.Diagnostics(res.Diagnostics),
				}, format)
			}

			var decls []symbols.Declaration
			for d := range res.Table.All() {
				if len(kinds) == 0 || slices.Contains(kinds, d.Kind) {
					decls = append(decls, d)
				}
			}
			if format != "text" {
				return a.writeOutput(out, decls, format)
			}
			lines := token.NewLineIndex(src.text)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, d := range decls {
				pos := lines.Position(d.Span.Start)
				fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\n", pos.LineNumber(), pos.ColumnNumber(), d.Kind, d.Key, d.Parent)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			a.printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics, src.text)
			return nil
		},
	}
	addInputFlags(cmd)
	addOutputFlag(cmd, "text", "json", "yaml")
	cmd.Flags().StringSlice("kind", nil, "only list declarations of these kinds")
	cmd.Flags().Bool("lsp", false, "print language server document symbols and diagnostics")
	return cmd
}
