package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/token"
)

type tokenView struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

func newTokensCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readSource(cmd, args)
			if err != nil {
				return err
			}
			trivia, _ := cmd.Flags().GetBool("trivia")
			toks, diags := doomfront.Tokenize(src.file, src.text, src.dialect)

			var views []tokenView
			for _, t := range toks {
				switch t.Category() {
				case token.CatComment, token.CatNewline:
					if !trivia {
						continue
					}
				}
				views = append(views, tokenView{
					Type:    string(t.Type),
					Literal: t.Literal,
					Line:    t.Start.LineNumber(),
					Column:  t.Start.ColumnNumber(),
					Start:   t.Span.Start,
					End:     t.Span.End,
				})
			}

			out := cmd.OutOrStdout()
			a.printDiagnostics(cmd.ErrOrStderr(), diags, src.text)
			format, _ := cmd.Flags().GetString("output")
			if format != "text" {
				return a.writeOutput(out, views, format)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, v := range views {
				fmt.Fprintf(tw, "%d:%d\t%s\t%q\n", v.Line, v.Column, v.Type, v.Literal)
			}
			return tw.Flush()
		},
	}
	addInputFlags(cmd)
	addOutputFlag(cmd, "text", "json", "yaml")
	cmd.Flags().Bool("trivia", false, "include comments and line breaks")
	return cmd
}

func newDialectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported dialects and their file extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.cfg.ExtensionTable()
			if err != nil {
				return err
			}
			byDialect := map[token.Dialect][]string{}
			for ext, d := range table {
				byDialect[d] = append(byDialect[d], ext)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range doomfront.Dialects() {
				exts := byDialect[d]
				slices.Sort(exts)
				fmt.Fprintf(tw, "%s\t%v\n", d, exts)
			}
			return tw.Flush()
		},
	}
}
