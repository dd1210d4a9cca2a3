package main

import (
	"github.com/spf13/cobra"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/ast"
	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

// treeNode is the JSON and YAML form of a syntax tree node.
type treeNode struct {
	Kind     string      `json:"kind"`
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Label    string      `json:"label,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func toTree(n ast.Node) *treeNode {
	if n == nil {
		return nil
	}
	out := &treeNode{
		Kind:  n.Kind().String(),
		Start: n.Span().Start,
		End:   n.Span().End,
		Label: ast.Label(n),
	}
	for _, c := range n.Children() {
		if child := toTree(c); child != nil {
			out.Children = append(out.Children, child)
		}
	}
	return out
}

type parseOutput struct {
	File        token.FileID      `json:"file"`
	Dialect     token.Dialect     `json:"dialect"`
	Tree        *treeNode         `json:"tree"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the syntax tree of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readSource(cmd, args)
			if err != nil {
				return err
			}
			res := doomfront.Analyze(src.file, src.text, src.dialect, a.cfg.AnalyzeOptions()...)
			a.log.Debug().
				Str("file", string(src.file)).
				Stringer("dialect", src.dialect).
				Int("diagnostics", len(res.Diagnostics)).
				Msg("parsed")

			format, _ := cmd.Flags().GetString("output")
			if format != "text" {
				return a.writeOutput(cmd.OutOrStdout(), parseOutput{
					File:        res.File,
					Dialect:     res.Dialect,
					Tree:        toTree(res.Tree),
					Diagnostics: res.Diagnostics,
				}, format)
			}
			if err := ast.Dump(cmd.OutOrStdout(), res.Tree); err != nil {
				return err
			}
			a.printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics, src.text)
			return nil
		},
	}
	addInputFlags(cmd)
	addOutputFlag(cmd, "text", "json", "yaml")
	return cmd
}
