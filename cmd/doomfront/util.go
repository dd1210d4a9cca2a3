package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doomfront/doomfront/diag"
	"github.com/doomfront/doomfront/token"
)

var red = color.New(color.FgRed).SprintFunc()

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// source is one input document.
type source struct {
	file    token.FileID
	text    string
	dialect token.Dialect
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "source text to process")
	cmd.Flags().Bool("stdin", false, "read source text from stdin")
	cmd.Flags().StringP("dialect", "d", "", "dialect of the input (inferred from the file name by default)")
}

func addOutputFlag(cmd *cobra.Command, formats ...string) {
	cmd.Flags().StringP("output", "o", formats[0], "output format: "+strings.Join(formats, ", "))
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formats, cobra.ShellCompDirectiveNoFileComp
	})
}

// readSource determines the input of a single-document command. There are
// three possibilities:
//  1. --code <text>
//  2. --stdin
//  3. a path as args[0]
func (a *app) readSource(cmd *cobra.Command, args []string) (*source, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	pathSupplied := len(args) > 0
	if (pathSupplied && (codeSet || stdinSet)) || (codeSet && stdinSet) {
		return nil, errors.New("multiple input sources specified")
	}

	src := &source{}
	switch {
	case stdinSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		src.file, src.text = "<stdin>", string(data)
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		src.file, src.text = token.FileID(filepath.ToSlash(args[0])), string(data)
	case codeSet:
		src.text, _ = cmd.Flags().GetString("code")
		src.file = "<code>"
	default:
		return nil, errors.New("no input provided")
	}

	var err error
	if src.dialect, err = a.dialectOf(cmd, string(src.file), pathSupplied); err != nil {
		return nil, err
	}
	return src, nil
}

// dialectOf returns the --dialect flag, or the dialect inferred from path.
func (a *app) dialectOf(cmd *cobra.Command, path string, infer bool) (token.Dialect, error) {
	if name, _ := cmd.Flags().GetString("dialect"); name != "" {
		return token.ParseDialect(name)
	}
	if infer {
		table, err := a.cfg.ExtensionTable()
		if err != nil {
			return token.Unknown, err
		}
		if d := token.DialectForPath(path, table); d != token.Unknown {
			return d, nil
		}
	}
	return token.Unknown, fmt.Errorf("cannot infer the dialect of %s; use --dialect", path)
}

// writeOutput renders v as JSON or YAML. JSON is colorized when writing to
// a terminal.
func (a *app) writeOutput(w io.Writer, v any, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return a.writeJSON(w, v)
	case "yaml":
		return writeYAML(w, v)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func (a *app) writeJSON(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if !a.noColor() && isTerminal(w) {
		data, err = prettyjson.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeYAML goes through JSON first so that field names and enum values
// match the JSON output.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// printDiagnostics renders diagnostics against their source text.
func (a *app) printDiagnostics(w io.Writer, diags []diag.Diagnostic, text string) {
	if len(diags) == 0 {
		return
	}
	f := diag.NewFormatter(!a.noColor() && isTerminal(w))
	fmt.Fprint(w, f.FormatAll(diags, text))
}
