package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doomfront/doomfront/config"
	"github.com/doomfront/doomfront/internal/logging"
)

// app carries the settings shared by every command.
type app struct {
	flags *viper.Viper
	cfg   *config.Config
	log   zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{flags: viper.New(), cfg: config.Default(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "doomfront",
		Short: "Parse, lint and index ZScript, DECORATE, DeHackEd and lump sources",
		Version: fmt.Sprintf("%s (commit %s, built %s)",
			version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ~/.config/doomfront/config.*)")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-format", "", "log format: auto, console or json")
	pf.Bool("no-color", false, "disable colored output")
	pf.Int("max-errors", 0, "stop reporting syntax errors after n per file")
	pf.Int("workers", 0, "files parsed in parallel when loading a directory")
	_ = a.flags.BindPFlags(pf)
	_ = a.flags.BindEnv("no-color", "NO_COLOR")

	root.AddCommand(
		newTokensCmd(a),
		newParseCmd(a),
		newLintCmd(a),
		newSymbolsCmd(a),
		newIndexCmd(a),
		newWatchCmd(a),
		newDialectsCmd(a),
	)
	return root
}

// setup loads the configuration, applies flag overrides and configures
// logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.GetString("config"))
	if err != nil {
		return err
	}
	if v := a.flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := a.flags.GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v := a.flags.GetInt("max-errors"); v > 0 {
		cfg.MaxErrors = v
	}
	if v := a.flags.GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if a.noColor() {
		color.NoColor = true
	}
	a.cfg = cfg
	a.log = logger
	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("loaded config")
	}
	return nil
}

func (a *app) noColor() bool {
	return a.flags.GetBool("no-color")
}

// exitError ends the process with a status code without printing anything
// further.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
