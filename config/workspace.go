package config

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/workspace"
)

// AnalyzeOptions returns the pipeline options for the settings.
func (c *Config) AnalyzeOptions() []doomfront.Option {
	return []doomfront.Option{
		doomfront.WithMaxErrors(c.MaxErrors),
		doomfront.WithMaxDepth(c.MaxDepth),
	}
}

// WorkspaceOptions combines the settings with a project manifest, which may
// be nil, into options for workspace.New.
func (c *Config) WorkspaceOptions(m *Manifest, logger zerolog.Logger) ([]workspace.Option, error) {
	exts, err := c.ExtensionTable()
	if err != nil {
		return nil, err
	}
	builtins := workspace.DefaultBuiltins
	if len(c.Builtins) > 0 {
		builtins = c.Builtins
	}
	opts := []workspace.Option{
		workspace.WithLogger(logger),
		workspace.WithAnalyzeOptions(c.AnalyzeOptions()...),
	}
	if c.Workers > 0 {
		opts = append(opts, workspace.WithWorkers(c.Workers))
	}
	if m != nil {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if exts, err = m.ExtensionTable(exts); err != nil {
			return nil, err
		}
		for _, root := range m.IncludeRoots {
			opts = append(opts, workspace.WithIncludeRoots(filepath.ToSlash(filepath.Clean(root))))
		}
		opts = append(opts, workspace.WithIgnore(m.Ignore...))
		builtins = append(append([]string{}, builtins...), m.Builtins...)
	}
	opts = append(opts,
		workspace.WithExtensions(exts),
		workspace.WithBuiltins(builtins...),
	)
	return opts, nil
}
