package workspace

import (
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/doomfront/doomfront"
	"github.com/doomfront/doomfront/token"
)

// DefaultBuiltins are the engine classes every mod may inherit from or jump
// into without defining them. References to them are never reported.
var DefaultBuiltins = []string{
	"Object", "Thinker", "Actor", "StateProvider", "Inventory",
	"CustomInventory", "Weapon", "Ammo", "Health", "Armor", "BasicArmor",
	"Key", "Powerup", "PowerupGiver", "PlayerPawn", "EventHandler",
	"StaticEventHandler", "BaseStatusBar", "Menu", "OptionMenu",
}

// Option configures an Index.
type Option func(*options)

type options struct {
	logger       zerolog.Logger
	workers      int
	extensions   map[string]token.Dialect
	includeRoots []string
	ignore       []string
	builtins     []string
	analyze      []doomfront.Option
}

func collectOptions(opts ...Option) *options {
	o := &options{
		logger:   log.Logger,
		workers:  runtime.GOMAXPROCS(0),
		builtins: DefaultBuiltins,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// WithLogger sets the logger. The default is the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithWorkers bounds the number of files LoadDir parses concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithExtensions sets the file name to dialect table used when a dialect
// is not given explicitly. See token.DialectForPath.
func WithExtensions(table map[string]token.Dialect) Option {
	return func(o *options) {
		o.extensions = table
	}
}

// WithIncludeRoots adds directories, relative to the workspace root, that
// include paths are resolved against after the including file's directory.
func WithIncludeRoots(roots ...string) Option {
	return func(o *options) {
		o.includeRoots = append(o.includeRoots, roots...)
	}
}

// WithIgnore adds glob patterns for paths LoadDir and the watcher skip.
// A pattern ending in "/**" matches a whole directory.
func WithIgnore(patterns ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, patterns...)
	}
}

// WithBuiltins replaces the set of names that are defined by the engine.
func WithBuiltins(names ...string) Option {
	return func(o *options) {
		o.builtins = names
	}
}

// WithAnalyzeOptions passes options to doomfront.Analyze for every file.
func WithAnalyzeOptions(opts ...doomfront.Option) Option {
	return func(o *options) {
		o.analyze = append(o.analyze, opts...)
	}
}
