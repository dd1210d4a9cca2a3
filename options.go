package doomfront

import "github.com/doomfront/doomfront/parser"

// Option configures Analyze and Parse.
type Option func(*options)

type options struct {
	maxDepth  int
	maxErrors int
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.maxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(o.maxDepth))
	}
	if o.maxErrors > 0 {
		opts = append(opts, parser.WithMaxErrors(o.maxErrors))
	}
	return opts
}

// WithMaxDepth limits the nesting depth of the parser. Zero keeps the
// parser's default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithMaxErrors stops reporting syntax errors after n. Zero means no limit.
func WithMaxErrors(n int) Option {
	return func(o *options) {
		o.maxErrors = n
	}
}
