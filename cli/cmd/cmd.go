package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/meow/lang"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Options holds the global flags shared by every command.
type Options struct {
	// SearchPath lists directories searched for document files, ahead of
	// those named by the MEOW_PATH environment variable.
	SearchPath []string
	// MaxDepth limits evaluation nesting. Zero disables the limit.
	MaxDepth int
}

type optionsKey struct{}

// WithOptions returns a new context.Context carrying opts.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) Options {
	opts, ok := ctx.Value(optionsKey{}).(Options)
	if !ok {
		return Options{MaxDepth: lang.DefaultMaxDepth}
	}

	return opts
}

// Stdio is the standard input and output used by a command.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	// Input serves readline when documents are read from In. When nil, the
	// controlling terminal is opened instead.
	Input io.Reader
}

type stdioKey struct{}

// WithStdio returns a new context.Context whose commands read from and
// write to s instead of the process's standard streams.
func WithStdio(ctx context.Context, s Stdio) context.Context {
	return context.WithValue(ctx, stdioKey{}, s)
}

func stdioFrom(ctx context.Context) Stdio {
	s, _ := ctx.Value(stdioKey{}).(Stdio)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	return s
}
