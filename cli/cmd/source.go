package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/meow/document"
	"github.com/ardnew/meow/lang"
	"github.com/ardnew/meow/log"
)

// resolveSources maps the file names given on the command line to document
// paths, in order. Duplicate files are dropped and every "-" collapses into
// a single standard input source placed last. No names at all means
// standard input.
func resolveSources(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return []string{stdinSource}, nil
	}

	search := SearchPath(optionsFrom(ctx).SearchPath...)
	seen := make(map[fileKey]struct{}, len(names))
	paths := make([]string, 0, len(names))
	stdin := false

	for _, name := range names {
		if name == stdinSource {
			stdin = true

			continue
		}

		path, ok := findDocument(name, search)
		if !ok {
			return nil, ErrNotFound.With(
				slog.String("file", name),
				slog.Any("path", search),
			)
		}

		if key, ok := makeFileKey(path); ok {
			if _, dup := seen[key]; dup {
				log.DebugContext(ctx, "skipping duplicate document",
					slog.String("file", path))

				continue
			}

			seen[key] = struct{}{}
		}

		paths = append(paths, path)
	}

	if stdin {
		paths = append(paths, stdinSource)
	}

	return paths, nil
}

// loadDocuments decodes every document in the file at path.
func loadDocuments(ctx context.Context, path string) ([]lang.Document, error) {
	if path == stdinSource {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}

		return document.Decode(stdioFrom(ctx).In,
			document.WithName("stdin"),
			document.WithDir(wd),
		)
	}

	return document.Open(path)
}

// newInterpreter returns an interpreter configured from the global flags.
func newInterpreter(ctx context.Context, opts ...lang.Option) *lang.Interpreter {
	base := []lang.Option{
		lang.WithMaxDepth(optionsFrom(ctx).MaxDepth),
		lang.WithLogger(log.Default()),
	}

	return lang.New(append(base, opts...)...)
}

// ttyPath is opened for readline input when standard input holds documents.
var ttyPath = "/dev/tty"

// readlineInput returns the reader that serves readline for paths. It is
// standard input unless a document is read from there, since decoding
// consumes all of it. Then it is [Stdio.Input] or the controlling terminal;
// without either, readline sees end of input. Call done when finished.
func readlineInput(ctx context.Context, paths []string) (r io.Reader, done func()) {
	stdio := stdioFrom(ctx)

	if !slices.Contains(paths, stdinSource) {
		return stdio.In, func() {}
	}

	if stdio.Input != nil {
		return stdio.Input, func() {}
	}

	tty, err := os.Open(ttyPath)
	if err != nil {
		log.DebugContext(ctx, "no terminal for readline input",
			slog.String("path", ttyPath),
			slog.Any("error", err),
		)

		return strings.NewReader(""), func() {}
	}

	return tty, func() { tty.Close() }
}
