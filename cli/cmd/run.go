package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/meow/lang"
	"github.com/ardnew/meow/log"
	"github.com/ardnew/meow/pkg"
)

// Run evaluates documents in order.
type Run struct {
	Files []string `arg:"" help:"Document files or '-' for stdin" name:"file" optional:""`
}

// Run executes the run command.
//
// Documents read from standard input leave nothing there for readline, so
// readline then reads the controlling terminal.
//
// A document that fails to load or evaluate is logged and skipped; the
// remaining documents still run. The returned error then lists every
// failure and wraps [pkg.ErrDocumentsFailed].
func (r *Run) Run(ctx context.Context) error {
	paths, err := resolveSources(ctx, r.Files)
	if err != nil {
		return err
	}

	input, closeInput := readlineInput(ctx, paths)
	defer closeInput()

	in := newInterpreter(ctx,
		lang.WithSink(lang.NewConsole(input, stdioFrom(ctx).Out)))

	var failed pkg.Error

	// fail logs err with its own attributes and records it, wrapped by
	// wrap, for the final report.
	fail := func(wrap *Error, err error, attrs ...slog.Attr) {
		log.ErrorContext(ctx, "document failed",
			append(attrs, slog.Any("error", err))...)

		failed = failed.Wrap(wrap.Wrap(err).With(attrs...))
	}

	for _, path := range paths {
		docs, err := loadDocuments(ctx, path)
		if err != nil {
			fail(ErrLoad, err, slog.String("file", path))

			continue
		}

		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return err
			}

			log.DebugContext(ctx, "run document",
				slog.String("file", path),
				slog.String("document", doc.Name),
			)

			if err := in.EvalDocument(ctx, doc); err != nil {
				fail(ErrEvaluate, err,
					slog.String("file", path),
					slog.String("document", doc.Name),
				)
			}
		}
	}

	if len(failed) > 0 {
		return failed.Wrap(pkg.ErrDocumentsFailed)
	}

	return nil
}
