package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/meow/cli/cmd/repl"
	"github.com/ardnew/meow/lang"
	"github.com/ardnew/meow/log"
)

// Repl starts an interactive session.
type Repl struct {
	Files []string `arg:"" help:"Document files to evaluate before the prompt" name:"file" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	var files []string

	if len(r.Files) > 0 {
		paths, err := resolveSources(ctx, r.Files)
		if err != nil {
			return err
		}

		for _, path := range paths {
			if path != stdinSource {
				files = append(files, path)
			}
		}
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	log.DebugContext(ctx, "start repl",
		slog.Any("files", files),
		slog.String("cache", cacheDir),
	)

	return repl.Run(ctx, repl.Options{
		Files:    files,
		CacheDir: cacheDir,
		Logger:   log.Default(),
		Interpreter: []lang.Option{
			lang.WithMaxDepth(optionsFrom(ctx).MaxDepth),
			lang.WithLogger(log.Default()),
		},
	})
}
