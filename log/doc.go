// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The interpreter and the command-line tools share this package so that
// evaluation traces, per-document failures and CLI diagnostics all go
// through the same configurable handler.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("document evaluated", slog.String("file", path))
//	logger.Error("document failed", slog.Any("error", err))
//
// # Configuration
//
// Configure a logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
// The package-level functions ([Info], [Error], ...) write through a default
// logger that is reconfigured with [Config].
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. The interpreter logs every macro and
// function application at trace level.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty] enabled both
// formats are colorized for terminals.
//
// The zero value of [Logger] discards everything, so library code can hold
// a Logger field without checking for nil.
package log
