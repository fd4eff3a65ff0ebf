// Package cli contains the command line interface for meow.
//
// # Usage
//
//	meow [flags] [run] [FILE ...]
//	meow [flags] dump [-F] [-S] [FILE ...]
//	meow [flags] repl [FILE ...]
//	meow [flags] init [-f]
//
// Run is the default command. With no files, or a file named "-", documents
// are read from standard input. File names are resolved against the working
// directory, then each --path directory, then each directory listed in
// MEOW_PATH; ".yaml" and ".yml" are tried when the name has no extension.
//
// # Configuration File
//
// Flag values may be stored in config.yaml under the user configuration
// directory, in a mapping named config:
//
//	config:
//	  log-level: debug
//	  max-depth: 500
//	  path: [~/cats]
//
// The init command writes this file from the flags it was given.
// Command-line flags override values from the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o meow .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
