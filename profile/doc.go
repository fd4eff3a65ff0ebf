// Package profile provides optional runtime profiling for the meow
// interpreter.
//
// Profiling is backed by [github.com/pkg/profile] and only compiled in with
// the "pprof" build tag:
//
//	go build -tags pprof -o meow .
//	meow --pprof-mode=cpu run program.yaml
//
// Without the tag [Modes] is empty and [Profiler.Start] returns a no-op
// stopper, so callers never need to check which build they are in.
package profile
