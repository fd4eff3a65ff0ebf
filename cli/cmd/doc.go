// Package cmd implements the meow subcommands: run, dump, repl and init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)

// ConfigKey is the key of the configuration file mapping that holds flag
// values.
const ConfigKey = "config"
