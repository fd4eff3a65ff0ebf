package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the mapping named name in a YAML configuration file:
//
//	config:
//	  log-level: debug
//	  log_format: text
//	  max-depth: 500
//	  path: [~/cats, /usr/share/meow]
//
// Flag names may use hyphens or underscores. A missing, empty or malformed
// file leaves every flag at its default. Command-line flags override
// values from the file.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil && !errors.Is(err, io.EOF) {
			return config{}, nil //nolint:nilerr
		}

		sub, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		conf := make(config, len(sub))
		for key, val := range sub {
			conf[strings.ReplaceAll(key, "_", "-")] = flagValue(val)
		}

		return conf, nil
	}
}

// config implements [kong.Resolver] over a flat map of flag names.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}

// flagValue converts a decoded YAML value into a form kong can parse.
// Numbers become strings; kong parses them with the flag's own mapper.
func flagValue(v any) any {
	switch v := v.(type) {
	case int64, uint64, float64:
		return fmt.Sprint(v)

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = flagValue(item)
		}

		return out

	default:
		return v
	}
}
