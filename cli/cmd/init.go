package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/meow/log"
)

// Init writes the configuration file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// skipFlags are flag name prefixes never written to the configuration file.
var skipFlags = []string{"help", "pprof", "version"}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: configuration path undefined")
	}

	fail := ErrWriteConfig.With(slog.String("file", confPath))

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return fail.With(slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	b, err := yaml.Marshal(yaml.MapSlice{
		{Key: ConfigKey, Value: i.flagValues(ctx)},
	})
	if err != nil {
		return fail.Wrap(ErrYAMLMarshal.Wrap(err))
	}

	if err := os.WriteFile(confPath, b, 0o600); err != nil {
		return fail.Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// flagValues collects every set flag, in declaration order.
func (i *Init) flagValues(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)
	out := yaml.MapSlice{}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(skipFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		switch v := ktx.FlagValue(flag).(type) {
		case nil:
		case string:
			if v != "" {
				out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
			}
		case []string:
			if len(v) > 0 {
				out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
			}
		default:
			out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return out
}
