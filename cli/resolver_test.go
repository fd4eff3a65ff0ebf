package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want config
	}{
		{
			name: "flags",
			src: `config:
  log_level: debug
  max-depth: 500
  path: [cats, dogs]
  log-pretty: false
`,
			want: config{
				"log-level":  "debug",
				"max-depth":  "500",
				"path":       []any{"cats", "dogs"},
				"log-pretty": false,
			},
		},
		{name: "empty", src: "", want: config{}},
		{name: "missing mapping", src: "other: {a: 1}\n", want: config{}},
		{name: "malformed", src: "config: [unterminated\n", want: config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resolve("config")(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}

			if !reflect.DeepEqual(r, tt.want) {
				t.Errorf("resolve() = %#v, want %#v", r, tt.want)
			}
		})
	}
}

func TestResolveFlags(t *testing.T) {
	var cli struct {
		Level    string   `default:"info"`
		MaxDepth int      `default:"10"`
		Path     []string
		Pretty   bool `default:"true" negatable:""`
	}

	loader := func(r ...string) kong.Option {
		res, err := resolve("config")(strings.NewReader(strings.Join(r, "\n")))
		if err != nil {
			t.Fatal(err)
		}

		return kong.Resolvers(res)
	}

	parser, err := kong.New(&cli, loader(
		"config:",
		"  level: debug",
		"  max_depth: 500",
		"  path: [cats, dogs]",
		"  pretty: false",
	))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--level", "warn"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.Level != "warn" {
		t.Errorf("level = %q, want the command-line value warn", cli.Level)
	}

	if cli.MaxDepth != 500 {
		t.Errorf("max-depth = %d, want 500", cli.MaxDepth)
	}

	if !reflect.DeepEqual(cli.Path, []string{"cats", "dogs"}) {
		t.Errorf("path = %q", cli.Path)
	}

	if cli.Pretty {
		t.Error("pretty = true, want false from the file")
	}
}

func TestLogScan(t *testing.T) {
	var f logConfig

	f.scan([]string{
		"run", "--log-level", "debug", "--log-format=text",
		"--no-log-pretty", "--log-caller=true", "file.yaml",
	})

	if f.Level != "debug" || f.Format != "text" || f.Pretty || !f.Caller {
		t.Errorf("scan() = %+v", f)
	}
}
