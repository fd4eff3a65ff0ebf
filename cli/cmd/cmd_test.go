package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/meow/lang"
	"github.com/ardnew/meow/pkg"
)

// Paragraphs of test documents.
const (
	printHello = "- [{text: meow, bold: true, color: EE0000, highlight: yellow}, hello]\n"
	printBye   = "- [{text: meow, bold: true, color: EE0000, highlight: yellow}, bye]\n"
	// let with a single argument fails with an arity error.
	badLet = "- [{text: meow, bold: true, color: 00B0F0, highlight: lightGray}, {text: nyan, bold: true}]\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func testContext(t *testing.T, in string, out *bytes.Buffer, opts Options) context.Context {
	t.Helper()

	ctx := WithOptions(t.Context(), opts)

	return WithStdio(ctx, Stdio{In: strings.NewReader(in), Out: out})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	hello := writeFile(t, dir, "hello.yaml", printHello)
	bye := writeFile(t, dir, "bye.yml", printBye)

	tests := []struct {
		name  string
		files []string
		stdin string
		want  string
	}{
		{"files in order", []string{hello, bye}, "", "hello\nbye\n"},
		{"stdin by default", nil, printBye, "bye\n"},
		{"stdin last", []string{"-", hello}, printBye, "hello\nbye\n"},
		{"duplicates once", []string{hello, hello, bye}, "", "hello\nbye\n"},
		{"extension search", []string{filepath.Join(dir, "bye")}, "", "bye\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := testContext(t, tt.stdin, &out, Options{MaxDepth: lang.DefaultMaxDepth})

			if err := (&Run{Files: tt.files}).Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunContinuesPastFailure(t *testing.T) {
	dir := t.TempDir()
	multi := writeFile(t, dir, "multi.yaml", printHello+"---\n"+badLet+"---\n"+printBye)
	broken := writeFile(t, dir, "broken.yaml", "- [unterminated\n")

	var out bytes.Buffer

	ctx := testContext(t, "", &out, Options{})

	err := (&Run{Files: []string{broken, multi}}).Run(ctx)
	if !errors.Is(err, pkg.ErrDocumentsFailed) {
		t.Fatalf("Run() error = %v, want %v", err, pkg.ErrDocumentsFailed)
	}

	if !errors.Is(err, ErrLoad) || !errors.Is(err, ErrEvaluate) {
		t.Errorf("Run() error = %v, want both load and evaluate failures", err)
	}

	if !errors.Is(err, lang.ErrArity) {
		t.Errorf("Run() error = %v, want the cause %v", err, lang.ErrArity)
	}

	if want := "hello\nbye\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunReadlineWithStdinDocuments(t *testing.T) {
	// (print (readline))
	const echo = "- [{text: meow, italic: true}, " +
		"{text: meow, bold: true, color: EE0000, highlight: yellow}, " +
		"{text: meow, italic: true, color: 00FF00}, " +
		"{text: meow, bold: true, color: 00B0F0, highlight: yellow}, " +
		"{text: meow, italic: true, color: 00FF00}, " +
		"{text: meow, italic: true}]\n"

	path := writeFile(t, t.TempDir(), "echo.yaml", echo)

	tests := []struct {
		name  string
		files []string
		stdin string
		input string
	}{
		{"file reads stdin", []string{path}, "purr\n", ""},
		{"stdin document reads input", nil, echo, "purr\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithOptions(t.Context(), Options{})
			ctx = WithStdio(ctx, Stdio{
				In:    strings.NewReader(tt.stdin),
				Out:   &out,
				Input: strings.NewReader(tt.input),
			})

			if err := (&Run{Files: tt.files}).Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if out.String() != "purr\n" {
				t.Errorf("output = %q, want %q", out.String(), "purr\n")
			}
		})
	}
}

func TestReadlineInputNoTerminal(t *testing.T) {
	saved := ttyPath
	t.Cleanup(func() { ttyPath = saved })

	ttyPath = filepath.Join(t.TempDir(), "missing-tty")

	r, closeInput := readlineInput(t.Context(), []string{stdinSource})
	defer closeInput()

	if b, _ := io.ReadAll(r); len(b) != 0 {
		t.Errorf("input = %q, want empty", b)
	}
}

func TestRunNotFound(t *testing.T) {
	var out bytes.Buffer

	ctx := testContext(t, "", &out, Options{})

	err := (&Run{Files: []string{filepath.Join(t.TempDir(), "missing")}}).Run(ctx)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Run() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDump(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hello.yaml", printHello)

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer

		if err := (&Dump{Files: []string{path}}).Run(testContext(t, "", &out, Options{})); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		var got struct {
			Name       string `yaml:"name"`
			Paragraphs []any  `yaml:"paragraphs"`
		}

		if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("output is not YAML: %v\n%s", err, out.String())
		}

		if got.Name != "hello" || len(got.Paragraphs) != 1 {
			t.Errorf("output = %+v", got)
		}
	})

	t.Run("flat", func(t *testing.T) {
		var out bytes.Buffer

		d := &Dump{Files: []string{path}, Flat: true, Symbols: true}
		if err := d.Run(testContext(t, "", &out, Options{})); err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		got := out.String()
		for _, want := range []string{"# hello\n", `[@print, "hello"]`, "Symbols:", "@let"} {
			if !strings.Contains(got, want) {
				t.Errorf("output lacks %q:\n%s", want, got)
			}
		}
	})
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{"create_new_config", false, false, nil},
		{"overwrite_existing_with_force", true, true, nil},
		{"fail_without_force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				writeFile(t, filepath.Dir(confPath), "config.yaml", "existing content")
			}

			var cli struct {
				Path     []string `short:"I"`
				MaxDepth int      `default:"500"`
				Pprof    string
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse([]string{"-I", "docs"})
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(t.Context(), ktx))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				return
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]map[string]any
			if err := yaml.Unmarshal(content, &got); err != nil {
				t.Fatalf("config is not YAML: %v", err)
			}

			conf := got[ConfigKey]
			if _, ok := conf["pprof"]; ok {
				t.Error("config holds a skipped flag")
			}

			if conf["max-depth"] != uint64(500) && conf["max-depth"] != int64(500) {
				t.Errorf("max-depth = %#v, want 500", conf["max-depth"])
			}

			if path, _ := conf["path"].([]any); len(path) != 1 || path[0] != "docs" {
				t.Errorf("path = %#v, want [docs]", conf["path"])
			}
		})
	}
}

func TestSearchPath(t *testing.T) {
	env, flag := t.TempDir(), t.TempDir()
	missing := filepath.Join(env, "missing")

	t.Setenv(PathEnv, missing+string(os.PathListSeparator)+env)

	got := SearchPath(flag, missing)
	if len(got) != 2 || got[0] != flag || got[1] != env {
		t.Errorf("SearchPath() = %q, want [%s %s]", got, flag, env)
	}
}

func TestFindDocument(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, second, "cats.yml", printHello)
	shadow := writeFile(t, first, "cats.yaml", printHello)
	only := writeFile(t, second, "dogs", printHello)

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"cats", shadow, true},
		{"dogs", only, true},
		{shadow, shadow, true},
		{"birds", "", false},
	}

	for _, tt := range tests {
		got, ok := findDocument(tt.name, []string{first, second})
		if got != tt.want || ok != tt.ok {
			t.Errorf("findDocument(%q) = %q, %v, want %q, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveSourcesSymlink(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.yaml", printHello)
	link := filepath.Join(dir, "alias.yaml")

	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	got, err := resolveSources(t.Context(), []string{link, "-", path})
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 || got[0] != link || got[1] != stdinSource {
		t.Errorf("resolveSources() = %q, want [%s -]", got, link)
	}
}
