package lang

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
)

func TestRenderStyles(t *testing.T) {
	tests := []struct {
		name string
		run  Run
		want string
	}{
		{"plain", PlainRun("hi"), "hi"},
		{"bold", Run{Text: "hi", Bold: true}, "\x1b[1mhi\x1b[0m"},
		{"italic", Run{Text: "hi", Italic: true}, "\x1b[3mhi\x1b[0m"},
		{"underline", Run{Text: "hi", Underline: "double"}, "\x1b[4mhi\x1b[0m"},
		{"bold highlight", Run{Text: "hi", Bold: true, Highlight: HighlightYellow}, "\x1b[1;43mhi\x1b[0m"},
		{"light gray", Run{Text: "hi", Highlight: HighlightLightGray}, "\x1b[47mhi\x1b[0m"},
		{"empty text", Run{Bold: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(Text{Runs: []Run{tt.run}})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderColor(t *testing.T) {
	got, err := Render(Text{Runs: []Run{{Text: "red", Color: 0xEE0000}}})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(got, "\x1b[38;2;") || !strings.Contains(got, "mred\x1b[0m") {
		t.Errorf("Render() = %q, want a true color foreground", got)
	}
}

func TestRenderValues(t *testing.T) {
	got, err := Render(TextOf("a"), Integer(-3), Unit, List{Items: []Value{TextOf("x"), Integer(1)}})
	if err != nil {
		t.Fatal(err)
	}

	if want := "a\n-3\n()\n[x, 1]"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	return buf.Bytes()
}

func TestRenderImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	img.Set(0, 2, color.NRGBA{1, 2, 3, 255})
	img.Set(1, 2, color.NRGBA{4, 5, 6, 255})

	got, err := Render(Text{Runs: []Run{
		PlainRun("cat:"),
		{Image: encodePNG(t, img)},
	}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "cat:\n" +
		"\x1b[38;2;255;0;0m\x1b[48;2;0;0;255m▀" +
		"\x1b[38;2;0;255;0m\x1b[48;2;255;255;255m▀" +
		"\x1b[0m\n" +
		"\x1b[38;2;1;2;3m\x1b[49m▀" +
		"\x1b[38;2;4;5;6m\x1b[49m▀" +
		"\x1b[0m\n"

	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderImageDecodeError(t *testing.T) {
	_, err := Render(Text{Runs: []Run{{Image: []byte("not an image")}}})
	if !errors.Is(err, ErrImageDecode) {
		t.Errorf("error = %v, want %v", err, ErrImageDecode)
	}
}

func TestPrintImageDecodeAbortsParagraph(t *testing.T) {
	in, buf := newTestInterpreter()

	_, err := in.EvalParagraph(t.Context(), in.Root().NewChild(), []Run{
		printKw, {Text: "x", Image: []byte{0, 1, 2}},
	})
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("error = %v, want %v", err, ErrImageDecode)
	}

	if out := buf.Drain(); len(out) != 0 {
		t.Errorf("partial output written: %q", out)
	}
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer

	c := NewConsole(strings.NewReader("first\r\nlast"), &out)

	tests := []struct {
		prompt string
		want   string
		err    error
	}{
		{"> ", "first", nil},
		{"", "last", nil},
		{"> ", "", io.EOF},
	}

	for _, tt := range tests {
		got, err := c.ReadLine(tt.prompt)
		if !errors.Is(err, tt.err) || got != tt.want {
			t.Errorf("ReadLine() = %q, %v, want %q, %v", got, err, tt.want, tt.err)
		}
	}

	if err := c.WriteLine("done"); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "> > done\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEnvironmentKeys(t *testing.T) {
	root := NewEnvironment()
	child := root.NewChild()

	child.Bind(yKw.Style(), Integer(1))
	child.Bind(xKw.Style(), Integer(2))
	child.Bind(yKw.Style(), Integer(3))

	keys := child.Keys()
	if len(keys) != 2 || keys[0] != yKw.Style() || keys[1] != xKw.Style() {
		t.Errorf("Keys() = %v, want first-bind order", keys)
	}

	if v, _ := child.Lookup(yKw.Style()); v != Integer(3) {
		t.Errorf("rebinding did not overwrite: %v", v)
	}

	root.Bind(fKw.Style(), Integer(4))

	if v, ok := child.Lookup(fKw.Style()); !ok || v != Integer(4) {
		t.Errorf("parent binding not visible: %v, %v", v, ok)
	}

	if child.Parent() != root || root.Parent() != nil {
		t.Error("unexpected parent links")
	}

	n := 0
	for range child.All() {
		n++
	}

	if n != 2 {
		t.Errorf("All() yielded %d bindings, want 2", n)
	}
}

func TestParseHighlightAndColor(t *testing.T) {
	for _, s := range []string{"lightGray", "light-gray", "LIGHT_GRAY"} {
		if h, err := ParseHighlight(s); err != nil || h != HighlightLightGray {
			t.Errorf("ParseHighlight(%q) = %v, %v", s, h, err)
		}
	}

	if _, err := ParseHighlight("chartreuse"); err == nil {
		t.Error("ParseHighlight accepted an unknown name")
	}

	c, err := ParseColor("#ee0000")
	if err != nil || c != ColorPrint {
		t.Errorf("ParseColor = %v, %v", c, err)
	}

	if c, err := ParseColor("auto"); err != nil || c != 0 {
		t.Errorf("ParseColor(auto) = %v, %v", c, err)
	}

	if _, err := ParseColor("red"); err == nil {
		t.Error("ParseColor accepted a color name")
	}
}
