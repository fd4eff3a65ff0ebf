package lang

import (
	"reflect"
	"testing"
)

// Keyword runs used throughout the package tests.
var (
	letKw     = Run{Text: "meow", Bold: true, Color: ColorLet, Highlight: HighlightLightGray}
	lambdaKw  = Run{Text: "meow", Bold: true, Color: ColorLambda, Highlight: HighlightLightGray}
	integerKw = Run{Text: "meow", Bold: true, Color: ColorInteger, Highlight: HighlightLightGray}
	printKw   = Run{Text: "meow", Bold: true, Color: ColorPrint, Highlight: HighlightYellow}
	readKw    = Run{Text: "meow", Bold: true, Color: ColorReadline, Highlight: HighlightYellow}
	listKw    = Run{Text: "meow", Bold: true, Color: ColorList, Highlight: HighlightYellow}
	calcKw    = Run{Text: "meow", Bold: true, Color: ColorCalc, Highlight: HighlightYellow}

	xKw = Run{Text: "nyan", Bold: true}
	yKw = Run{Text: "meow", Color: 0x123456}
	fKw = Run{Text: "meow", Font: "Comic Sans MS"}

	openA = Run{Text: "meow", Italic: true}
	openB = Run{Text: "meow", Italic: true, Color: 0x00FF00}
	quote = Run{Text: "meow", Underline: "single"}
	wavy  = Run{Text: "meow", Underline: "wave"}
)

func TestClassify(t *testing.T) {
	style := Run{Bold: true, Color: 0xEE0000, Highlight: HighlightYellow}

	var first StyleKey

	for i, word := range Keywords() {
		r := style
		r.Text = word

		key, ok := Classify(r)
		if !ok {
			t.Fatalf("Classify(%q) is not a keyword", word)
		}

		if i == 0 {
			first = key
		} else if key != first {
			t.Errorf("Classify(%q) = %v, want %v", word, key, first)
		}
	}

	tests := []struct {
		name string
		run  Run
		want bool
	}{
		{"padded upper case", Run{Text: "  MEOW\t"}, true},
		{"cyrillic upper case", Run{Text: "МЯУ"}, true},
		{"plain word", Run{Text: "woof"}, false},
		{"empty", Run{}, false},
		{"image", Run{Text: "meow", Image: []byte{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, got := Classify(tt.run); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnderlineClass(t *testing.T) {
	tests := map[UnderlinePattern]Underline{
		"":       UnderlineNone,
		"none":   UnderlineNone,
		"single": UnderlineSingle,
		"Single": UnderlineSingle,
		"double": UnderlineOther,
		"wave":   UnderlineOther,
	}

	for p, want := range tests {
		if got := p.Class(); got != want {
			t.Errorf("%q.Class() = %v, want %v", p, got, want)
		}
	}
}

func TestFindMatch(t *testing.T) {
	runs := []Run{openA, PlainRun("a"), openB, PlainRun("b"), openA}
	key := openA.Style()

	if got := FindMatch(runs, key, 0); got != 4 {
		t.Errorf("FindMatch() = %d, want 4", got)
	}

	if got := FindMatch(runs, openB.Style(), 2); got != len(runs) {
		t.Errorf("unterminated FindMatch() = %d, want %d", got, len(runs))
	}

	if got := FindMatch(runs, key, 4); got != len(runs) {
		t.Errorf("FindMatch() from last = %d, want %d", got, len(runs))
	}
}

func TestParse(t *testing.T) {
	hello := PlainRun("hello")
	blank := PlainRun("  ")

	tests := []struct {
		name string
		runs []Run
		top  bool
		want Expression
	}{
		{
			name: "single literal unwrapped",
			runs: []Run{hello},
			top:  true,
			want: RichText{Runs: []Run{hello}},
		},
		{
			name: "single literal nested",
			runs: []Run{hello},
			top:  false,
			want: ExpressionList{Nodes: []Expression{RichText{Runs: []Run{hello}}}},
		},
		{
			name: "empty",
			runs: nil,
			top:  true,
			want: ExpressionList{Nodes: []Expression{}},
		},
		{
			name: "application",
			runs: []Run{printKw, hello},
			top:  true,
			want: ExpressionList{Nodes: []Expression{
				Identifier{Key: printKw.Style()},
				RichText{Runs: []Run{hello}},
			}},
		},
		{
			name: "blank runs trimmed",
			runs: []Run{blank, printKw, blank, hello, blank, PlainRun("world"), blank, blank},
			top:  true,
			want: ExpressionList{Nodes: []Expression{
				Identifier{Key: printKw.Style()},
				RichText{Runs: []Run{hello, blank, PlainRun("world")}},
			}},
		},
		{
			name: "bracket group",
			runs: []Run{printKw, openA, xKw, hello, openA, yKw},
			top:  true,
			want: ExpressionList{Nodes: []Expression{
				Identifier{Key: printKw.Style()},
				ExpressionList{Nodes: []Expression{
					Identifier{Key: xKw.Style()},
					RichText{Runs: []Run{hello}},
				}},
				Identifier{Key: yKw.Style()},
			}},
		},
		{
			name: "nested brackets with different styles",
			runs: []Run{openA, openB, xKw, openB, openA},
			top:  true,
			want: ExpressionList{Nodes: []Expression{
				ExpressionList{Nodes: []Expression{
					Identifier{Key: xKw.Style()},
				}},
			}},
		},
		{
			name: "unterminated bracket",
			runs: []Run{openA, xKw, yKw},
			top:  true,
			want: ExpressionList{Nodes: []Expression{
				Identifier{Key: xKw.Style()},
				Identifier{Key: yKw.Style()},
			}},
		},
		{
			name: "underline literal is opaque",
			runs: []Run{quote, openA, xKw, quote},
			top:  true,
			want: RichText{Runs: []Run{openA, xKw}},
		},
		{
			name: "other underline region dropped",
			runs: []Run{xKw, wavy, yKw, hello, wavy, hello},
			top:  true,
			want: ExpressionList{Nodes: []Expression{
				Identifier{Key: xKw.Style()},
				RichText{Runs: []Run{hello}},
			}},
		},
		{
			name: "differently spelled closer",
			runs: []Run{openA, xKw, {Text: "喵", Italic: true}, yKw},
			top:  true,
			want: ExpressionList{Nodes: []Expression{
				ExpressionList{Nodes: []Expression{
					Identifier{Key: xKw.Style()},
				}},
				Identifier{Key: yKw.Style()},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.runs, tt.top)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() =\n  %#v\nwant\n  %#v", got, tt.want)
			}
		})
	}
}

func TestSymbolMapFormat(t *testing.T) {
	reg := DefaultRegistry()
	m := NewSymbolMap(reg)

	expr := Parse([]Run{printKw, openA, xKw, PlainRun("hi"), openA, yKw, xKw}, true)

	want := `[@print, [$0, "hi"], $1, $0]`
	if got := m.Format(expr); got != want {
		t.Errorf("Format() = %s, want %s", got, want)
	}

	tree, ok := m.Tree(expr).([]any)
	if !ok || len(tree) != 4 || tree[0] != "@print" {
		t.Errorf("Tree() = %#v", m.Tree(expr))
	}
}
