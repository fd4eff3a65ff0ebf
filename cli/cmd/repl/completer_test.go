package repl

import (
	"slices"
	"testing"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		word   string
		start  int
		end    int
	}{
		{"", 0, "", 0, 0},
		{"@pri", 4, "@pri", 0, 4},
		{"[@pri", 5, "@pri", 1, 5},
		{"[{text: me", 10, "me", 8, 10},
		{"[a, $1]", 5, "$1", 4, 6},
		{"[a, b]", 3, "", 3, 3},
		{"hello", 99, "hello", 0, 5},
		{"[ニャー]", 4, "ニャー", 1, 10},
	}

	for _, tt := range tests {
		word, start, end := wordBounds(tt.input, tt.cursor)
		if word != tt.word || start != tt.start || end != tt.end {
			t.Errorf("wordBounds(%q, %d) = %q, %d, %d, want %q, %d, %d",
				tt.input, tt.cursor, word, start, end, tt.word, tt.start, tt.end)
		}
	}
}

func TestInMapping(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"[hello", false},
		{"[{text: meow, bo", true},
		{"[{text: meow}, he", false},
		{"}}{", true},
	}

	for _, tt := range tests {
		if got := inMapping(tt.input, len(tt.input)); got != tt.want {
			t.Errorf("inMapping(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEvalCandidates(t *testing.T) {
	m := model{snippets: map[string]string{"@print": "{...}", "$0": "{...}"}}

	attrs := m.evalCandidates("[{text: meow, ", 14)
	for _, want := range []string{"bold", "highlight", "image_data", "lightGray"} {
		if !slices.Contains(attrs, want) {
			t.Errorf("candidates inside a mapping lack %q", want)
		}
	}

	names := m.evalCandidates("[", 1)
	if len(names) < 2 || names[0] != "$0" || names[1] != "@print" {
		t.Errorf("candidates = %v, want sorted symbols first", names)
	}

	if !slices.Contains(names, "meow") {
		t.Error("candidates lack the keyword spelling meow")
	}
}

func TestExpand(t *testing.T) {
	m := model{snippets: map[string]string{"@print": "{text: meow}"}}

	if got := m.expand("@print"); got != "{text: meow}" {
		t.Errorf("expand(@print) = %q", got)
	}

	if got := m.expand("bold"); got != "bold" {
		t.Errorf("expand(bold) = %q", got)
	}
}
