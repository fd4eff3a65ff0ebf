package repl

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ardnew/meow/lang"
)

// Runs of the builtins and one user identifier, as typed at the prompt.
const (
	letRun      = `{text: meow, bold: true, color: 00B0F0, highlight: lightGray}`
	printRun    = `{text: meow, bold: true, color: EE0000, highlight: yellow}`
	readlineRun = `{text: meow, bold: true, color: 00B0F0, highlight: yellow}`
	nameRun     = `{text: nyan, bold: true}`
	openRun     = `{text: meow, italic: true}`
)

func paragraph(runs ...string) string { return "[" + strings.Join(runs, ", ") + "]" }

func TestSessionEval(t *testing.T) {
	s := newSession()
	ctx := t.Context()

	res := s.eval(ctx, paragraph(letRun, nameRun, "whiskers"))
	if res.err != nil {
		t.Fatalf("let: %v", res.err)
	}

	res = s.eval(ctx, paragraph(printRun, nameRun))
	if res.err != nil {
		t.Fatalf("print: %v", res.err)
	}

	if !reflect.DeepEqual(res.output, []string{"whiskers"}) {
		t.Errorf("output = %q, want [whiskers]", res.output)
	}

	if res.value != lang.Unit {
		t.Errorf("value = %s, want ()", lang.Display(res.value))
	}

	if len(s.transcript) != 2 {
		t.Errorf("transcript holds %d paragraphs, want 2", len(s.transcript))
	}
}

func TestSessionEvalErrors(t *testing.T) {
	s := newSession()

	if res := s.eval(t.Context(), "[unterminated"); res.err == nil {
		t.Error("malformed paragraph evaluated without error")
	}

	res := s.eval(t.Context(), paragraph(openRun, readlineRun, openRun))
	if !errors.Is(res.err, lang.ErrNoInput) {
		t.Fatalf("readline error = %v, want %v", res.err, lang.ErrNoInput)
	}

	if !strings.Contains(errorText(res.err), "feed LINE") {
		t.Errorf("errorText() = %q, want a hint about feed", errorText(res.err))
	}

	if len(s.transcript) != 0 {
		t.Errorf("failed paragraphs recorded: %d", len(s.transcript))
	}
}

func TestSessionFeed(t *testing.T) {
	s := newSession()

	if n := s.feed("purr"); n != 1 {
		t.Errorf("feed() = %d, want 1", n)
	}

	res := s.eval(t.Context(), paragraph(openRun, readlineRun, openRun))
	if res.err != nil {
		t.Fatalf("readline: %v", res.err)
	}

	if got := lang.Display(res.value); got != "purr" {
		t.Errorf("readline = %q, want %q", got, "purr")
	}
}

func TestSessionSaveLoad(t *testing.T) {
	s := newSession()
	ctx := t.Context()

	for _, line := range []string{
		paragraph(letRun, nameRun, "whiskers"),
		paragraph(printRun, nameRun),
	} {
		if res := s.eval(ctx, line); res.err != nil {
			t.Fatalf("eval %s: %v", line, res.err)
		}
	}

	var buf bytes.Buffer
	if err := s.save(&buf, "cats"); err != nil {
		t.Fatalf("save() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "cats.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded := newSession()

	output, err := loaded.load(ctx, path)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if !reflect.DeepEqual(output, []string{"whiskers"}) {
		t.Errorf("load() output = %q, want [whiskers]", output)
	}

	if got := loaded.bindings(); len(got) != 1 || got[0].value != "whiskers" {
		t.Errorf("bindings() = %+v", got)
	}

	if !reflect.DeepEqual(loaded.transcript, s.transcript) {
		t.Errorf("transcript = %#v, want %#v", loaded.transcript, s.transcript)
	}
}

func TestSessionReset(t *testing.T) {
	s := newSession()

	if res := s.eval(t.Context(), paragraph(letRun, nameRun, "whiskers")); res.err != nil {
		t.Fatal(res.err)
	}

	s.reset()

	if n := len(s.bindings()); n != 0 {
		t.Errorf("bindings after reset = %d", n)
	}

	if len(s.transcript) != 0 {
		t.Error("transcript survived reset")
	}

	if _, ok := s.snippets()["@print"]; !ok {
		t.Error("builtins lost after reset")
	}
}

func TestSessionSnippets(t *testing.T) {
	s := newSession()

	if res := s.eval(t.Context(), paragraph(letRun, nameRun, "whiskers")); res.err != nil {
		t.Fatal(res.err)
	}

	snippets := s.snippets()

	for _, name := range []string{"@let", "@print", "@readline", "$0"} {
		if _, ok := snippets[name]; !ok {
			t.Errorf("snippets() missing %s", name)
		}
	}

	// the snippet of a binding writes a run with the same style
	res := s.eval(t.Context(), paragraph(printRun, snippets["$0"]))
	if res.err != nil {
		t.Fatalf("eval snippet: %v", res.err)
	}

	if !reflect.DeepEqual(res.output, []string{"whiskers"}) {
		t.Errorf("output = %q, want [whiskers]", res.output)
	}
}

func TestSessionLoadPartial(t *testing.T) {
	src := "- " + paragraph(letRun, nameRun, "whiskers") + "\n" +
		"- " + paragraph(letRun, nameRun) + "\n" +
		"- " + paragraph(printRun, nameRun) + "\n"

	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	s := newSession()

	_, err := s.load(t.Context(), path)
	if !errors.Is(err, lang.ErrArity) {
		t.Fatalf("load() error = %v, want %v", err, lang.ErrArity)
	}

	if len(s.transcript) != 1 {
		t.Fatalf("transcript holds %d paragraphs, want the 1 that ran", len(s.transcript))
	}

	// replaying the transcript rebuilds the bindings the failed load left
	var buf bytes.Buffer
	if err := s.save(&buf, "partial"); err != nil {
		t.Fatal(err)
	}

	replayed := newSession()
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := replayed.load(t.Context(), path); err != nil {
		t.Fatalf("load() saved transcript: %v", err)
	}

	if !reflect.DeepEqual(replayed.bindings(), s.bindings()) {
		t.Errorf("bindings = %+v, want %+v", replayed.bindings(), s.bindings())
	}
}
