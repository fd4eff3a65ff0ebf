package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{" Text ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelsRoundTrip(t *testing.T) {
	for name := range Levels() {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"), WithLevel(LevelTrace))
	logger.Trace("applied", slog.String("callee", "@print"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if rec["callee"] != "@print" {
		t.Errorf("callee = %v, want @print", rec["callee"])
	}

	if _, ok := rec["time"]; ok {
		t.Errorf("time should be omitted, got %v", rec["time"])
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithLevel(LevelWarn))
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message written below warn level: %q", out)
	}

	if !strings.Contains(out, "shown") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestLoggerWrapAndWith(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatText), WithTimeLayout(""))
	wrapped := base.Wrap(WithLevel(LevelDebug)).With(slog.String("file", "a.yaml"))

	if base.Level() != LevelInfo {
		t.Errorf("Wrap modified the receiver: level = %v", base.Level())
	}

	wrapped.Debug("evaluated")

	if out := buf.String(); !strings.Contains(out, "file=a.yaml") {
		t.Errorf("attribute missing from %q", out)
	}
}

func TestZeroLogger(t *testing.T) {
	var logger Logger

	// must not panic
	logger.Error("nothing")
	logger = logger.With(slog.Int("n", 1))

	if logger.TraceEnabled(t.Context()) {
		t.Error("zero logger reports trace enabled")
	}

	if Discard().Level() != DefaultLevel {
		t.Error("discard logger has unexpected level")
	}
}

func TestPrettyText(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithTimeLayout("none"),
	)
	logger.With(slog.String("doc", "x")).Error("failed", slog.Int("paragraph", 3))

	out := buf.String()
	for _, want := range []string{"ERROR", "failed", "paragraph", "3", "doc"} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output %q missing %q", out, want)
		}
	}

	if !strings.HasSuffix(out, "\n") {
		t.Errorf("pretty output not newline terminated: %q", out)
	}
}
