package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

//nolint:gochecknoglobals
var (
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	durationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	levelStyle = map[Level]lipgloss.Style{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// prettyHandler writes colorized records in either a key=value line or an
// indented JSON-like block.
type prettyHandler struct {
	opts       slog.HandlerOptions
	format     Format
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		format:     format,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, Level(r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify(a))

		return true
	})

	buf := new(bytes.Buffer)

	switch h.format {
	case FormatJSON:
		buf.WriteString("{\n")

		for i, a := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  ")
			buf.WriteString(keyStyle.Render(a.Key))
			buf.WriteString(": ")
			writeValue(buf, a.Value)
		}

		buf.WriteString("\n}\n")

	default:
		for i, a := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(keyStyle.Render(a.Key))
			buf.WriteByte('=')
			writeValue(buf, a.Value)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualifyAll(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) > 0 {
		a.Key = strings.Join(h.groups, ".") + "." + a.Key
	}

	return a
}

func (h *prettyHandler) qualifyAll(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.qualify(a)
	}

	return out
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(stringStyle.Render(v.String()))

	case slog.KindInt64:
		buf.WriteString(numberStyle.Render(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(numberStyle.Render(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(
			numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64)),
		)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(trueStyle.Render("true"))
		} else {
			buf.WriteString(falseStyle.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(durationStyle.Render(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(timeStyle.Render(v.Time().Format(time.RFC3339)))

	case slog.KindGroup:
		buf.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(keyStyle.Render(a.Key))
			buf.WriteByte('=')
			writeValue(buf, a.Value)
		}

		buf.WriteByte('}')

	default:
		if level, ok := v.Any().(Level); ok {
			style, ok := levelStyle[level]
			if !ok {
				style = levelStyle[LevelInfo]
			}

			buf.WriteString(style.Render(strings.ToUpper(level.String())))

			return
		}

		buf.WriteString(stringStyle.Render(fmt.Sprint(v.Any())))
	}
}
