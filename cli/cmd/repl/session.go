package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/meow/document"
	"github.com/ardnew/meow/lang"
)

// session is the interpreter state behind a REPL: one environment that
// persists across entered paragraphs, and the buffered sink that collects
// their output and serves readline input queued with feed.
type session struct {
	in  *lang.Interpreter
	buf *lang.Buffer
	env *lang.Environment

	// transcript holds every paragraph that evaluated without error, in
	// order. It is what save and edit write out.
	transcript []lang.Paragraph
}

func newSession(opts ...lang.Option) *session {
	buf := new(lang.Buffer)
	in := lang.New(append(slices.Clone(opts), lang.WithSink(buf))...)

	return &session{in: in, buf: buf, env: in.Root().NewChild()}
}

// result is the outcome of evaluating one paragraph.
type result struct {
	output []string
	value  lang.Value
	err    error
}

// eval decodes line as a paragraph and evaluates it in the session
// environment. Output written before a failure is still returned.
func (s *session) eval(ctx context.Context, line string) result {
	para, err := document.ParseParagraph(line)
	if err != nil {
		return result{err: err}
	}

	v, err := s.in.EvalParagraph(ctx, s.env, para)
	if err == nil {
		s.transcript = append(s.transcript, para)
	}

	return result{output: s.buf.Drain(), value: v, err: err}
}

// load evaluates every document of the file at path in the session
// environment, keeping their bindings.
func (s *session) load(ctx context.Context, path string) ([]string, error) {
	docs, err := document.Open(path)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, docs)
}

// run evaluates docs in the session environment. Paragraphs that evaluate
// join the transcript one at a time, so the transcript replays exactly the
// bindings a failed document left behind.
func (s *session) run(ctx context.Context, docs []lang.Document) ([]string, error) {
	for _, doc := range docs {
		for i, para := range doc.Paragraphs {
			if _, err := s.in.EvalParagraph(ctx, s.env, para); err != nil {
				if e, ok := err.(*lang.Error); ok { //nolint:errorlint
					err = e.With(
						slog.String("document", doc.Name),
						slog.Int("paragraph", i+1),
					)
				}

				return s.buf.Drain(), err
			}

			s.transcript = append(s.transcript, para)
		}
	}

	return s.buf.Drain(), nil
}

// reset discards every binding and the transcript.
func (s *session) reset() {
	s.env = s.in.Root().NewChild()
	s.transcript = nil
}

// replace resets the session and evaluates docs in the fresh environment.
func (s *session) replace(ctx context.Context, docs []lang.Document) ([]string, error) {
	s.reset()

	return s.run(ctx, docs)
}

// save writes the transcript to w as a single document.
func (s *session) save(w io.Writer, name string) error {
	return document.Encode(w, lang.Document{Name: name, Paragraphs: s.transcript})
}

// feed queues lines for readline.
func (s *session) feed(lines ...string) int {
	s.buf.Feed(lines...)

	return s.buf.Pending()
}

// binding describes one name bound in the session environment.
type binding struct {
	symbol string
	run    string
	value  string
}

// bindings lists the session's bindings in the order they were made.
func (s *session) bindings() []binding {
	out := make([]binding, 0, s.env.Len())

	for key, v := range s.env.All() {
		run, err := document.FormatRun(key.Run("meow"))
		if err != nil {
			run = key.String()
		}

		out = append(out, binding{
			symbol: s.in.Symbols().Name(key),
			run:    run,
			value:  lang.Display(v),
		})
	}

	return out
}

// snippets maps the symbol of every builtin and every session binding to
// the YAML run that writes it.
func (s *session) snippets() map[string]string {
	out := make(map[string]string)

	add := func(key lang.StyleKey) {
		if run, err := document.FormatRun(key.Run("meow")); err == nil {
			out[s.in.Symbols().Name(key)] = run
		}
	}

	for key := range s.in.Root().All() {
		add(key)
	}

	for key := range s.env.All() {
		add(key)
	}

	return out
}

// errorText renders err with the attributes of any [lang.Error] or
// document error in its chain.
func errorText(err error) string {
	var sb strings.Builder

	sb.WriteString(err.Error())

	var e *lang.Error
	if errors.As(err, &e) && len(e.Attrs()) > 0 {
		sb.WriteString(" (")

		for i, a := range e.Attrs() {
			if i > 0 {
				sb.WriteString(", ")
			}

			fmt.Fprintf(&sb, "%s=%s", a.Key, a.Value.Resolve())
		}

		sb.WriteString(")")
	}

	if errors.Is(err, lang.ErrNoInput) {
		sb.WriteString("; queue input with: feed LINE")
	}

	return sb.String()
}
