package document

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"

	"github.com/ardnew/meow/lang"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax       = lang.NewError("invalid YAML")
	ErrShape        = lang.NewError("unexpected document shape")
	ErrUnknownKey   = lang.NewError("unknown run attribute")
	ErrInvalidValue = lang.NewError("invalid run attribute")
	ErrImage        = lang.NewError("failed to load image")
)

// runKeys lists the attributes a run mapping may hold.
var runKeys = []string{
	"text", "italic", "bold", "underline", "color", "highlight",
	"font", "size", "image", "image_data",
}

// Keys returns the attribute names a run mapping may hold.
func Keys() []string { return slices.Clone(runKeys) }

type config struct {
	name string
	dir  string
}

// Option configures how documents are decoded.
type Option func(config) config

// WithName sets the name given to documents that do not declare one.
// When a stream holds several documents, unnamed ones are numbered.
func WithName(name string) Option {
	return func(c config) config {
		c.name = name

		return c
	}
}

// WithDir sets the directory that relative image paths are resolved
// against.
func WithDir(dir string) Option {
	return func(c config) config {
		c.dir = dir

		return c
	}
}

func makeConfig(opts ...Option) config {
	c := config{name: "-", dir: "."}
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// Open reads every document in the file at path. Documents are named after
// the file and images resolve relative to its directory.
func Open(path string, opts ...Option) ([]lang.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts = append([]Option{
		WithName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))),
		WithDir(filepath.Dir(path)),
	}, opts...)

	return Decode(f, opts...)
}

// Decode reads every document in the YAML stream r.
func Decode(r io.Reader, opts ...Option) ([]lang.Document, error) {
	c := makeConfig(opts...)
	dec := yaml.NewDecoder(r)

	var raw []any

	for {
		var node ast.Node

		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, ErrSyntax.Wrap(err).
				With(slog.Int("document", len(raw)+1))
		}

		v, err := newTree().value(node)
		if err != nil {
			return nil, withAttr(err, slog.Int("document", len(raw)+1))
		}

		if v != nil {
			raw = append(raw, v)
		}
	}

	docs := make([]lang.Document, 0, len(raw))

	for i, v := range raw {
		name := c.name
		if len(raw) > 1 {
			name = c.name + "#" + strconv.Itoa(i+1)
		}

		doc, err := c.document(name, v)
		if err != nil {
			return nil, withAttr(err, slog.Int("document", i+1))
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// ParseParagraph decodes a single paragraph written on one line, usually as
// a flow sequence:
//
//	[{text: meow, bold: true, color: EE0000, highlight: yellow}, hello]
func ParseParagraph(line string, opts ...Option) (lang.Paragraph, error) {
	c := makeConfig(opts...)

	var node ast.Node
	if err := yaml.Unmarshal([]byte(line), &node); err != nil {
		return nil, ErrSyntax.Wrap(err)
	}

	v, err := newTree().value(node)
	if err != nil {
		return nil, err
	}

	return c.paragraph(v)
}

func (c config) document(name string, v any) (lang.Document, error) {
	doc := lang.Document{Name: name}

	var paras any

	switch v := v.(type) {
	case []any:
		paras = v

	case map[string]any:
		for key, val := range v {
			switch key {
			case "name":
				doc.Name = scalar(val)
			case "paragraphs":
				paras = val
			default:
				return doc, ErrShape.Wrap(fmt.Errorf("unknown key %q", key))
			}
		}

	default:
		return doc, ErrShape.Wrap(
			fmt.Errorf("expected mapping or sequence, got %s", kind(v)),
		)
	}

	if paras == nil {
		return doc, nil
	}

	seq, ok := paras.([]any)
	if !ok {
		return doc, ErrShape.Wrap(
			fmt.Errorf("paragraphs: expected sequence, got %s", kind(paras)),
		)
	}

	doc.Paragraphs = make([]lang.Paragraph, 0, len(seq))

	for i, p := range seq {
		para, err := c.paragraph(p)
		if err != nil {
			return doc, withAttr(err, slog.Int("paragraph", i+1))
		}

		doc.Paragraphs = append(doc.Paragraphs, para)
	}

	return doc, nil
}

func (c config) paragraph(v any) (lang.Paragraph, error) {
	seq, ok := v.([]any)
	if !ok {
		if v == nil {
			return lang.Paragraph{}, nil
		}

		seq = []any{v}
	}

	para := make(lang.Paragraph, 0, len(seq))

	for i, item := range seq {
		run, err := c.run(item)
		if err != nil {
			return nil, withAttr(err, slog.Int("run", i+1))
		}

		para = append(para, run)
	}

	return para, nil
}

func (c config) run(v any) (lang.Run, error) {
	switch v := v.(type) {
	case nil:
		return lang.Run{}, nil

	case map[string]any:
		return c.styledRun(v)

	case []any:
		return lang.Run{}, ErrShape.Wrap(errors.New("nested sequence in paragraph"))

	default:
		return lang.PlainRun(scalar(v)), nil
	}
}

func (c config) styledRun(m map[string]any) (lang.Run, error) {
	var run lang.Run

	for key, val := range m {
		if !slices.Contains(runKeys, key) {
			return run, ErrUnknownKey.With(slog.String("key", key))
		}

		if err := c.setAttr(&run, key, val); err != nil {
			return run, ErrInvalidValue.Wrap(err).With(
				slog.String("key", key),
				slog.String("value", scalar(val)),
			)
		}
	}

	return run, nil
}

func (c config) setAttr(run *lang.Run, key string, val any) (err error) {
	switch key {
	case "text":
		run.Text = scalar(val)

	case "italic":
		run.Italic, err = flag(val)

	case "bold":
		run.Bold, err = flag(val)

	case "underline":
		run.Underline = lang.UnderlinePattern(scalar(val))

	case "color":
		run.Color, err = lang.ParseColor(scalar(val))

	case "highlight":
		run.Highlight, err = lang.ParseHighlight(scalar(val))

	case "font":
		run.Font = scalar(val)

	case "size":
		run.FontSize, err = number(val)

	case "image":
		run.Image, err = c.readImage(scalar(val))

	case "image_data":
		run.Image, err = base64.StdEncoding.DecodeString(
			strings.Join(strings.Fields(scalar(val)), ""),
		)
	}

	return err
}

func (c config) readImage(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("empty image path")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrImage.Wrap(err).With(slog.String("path", path))
	}

	return b, nil
}

func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case literal:
		return v.text
	default:
		return fmt.Sprint(v)
	}
}

func flag(v any) (bool, error) {
	switch v := v.(type) {
	case nil:
		return false, nil
	case literal:
		return flag(v.value)
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("expected bool, got %s", kind(v))
	}
}

func number(v any) (float64, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case literal:
		return number(v.value)
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("expected number, got %s", kind(v))
	}
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	default:
		return "scalar"
	}
}

// withAttr attaches attr to err when err is a *lang.Error.
func withAttr(err error, attr slog.Attr) error {
	if e, ok := err.(*lang.Error); ok { //nolint:errorlint
		return e.With(attr)
	}

	return err
}

// Encode writes docs to w as a YAML stream that [Decode] reads back.
// Image bytes are written inline as image_data.
func Encode(w io.Writer, docs ...lang.Document) error {
	var buf bytes.Buffer

	for i, doc := range docs {
		if i > 0 {
			buf.WriteString("---\n")
		}

		paras := make([][]any, len(doc.Paragraphs))
		for j, para := range doc.Paragraphs {
			paras[j] = make([]any, len(para))
			for k, run := range para {
				paras[j][k] = encodeRun(run)
			}
		}

		b, err := yaml.Marshal(map[string]any{
			"name":       doc.Name,
			"paragraphs": paras,
		})
		if err != nil {
			return err
		}

		buf.Write(b)
	}

	_, err := w.Write(buf.Bytes())

	return err
}

func encodeRun(r lang.Run) any {
	if r.Style() == (lang.StyleKey{}) && !r.HasImage() {
		return r.Text
	}

	m := yaml.MapSlice{}
	add := func(key string, val any) {
		m = append(m, yaml.MapItem{Key: key, Value: val})
	}

	if r.Text != "" {
		add("text", r.Text)
	}

	if r.Italic {
		add("italic", true)
	}

	if r.Bold {
		add("bold", true)
	}

	if r.Underline != "" {
		add("underline", string(r.Underline))
	}

	if r.Color != 0 {
		// "#" keeps colors of only digits from reading back as integers.
		add("color", "#"+r.Color.String())
	}

	if r.Highlight != lang.HighlightNone {
		add("highlight", r.Highlight.String())
	}

	if r.Font != "" {
		add("font", r.Font)
	}

	if r.FontSize != 0 {
		add("size", r.FontSize)
	}

	if r.HasImage() {
		add("image_data", base64.StdEncoding.EncodeToString(r.Image))
	}

	return m
}

// FormatRun writes r as a one-line YAML flow value that [ParseParagraph]
// reads back as the same run.
func FormatRun(r lang.Run) (string, error) {
	b, err := yaml.MarshalWithOptions(encodeRun(r), yaml.Flow(true))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}
