package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/meow/lang"
)

// Dump prints the parsed expression tree of every paragraph.
//
// Builtin identifiers print as @name and user identifiers as $n, numbered
// in order of first appearance.
type Dump struct {
	Files   []string `arg:"" help:"Document files or '-' for stdin"          name:"file" optional:""`
	Flat    bool     `       help:"Print one bracketed expression per line"             short:"F"`
	Symbols bool     `       help:"Append the identifier table"                         short:"S"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) error {
	paths, err := resolveSources(ctx, d.Files)
	if err != nil {
		return err
	}

	symbols := newInterpreter(ctx).Symbols()

	var buf bytes.Buffer

	for _, path := range paths {
		docs, err := loadDocuments(ctx, path)
		if err != nil {
			return ErrLoad.Wrap(err)
		}

		for _, doc := range docs {
			if err := d.dump(&buf, symbols, doc); err != nil {
				return err
			}
		}
	}

	if d.Symbols {
		fmt.Fprintln(&buf, symbols)
	}

	if _, err := buf.WriteTo(stdioFrom(ctx).Out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (d *Dump) dump(buf *bytes.Buffer, m *lang.SymbolMap, doc lang.Document) error {
	if d.Flat {
		fmt.Fprintf(buf, "# %s\n", doc.Name)

		for _, para := range doc.Paragraphs {
			fmt.Fprintln(buf, m.Format(lang.Parse(para, true)))
		}

		return nil
	}

	trees := make([]any, len(doc.Paragraphs))
	for i, para := range doc.Paragraphs {
		trees[i] = m.Tree(lang.Parse(para, true))
	}

	b, err := yaml.Marshal(yaml.MapSlice{
		{Key: "name", Value: doc.Name},
		{Key: "paragraphs", Value: trees},
	})
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	buf.WriteString("---\n")
	buf.Write(b)

	return nil
}
