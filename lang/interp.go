package lang

import (
	"context"
	"log/slog"

	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/meow/log"
)

// DefaultMaxDepth is the default limit on nested evaluations.
const DefaultMaxDepth = 10000

// config holds the settings of an Interpreter.
type config struct {
	sink     Sink
	logger   log.Logger
	maxDepth int
	registry Registry
}

// Option applies a configuration option to an Interpreter.
type Option func(config) config

// WithSink sets where print writes and readline reads.
// The default is a [Buffer].
func WithSink(s Sink) Option {
	return func(c config) config {
		if s != nil {
			c.sink = s
		}

		return c
	}
}

// WithLogger sets the logger used to trace evaluation.
// The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.logger = l

		return c
	}
}

// WithMaxDepth limits how deeply evaluations may nest. Exceeding the limit
// fails with [ErrMaxDepthExceeded]. Zero or a negative depth disables the
// limit.
func WithMaxDepth(depth int) Option {
	return func(c config) config {
		c.maxDepth = max(depth, 0)

		return c
	}
}

// WithRegistry replaces the builtins installed into the root environment.
func WithRegistry(reg Registry) Option {
	return func(c config) config {
		c.registry = reg

		return c
	}
}

// Interpreter evaluates paragraphs against a root environment of builtins.
//
// Evaluation is single-threaded: an Interpreter must not be used from more
// than one goroutine at a time.
type Interpreter struct {
	config

	root    *Environment
	symbols *SymbolMap
	depth   int
	calc    map[string]*vm.Program
}

// New returns an Interpreter configured by opts.
func New(opts ...Option) *Interpreter {
	cfg := config{
		sink:     &Buffer{},
		maxDepth: DefaultMaxDepth,
		registry: DefaultRegistry(),
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return &Interpreter{
		config:  cfg,
		root:    NewRoot(cfg.registry),
		symbols: NewSymbolMap(cfg.registry),
		calc:    make(map[string]*vm.Program),
	}
}

// Root returns the environment holding the builtins.
func (in *Interpreter) Root() *Environment { return in.root }

// Symbols returns the symbol map used in diagnostics.
func (in *Interpreter) Symbols() *SymbolMap { return in.symbols }

// Sink returns the configured sink.
func (in *Interpreter) Sink() Sink { return in.sink }

// Logger returns the configured logger.
func (in *Interpreter) Logger() log.Logger { return in.logger }

// EvalParagraph parses runs as one top-level expression and evaluates it
// in env.
func (in *Interpreter) EvalParagraph(
	ctx context.Context,
	env *Environment,
	runs []Run,
) (Value, error) {
	expr := Parse(runs, true)

	if in.logger.TraceEnabled(ctx) {
		in.logger.TraceContext(ctx, "paragraph",
			slog.String("expr", in.symbols.Format(expr)),
		)
	}

	return in.Eval(ctx, env, expr)
}

// EvalDocument evaluates the paragraphs of doc in order, in a new child of
// the root environment. The first failure stops the document.
func (in *Interpreter) EvalDocument(ctx context.Context, doc Document) error {
	return in.EvalDocumentIn(ctx, in.root.NewChild(), doc)
}

// EvalDocumentIn is like [Interpreter.EvalDocument] but evaluates in env,
// leaving every binding made by the document visible in env afterwards.
func (in *Interpreter) EvalDocumentIn(
	ctx context.Context,
	env *Environment,
	doc Document,
) error {
	in.logger.DebugContext(ctx, "evaluate document",
		slog.String("document", doc.Name),
		slog.Int("paragraphs", len(doc.Paragraphs)),
	)

	for i, p := range doc.Paragraphs {
		if _, err := in.EvalParagraph(ctx, env, p); err != nil {
			return annotate(err,
				slog.String("document", doc.Name),
				slog.Int("paragraph", i+1),
			)
		}
	}

	return nil
}

// annotate attaches attrs to err if it is an [*Error].
func annotate(err error, attrs ...slog.Attr) error {
	if e, ok := err.(*Error); ok { //nolint:errorlint
		return e.With(attrs...)
	}

	return err
}
