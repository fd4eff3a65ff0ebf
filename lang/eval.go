package lang

import (
	"context"
	"fmt"
	"log/slog"
)

// Call is the context of one builtin invocation.
type Call struct {
	in   *Interpreter
	env  *Environment
	name string
}

// Env returns the environment the builtin was invoked in.
func (c *Call) Env() *Environment { return c.env }

// Name returns the name of the invoked builtin.
func (c *Call) Name() string { return c.name }

// Sink returns the interpreter's sink.
func (c *Call) Sink() Sink { return c.in.sink }

// Interpreter returns the interpreter performing the call.
func (c *Call) Interpreter() *Interpreter { return c.in }

// Eval evaluates expr in the environment of the call.
func (c *Call) Eval(ctx context.Context, expr Expression) (Value, error) {
	return c.in.Eval(ctx, c.env, expr)
}

// Eval evaluates expr in env.
//
// Identifiers resolve to their nearest binding, or [Unit] if unbound.
// Literals evaluate to [Text]. A non-empty list evaluates its head and
// applies the result to the remaining nodes.
func (in *Interpreter) Eval(
	ctx context.Context,
	env *Environment,
	expr Expression,
) (Value, error) {
	if err := in.enter(ctx); err != nil {
		return nil, err
	}
	defer in.leave()

	switch e := expr.(type) {
	case Identifier:
		if v, ok := env.Lookup(e.Key); ok {
			return v, nil
		}

		if in.logger.TraceEnabled(ctx) {
			in.logger.TraceContext(ctx, "unbound identifier",
				slog.String("symbol", in.symbols.Name(e.Key)),
			)
		}

		return Unit, nil

	case RichText:
		return Text{Runs: e.Runs}, nil

	case ExpressionList:
		if len(e.Nodes) == 0 {
			return Unit, nil
		}

		head, err := in.Eval(ctx, env, e.Nodes[0])
		if err != nil {
			return nil, err
		}

		return in.Apply(ctx, head, env, e.Nodes[1:])

	default:
		panic(fmt.Sprintf("lang: unexpected expression type %T", expr))
	}
}

// Apply applies v to the argument expressions args in env.
//
// Functions and lambdas receive their arguments evaluated left to right,
// macros receive them unevaluated. Applying [Text] concatenates the
// evaluated arguments onto a copy of it. Lists, integers and [Unit] return
// themselves when applied to nothing and fail with [ErrArity] otherwise.
func (in *Interpreter) Apply(
	ctx context.Context,
	v Value,
	env *Environment,
	args []Expression,
) (Value, error) {
	switch v := v.(type) {
	case *Function:
		vals, err := in.evalArgs(ctx, env, args)
		if err != nil {
			return nil, err
		}

		in.traceCall(ctx, "@"+v.Name, args)

		out, err := v.Body(ctx, &Call{in: in, env: env, name: v.Name}, vals)
		if err != nil {
			return nil, blame(err, "@"+v.Name)
		}

		return out, nil

	case *Macro:
		in.traceCall(ctx, "@"+v.Name, args)

		out, err := v.Body(ctx, &Call{in: in, env: env, name: v.Name}, args)
		if err != nil {
			return nil, blame(err, "@"+v.Name)
		}

		return out, nil

	case *Lambda:
		vals, err := in.evalArgs(ctx, env, args)
		if err != nil {
			return nil, err
		}

		in.traceCall(ctx, "lambda", args)

		return in.invoke(ctx, v, vals)

	case Text:
		parts := make([]Text, len(args))

		for i, arg := range args {
			val, err := in.Eval(ctx, env, arg)
			if err != nil {
				return nil, err
			}

			if t, ok := val.(Text); ok {
				parts[i] = t
			} else {
				parts[i] = TextOf(Display(val))
			}
		}

		return v.Concat(parts...), nil

	case List, Integer, UnitValue, nil:
		if v == nil {
			v = Unit
		}

		if len(args) == 0 {
			return v, nil
		}

		return nil, ErrArity.Wrap(ErrNotCallable).With(
			slog.String("kind", Kind(v)),
			slog.Int("args", len(args)),
		)

	default:
		panic(fmt.Sprintf("lang: unexpected value type %T", v))
	}
}

// invoke binds vals to the parameters of l in a new child of its declaring
// environment and evaluates the body there, returning the last value.
func (in *Interpreter) invoke(
	ctx context.Context,
	l *Lambda,
	vals []Value,
) (Value, error) {
	if len(vals) != len(l.Params) {
		return nil, ErrArity.With(
			slog.String("callee", "lambda"),
			slog.Int("want", len(l.Params)),
			slog.Int("got", len(vals)),
		)
	}

	frame := l.Env.NewChild()
	for i, p := range l.Params {
		frame.Bind(p, vals[i])
	}

	var out Value = Unit

	for _, expr := range l.Body {
		v, err := in.Eval(ctx, frame, expr)
		if err != nil {
			return nil, err
		}

		out = v
	}

	return out, nil
}

func (in *Interpreter) evalArgs(
	ctx context.Context,
	env *Environment,
	args []Expression,
) ([]Value, error) {
	vals := make([]Value, len(args))

	for i, arg := range args {
		v, err := in.Eval(ctx, env, arg)
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	return vals, nil
}

func (in *Interpreter) enter(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in.depth++

	if in.maxDepth > 0 && in.depth > in.maxDepth {
		in.depth--

		return ErrMaxDepthExceeded.With(slog.Int("max", in.maxDepth))
	}

	return nil
}

func (in *Interpreter) leave() { in.depth-- }

func (in *Interpreter) traceCall(
	ctx context.Context,
	callee string,
	args []Expression,
) {
	if !in.logger.TraceEnabled(ctx) {
		return
	}

	in.logger.TraceContext(ctx, "apply",
		slog.String("callee", callee),
		slog.String("args", in.symbols.Format(ExpressionList{Nodes: args})),
		slog.Int("depth", in.depth),
	)
}

// blame records the innermost builtin that failed.
func blame(err error, callee string) error {
	e, ok := err.(*Error) //nolint:errorlint
	if !ok {
		return err
	}

	for _, a := range e.Attrs() {
		if a.Key == "callee" {
			return err
		}
	}

	return e.With(slog.String("callee", callee))
}
