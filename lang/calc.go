package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// calcFunc evaluates its first argument as an expr-lang expression. Any
// further arguments are visible to the expression as the array args:
// integers as int, lists as arrays, anything else as its display string.
//
// Integral numeric results become [Integer], booleans and other numbers
// become [Text], and nil becomes [Unit].
func calcFunc(_ context.Context, c *Call, args []Value) (Value, error) {
	if len(args) < 1 {
		return nil, arity(c, ">=1", len(args))
	}

	src, ok := args[0].(Text)
	if !ok {
		return nil, ErrShape.Wrap(errExpectedText).
			With(slog.String("kind", Kind(args[0])))
	}

	source := src.String()

	program, err := c.in.compileCalc(source)
	if err != nil {
		return nil, err
	}

	env := calcEnv(args[1:])

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrCalc.Wrap(err).With(slog.String("source", source))
	}

	return fromCalc(out), nil
}

// compileCalc compiles source once per interpreter and caches the program.
func (in *Interpreter) compileCalc(source string) (*vm.Program, error) {
	if p, ok := in.calc[source]; ok {
		return p, nil
	}

	program, err := expr.Compile(source, expr.Env(calcEnv(nil)))
	if err != nil {
		return nil, ErrCalc.Wrap(err).With(slog.String("source", source))
	}

	in.calc[source] = program

	return program, nil
}

func calcEnv(args []Value) map[string]any {
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = toCalc(a)
	}

	return map[string]any{"args": vals}
}

func toCalc(v Value) any {
	switch v := v.(type) {
	case Integer:
		return int(v)

	case List:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = toCalc(item)
		}

		return items

	case UnitValue:
		return nil

	default:
		return Display(v)
	}
}

func fromCalc(v any) Value {
	switch v := v.(type) {
	case nil:
		return Unit

	case int:
		return Integer(v)

	case int64:
		return Integer(v)

	case float64:
		if v == math.Trunc(v) && math.Abs(v) < math.MaxInt64 {
			return Integer(int64(v))
		}

		return TextOf(fmt.Sprint(v))

	case string:
		return TextOf(v)

	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = fromCalc(item)
		}

		return List{Items: items}

	default:
		return TextOf(fmt.Sprint(v))
	}
}
