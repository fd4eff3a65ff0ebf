package lang

import (
	"context"
	"errors"
	"log/slog"
)

// Builtin is one entry of a [Registry].
type Builtin struct {
	Name  string
	Key   StyleKey
	Value Value
}

// Registry is the table of builtins installed into a root environment.
type Registry []Builtin

// Lookup returns the builtin named name.
func (r Registry) Lookup(name string) (Builtin, bool) {
	for _, b := range r {
		if b.Name == name {
			return b, true
		}
	}

	return Builtin{}, false
}

// Builtin key colors.
const (
	ColorLet      Color = 0x00B0F0
	ColorLambda   Color = 0x00B050
	ColorInteger  Color = 0x7030A0
	ColorPrint    Color = 0xEE0000
	ColorReadline Color = 0x00B0F0
	ColorList     Color = 0xFFC000
	ColorCalc     Color = 0x0070C0
)

// MacroKey returns the reserved key of a builtin macro with the given color.
// Macro keys are bold with a light gray highlight.
func MacroKey(c Color) StyleKey {
	return StyleKey{Bold: true, Color: c, Highlight: HighlightLightGray}
}

// FunctionKey returns the reserved key of a builtin function with the given
// color. Function keys are bold with a yellow highlight.
func FunctionKey(c Color) StyleKey {
	return StyleKey{Bold: true, Color: c, Highlight: HighlightYellow}
}

// DefaultRegistry returns a new copy of the standard builtin table.
func DefaultRegistry() Registry {
	return Registry{
		{"let", MacroKey(ColorLet), &Macro{Name: "let", Body: letMacro}},
		{"lambda", MacroKey(ColorLambda), &Macro{Name: "lambda", Body: lambdaMacro}},
		{"integer", MacroKey(ColorInteger), &Macro{Name: "integer", Body: integerMacro}},
		{"print", FunctionKey(ColorPrint), &Function{Name: "print", Body: printFunc}},
		{"readline", FunctionKey(ColorReadline), &Function{Name: "readline", Body: readlineFunc}},
		{"list", FunctionKey(ColorList), &Function{Name: "list", Body: listFunc}},
		{"calc", FunctionKey(ColorCalc), &Function{Name: "calc", Body: calcFunc}},
	}
}

var (
	errExpectedIdentifier = errors.New("expected identifier")
	errExpectedText       = errors.New("expected text")
	errFontSizeNotSet     = errors.New("font size not set")
)

func arity(c *Call, want string, got int) error {
	return ErrArity.With(
		slog.String("callee", "@"+c.Name()),
		slog.String("want", want),
		slog.Int("got", got),
	)
}

// letMacro binds its first argument, an identifier, to the value of its second
// in the calling environment.
func letMacro(ctx context.Context, c *Call, args []Expression) (Value, error) {
	if len(args) != 2 {
		return nil, arity(c, "2", len(args))
	}

	id, ok := args[0].(Identifier)
	if !ok {
		return nil, ErrShape.Wrap(errExpectedIdentifier)
	}

	v, err := c.Eval(ctx, args[1])
	if err != nil {
		return nil, err
	}

	c.Env().Bind(id.Key, v)

	return v, nil
}

// lambdaMacro creates a closure over the calling environment. The first
// argument names the parameters, either a single identifier or a list of
// identifiers; the rest form the body.
func lambdaMacro(_ context.Context, c *Call, args []Expression) (Value, error) {
	if len(args) < 1 {
		return nil, arity(c, ">=1", len(args))
	}

	var params []StyleKey

	switch p := args[0].(type) {
	case Identifier:
		params = []StyleKey{p.Key}

	case ExpressionList:
		params = make([]StyleKey, len(p.Nodes))

		for i, n := range p.Nodes {
			id, ok := n.(Identifier)
			if !ok {
				return nil, ErrShape.Wrap(errExpectedIdentifier).
					With(slog.Int("param", i))
			}

			params[i] = id.Key
		}

	default:
		return nil, ErrShape.Wrap(errExpectedIdentifier)
	}

	return &Lambda{Env: c.Env(), Params: params, Body: args[1:]}, nil
}

// integerMacro returns the font size of its identifier argument as an Integer.
func integerMacro(_ context.Context, c *Call, args []Expression) (Value, error) {
	if len(args) != 1 {
		return nil, arity(c, "1", len(args))
	}

	id, ok := args[0].(Identifier)
	if !ok {
		return nil, ErrShape.Wrap(errExpectedIdentifier)
	}

	if id.Key.FontSize == 0 {
		return nil, ErrShape.Wrap(errFontSizeNotSet)
	}

	return Integer(int64(id.Key.FontSize)), nil
}

// printFunc writes its rendered arguments, one per line, as a single write.
func printFunc(_ context.Context, c *Call, args []Value) (Value, error) {
	s, err := Render(args...)
	if err != nil {
		return nil, err
	}

	if err := c.Sink().WriteLine(s); err != nil {
		return nil, ErrWriteOutput.Wrap(err)
	}

	return Unit, nil
}

// readlineFunc reads one line of input, showing the optional text prompt.
func readlineFunc(_ context.Context, c *Call, args []Value) (Value, error) {
	var prompt string

	switch len(args) {
	case 0:

	case 1:
		t, ok := args[0].(Text)
		if !ok {
			return nil, ErrShape.Wrap(errExpectedText).
				With(slog.String("kind", Kind(args[0])))
		}

		prompt = t.String()

	default:
		return nil, arity(c, "0..1", len(args))
	}

	line, err := c.Sink().ReadLine(prompt)
	if err != nil {
		if errors.Is(err, ErrNoInput) {
			return nil, err
		}

		return nil, ErrReadInput.Wrap(err)
	}

	return TextOf(line), nil
}

// listFunc returns its arguments as a List.
func listFunc(_ context.Context, _ *Call, args []Value) (Value, error) {
	return List{Items: args}, nil
}
