package lang

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Value is the result of evaluating an [Expression].
//
// The set of implementations is closed: [Text], [List], [Integer], [Unit],
// [*Function], [*Lambda] and [*Macro].
type Value interface {
	value()
}

// Text is composed rich text. Applying a Text concatenates its arguments.
type Text struct {
	Runs []Run
}

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

// Integer is a signed 64-bit integer.
type Integer int64

// UnitValue is the type of [Unit].
type UnitValue struct{}

// Unit is the "no value" result, also returned for unbound identifiers.
//
//nolint:gochecknoglobals
var Unit = UnitValue{}

// FunctionBody is the implementation of a builtin function. It receives
// arguments already evaluated left to right.
type FunctionBody func(ctx context.Context, c *Call, args []Value) (Value, error)

// Function is a builtin callable that receives evaluated arguments.
type Function struct {
	Name string
	Body FunctionBody
}

// MacroBody is the implementation of a builtin macro. It receives its
// arguments unevaluated, together with the environment of the call.
type MacroBody func(ctx context.Context, c *Call, args []Expression) (Value, error)

// Macro is a builtin callable that receives unevaluated arguments.
type Macro struct {
	Name string
	Body MacroBody
}

// Lambda is a user closure created by the lambda macro.
type Lambda struct {
	// Env is the environment the lambda was declared in.
	Env    *Environment
	Params []StyleKey
	Body   []Expression
}

func (Text) value()      {}
func (List) value()      {}
func (Integer) value()   {}
func (UnitValue) value() {}
func (*Function) value() {}
func (*Lambda) value()   {}
func (*Macro) value()    {}

// TextOf returns a Text holding a single default-style run of s.
func TextOf(s string) Text { return Text{Runs: []Run{PlainRun(s)}} }

// String returns the concatenated text of t's runs.
func (t Text) String() string { return runsText(t.Runs) }

// Concat returns a new Text holding t's runs followed by the runs of each
// of more. The receiver is not modified.
func (t Text) Concat(more ...Text) Text {
	n := len(t.Runs)
	for _, m := range more {
		n += len(m.Runs)
	}

	runs := make([]Run, 0, n)
	runs = append(runs, t.Runs...)

	for _, m := range more {
		runs = append(runs, m.Runs...)
	}

	return Text{Runs: runs}
}

// Display returns the plain display string of v.
func Display(v Value) string {
	switch v := v.(type) {
	case Text:
		return v.String()

	case List:
		part := make([]string, len(v.Items))
		for i, item := range v.Items {
			part[i] = Display(item)
		}

		return "[" + strings.Join(part, ", ") + "]"

	case Integer:
		return strconv.FormatInt(int64(v), 10)

	case UnitValue:
		return "()"

	case *Function:
		return "<function " + v.Name + ">"

	case *Macro:
		return "<macro " + v.Name + ">"

	case *Lambda:
		return fmt.Sprintf("lambda@%p", v)

	case nil:
		return "()"

	default:
		panic(fmt.Sprintf("lang: unexpected value type %T", v))
	}
}

// Kind returns a short name for the kind of v, used in error attributes.
func Kind(v Value) string {
	switch v.(type) {
	case Text:
		return "text"
	case List:
		return "list"
	case Integer:
		return "integer"
	case UnitValue, nil:
		return "unit"
	case *Function:
		return "function"
	case *Macro:
		return "macro"
	case *Lambda:
		return "lambda"
	default:
		panic(fmt.Sprintf("lang: unexpected value type %T", v))
	}
}

func runsText(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}

	return sb.String()
}
