package lang

import (
	"fmt"
	"strconv"
	"strings"
)

// SymbolMap assigns readable names to StyleKeys for diagnostics.
//
// Builtin keys are named "@" followed by the builtin's name. Any other key
// is named "$n", numbered in order of first appearance.
type SymbolMap struct {
	builtin map[StyleKey]string
	user    map[StyleKey]string
	order   []StyleKey
}

// NewSymbolMap returns a SymbolMap that knows the builtins of reg.
func NewSymbolMap(reg Registry) *SymbolMap {
	m := &SymbolMap{
		builtin: make(map[StyleKey]string, len(reg)),
		user:    make(map[StyleKey]string),
	}

	for _, b := range reg {
		if _, ok := m.builtin[b.Key]; !ok {
			m.builtin[b.Key] = "@" + b.Name
			m.order = append(m.order, b.Key)
		}
	}

	return m
}

// Name returns the symbol of key, assigning a new user symbol if needed.
func (m *SymbolMap) Name(key StyleKey) string {
	if name, ok := m.builtin[key]; ok {
		return name
	}

	if name, ok := m.user[key]; ok {
		return name
	}

	name := "$" + strconv.Itoa(len(m.user))
	m.user[key] = name
	m.order = append(m.order, key)

	return name
}

// String lists every known symbol with the style it stands for, builtins
// first.
func (m *SymbolMap) String() string {
	width := 0
	for _, k := range m.order {
		width = max(width, len(m.lookup(k)))
	}

	var sb strings.Builder

	sb.WriteString("Symbols:")

	for _, k := range m.order {
		fmt.Fprintf(&sb, "\n  %-*s : %s", width, m.lookup(k), k)
	}

	return sb.String()
}

func (m *SymbolMap) lookup(k StyleKey) string {
	if name, ok := m.builtin[k]; ok {
		return name
	}

	return m.user[k]
}

// Tree returns a plain representation of expr suitable for encoding as YAML
// or JSON. Identifiers become their symbol, literals a single-entry map
// {"text": ...}, and lists a slice of their nodes.
func (m *SymbolMap) Tree(expr Expression) any {
	switch e := expr.(type) {
	case Identifier:
		return m.Name(e.Key)

	case RichText:
		return map[string]any{"text": e.Text()}

	case ExpressionList:
		out := make([]any, len(e.Nodes))
		for i, n := range e.Nodes {
			out[i] = m.Tree(n)
		}

		return out

	default:
		panic(fmt.Sprintf("lang: unexpected expression type %T", expr))
	}
}

// Format renders expr on one line in the form "[@print, \"hello\"]".
func (m *SymbolMap) Format(expr Expression) string {
	switch e := expr.(type) {
	case Identifier:
		return m.Name(e.Key)

	case RichText:
		return strconv.Quote(e.Text())

	case ExpressionList:
		part := make([]string, len(e.Nodes))
		for i, n := range e.Nodes {
			part[i] = m.Format(n)
		}

		return "[" + strings.Join(part, ", ") + "]"

	default:
		panic(fmt.Sprintf("lang: unexpected expression type %T", expr))
	}
}
