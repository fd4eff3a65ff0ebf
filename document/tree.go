package document

import (
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-yaml/ast"
)

// literal is a plain scalar that YAML would resolve to a non-string type.
// text is the scalar exactly as written, so a run written 1.0 or 0x1F
// keeps that text; value is the resolved bool or number, used where an
// attribute expects one.
type literal struct {
	text  string
	value any
}

// tree converts one YAML document into nil, string, literal, []any and
// map[string]any values, resolving aliases against the anchors seen so far.
type tree struct {
	anchors map[string]any
}

func newTree() *tree { return &tree{anchors: make(map[string]any)} }

func (t *tree) value(node ast.Node) (any, error) {
	switch n := node.(type) {
	case nil, *ast.NullNode:
		return nil, nil

	case *ast.StringNode:
		return n.Value, nil

	case *ast.LiteralNode:
		return n.Value.Value, nil

	case *ast.IntegerNode:
		return literal{text: n.Token.Value, value: n.Value}, nil

	case *ast.FloatNode:
		return literal{text: n.Token.Value, value: n.Value}, nil

	case *ast.InfinityNode:
		return literal{text: n.Token.Value, value: n.Value}, nil

	case *ast.NanNode:
		return literal{text: n.Token.Value, value: math.NaN()}, nil

	case *ast.BoolNode:
		return literal{text: n.Token.Value, value: n.Value}, nil

	case *ast.TagNode:
		return t.value(n.Value)

	case *ast.AnchorNode:
		v, err := t.value(n.Value)
		if err != nil {
			return nil, err
		}

		t.anchors[n.Name.GetToken().Value] = v

		return v, nil

	case *ast.AliasNode:
		name := n.Value.GetToken().Value

		v, ok := t.anchors[name]
		if !ok {
			return nil, ErrSyntax.Wrap(fmt.Errorf("undefined alias %q", name))
		}

		return v, nil

	case *ast.SequenceNode:
		out := make([]any, 0, len(n.Values))

		for _, item := range n.Values {
			v, err := t.value(item)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil

	case *ast.SequenceEntryNode:
		return t.value(n.Value)

	case *ast.MappingNode:
		return t.mapping(n.Values...)

	case *ast.MappingValueNode:
		return t.mapping(n)

	default:
		return nil, ErrShape.Wrap(fmt.Errorf("unsupported YAML node %s", node.Type()))
	}
}

func (t *tree) mapping(pairs ...*ast.MappingValueNode) (map[string]any, error) {
	out := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		if pair.Key.IsMergeKey() {
			return nil, ErrShape.Wrap(errors.New("merge keys are not supported"))
		}

		var keyNode ast.Node = pair.Key
		if k, ok := pair.Key.(*ast.MappingKeyNode); ok {
			keyNode = k.Value
		}

		key, err := t.value(keyNode)
		if err != nil {
			return nil, err
		}

		val, err := t.value(pair.Value)
		if err != nil {
			return nil, err
		}

		out[scalar(key)] = val
	}

	return out, nil
}
