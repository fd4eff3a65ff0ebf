package lang

import "iter"

// Environment is a lexical scope mapping identifiers to values.
//
// Lookups search the receiver first and then each ancestor. Bindings only
// ever touch the receiver's own map; there is no way to remove one.
// An Environment is not safe for concurrent use.
type Environment struct {
	parent *Environment
	vars   map[StyleKey]Value
	order  []StyleKey
}

// NewEnvironment returns an empty environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[StyleKey]Value)}
}

// NewRoot returns a parentless environment holding every builtin of reg.
// When two entries share a key the later one wins.
func NewRoot(reg Registry) *Environment {
	env := NewEnvironment()

	for _, b := range reg {
		env.Bind(b.Key, b.Value)
	}

	return env
}

// NewChild returns an empty environment whose parent is env.
func (env *Environment) NewChild() *Environment {
	return &Environment{parent: env, vars: make(map[StyleKey]Value)}
}

// Parent returns the enclosing environment, or nil for a root.
func (env *Environment) Parent() *Environment { return env.parent }

// Lookup returns the value bound to key in env or its nearest ancestor
// that binds it.
func (env *Environment) Lookup(key StyleKey) (Value, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.vars[key]; ok {
			return v, true
		}
	}

	return nil, false
}

// Bind binds key to v in env, replacing any previous binding in env.
func (env *Environment) Bind(key StyleKey, v Value) {
	if _, ok := env.vars[key]; !ok {
		env.order = append(env.order, key)
	}

	env.vars[key] = v
}

// Len returns the number of bindings held by env itself.
func (env *Environment) Len() int { return len(env.order) }

// Keys returns the keys bound in env itself, in order of first binding.
func (env *Environment) Keys() []StyleKey {
	return append([]StyleKey(nil), env.order...)
}

// All iterates over the bindings of env itself in order of first binding.
func (env *Environment) All() iter.Seq2[StyleKey, Value] {
	return func(yield func(StyleKey, Value) bool) {
		for _, k := range env.order {
			if !yield(k, env.vars[k]) {
				return
			}
		}
	}
}
