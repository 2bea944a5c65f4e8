package runtime

import (
	"fmt"
	"sort"
)

// Environment is one scope frame: a set of bindings plus a link to the
// enclosing frame. The global frame has no enclosing frame. A frame stays
// reachable for as long as any nested frame refers to it.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates an empty frame whose enclosing scope is enclosing
// (nil for the global scope).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]Value),
		enclosing: enclosing,
	}
}

// Enclosing returns the enclosing frame, or nil for the global frame.
func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define binds name in this frame, replacing any existing binding in the same frame.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks up a variable by walking the scope chain outward.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if val, exists := env.values[name]; exists {
			return val, nil
		}
	}
	return nil, undefined(name)
}

// Assign overwrites the nearest existing binding of name. It never creates one.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, exists := env.values[name]; exists {
			env.values[name] = value
			return nil
		}
	}
	return undefined(name)
}

// Names returns the names bound in this frame, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func undefined(name string) error {
	return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}
