// Package runtime implements the tree-walking evaluator and runtime value system for lox-lang.
package runtime

import (
	"fmt"
	"lox-lang/internal/token"
)

// Value is the interface for all runtime values. The set of implementations
// is closed: NumberVal, StringVal, BoolVal and NilVal.
type Value interface {
	TypeName() string
	String() string
	value()
}

// NumberVal represents a number. All numbers are float64.
type NumberVal float64

func (v NumberVal) TypeName() string { return "number" }
func (v NumberVal) String() string   { return token.FormatNumber(float64(v)) }
func (NumberVal) value()             {}

// StringVal represents a string value.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }
func (StringVal) value()             {}

// BoolVal represents true or false.
type BoolVal bool

func (v BoolVal) TypeName() string { return "bool" }
func (v BoolVal) String() string   { return fmt.Sprintf("%t", bool(v)) }
func (BoolVal) value()             {}

// NilVal represents nil.
type NilVal struct{}

func (v NilVal) TypeName() string { return "nil" }
func (v NilVal) String() string   { return "nil" }
func (NilVal) value()             {}

// FromLiteral maps a literal token payload to the runtime value with the same tag.
func FromLiteral(lit token.Literal) Value {
	switch l := lit.(type) {
	case token.Number:
		return NumberVal(l)
	case token.Text:
		return StringVal(l)
	case token.Boolean:
		return BoolVal(l)
	case token.Nil, nil:
		return NilVal{}
	default:
		panic(fmt.Sprintf("runtime: unhandled literal type %T", lit))
	}
}

// ---- Truthiness ----

// IsTruthy reports whether v counts as true in a condition.
// Only nil and false are falsy; 0 and "" are truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case NilVal:
		return false
	case BoolVal:
		return bool(val)
	default:
		return true
	}
}

// ---- Equality ----

// Equal reports structural equality. Values of different types are never
// equal; nil equals nil.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	case NumberVal:
		y, ok := b.(NumberVal)
		return ok && x == y
	case StringVal:
		y, ok := b.(StringVal)
		return ok && x == y
	case BoolVal:
		y, ok := b.(BoolVal)
		return ok && x == y
	default:
		panic(fmt.Sprintf("runtime: unhandled value type %T", a))
	}
}
