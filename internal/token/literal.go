package token

import "strconv"

// Literal is the payload of a literal token: Number, Text, Boolean or Nil.
type Literal interface {
	literal()
	String() string
}

// Number is a numeric literal. All numbers are float64.
type Number float64

// Text is a string literal with the surrounding quotes removed.
type Text string

// Boolean is a true or false literal.
type Boolean bool

// Nil is the nil literal.
type Nil struct{}

func (Number) literal()  {}
func (Text) literal()    {}
func (Boolean) literal() {}
func (Nil) literal()     {}

func (n Number) String() string { return FormatNumber(float64(n)) }
func (t Text) String() string   { return string(t) }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Nil) String() string { return "nil" }

// FormatNumber renders f in its shortest decimal form without an exponent.
// Integral values print without a fractional part: 3, not 3.0.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
