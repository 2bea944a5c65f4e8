// Package span provides source position types shared by the lexer, parser and runtime.
package span

import "fmt"

// Position is a point in source text.
type Position struct {
	Offset int `json:"offset"` // byte offset from beginning of source
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number
}

// Start is the position of the first byte of a source file.
var Start = Position{Offset: 0, Line: 1, Column: 1}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p refers to a real source location.
func (p Position) IsValid() bool {
	return p.Line > 0
}
