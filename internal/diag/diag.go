// Package diag provides the syntax diagnostic types reported by the lexer and parser.
package diag

import (
	"fmt"
	"lox-lang/internal/span"
)

// Kind classifies a syntax diagnostic.
type Kind int

const (
	UnexpectedCharacter Kind = iota
	UnterminatedString
	UnexpectedToken
	InvalidAssignmentTarget
	UnterminatedGrouping
)

var kindInfo = map[Kind]struct{ code, name string }{
	UnexpectedCharacter:     {"E1001", "UnexpectedCharacter"},
	UnterminatedString:      {"E1002", "UnterminatedString"},
	UnexpectedToken:         {"E2001", "UnexpectedToken"},
	InvalidAssignmentTarget: {"E2002", "InvalidAssignmentTarget"},
	UnterminatedGrouping:    {"E2003", "UnterminatedGrouping"},
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Code returns the stable error code for the kind, e.g. "E2001".
func (k Kind) Code() string {
	return kindInfo[k].code
}

// Diagnostic is a single syntax error.
type Diagnostic struct {
	Kind    Kind          `json:"kind"`
	Pos     span.Position `json:"pos"`
	Where   string        `json:"where,omitempty"` // location hint: "at 'x'", "at end" or empty
	Message string        `json:"message"`
}

// Code returns the stable error code of the diagnostic.
func (d Diagnostic) Code() string {
	return d.Kind.Code()
}

// String renders the diagnostic as "line <n> Error <where>: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d Error %s: %s", d.Pos.Line, d.Where, d.Message)
}

// Error lets a Diagnostic be returned where an error is expected.
func (d Diagnostic) Error() string {
	return d.String()
}

// Errorf creates a diagnostic at pos with the given location hint.
func Errorf(kind Kind, pos span.Position, where, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Pos:     pos,
		Where:   where,
		Message: fmt.Sprintf(format, args...),
	}
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// HasErrors reports whether any diagnostic was recorded.
func (l List) HasErrors() bool {
	return len(l) > 0
}

// Error joins all diagnostics, one per line.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].String()
	}
	msg := l[0].String()
	for _, d := range l[1:] {
		msg += "\n" + d.String()
	}
	return msg
}
