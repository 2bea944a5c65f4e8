// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"
	"lox-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Single-character tokens
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	MINUS     // -
	PLUS      // +
	SEMICOLON // ;
	SLASH     // /
	STAR      // *

	// One or two character tokens
	BANG          // !
	BANG_EQUAL    // !=
	EQUAL         // =
	EQUAL_EQUAL   // ==
	GREATER       // >
	GREATER_EQUAL // >=
	LESS          // <
	LESS_EQUAL    // <=

	// Literals
	IDENT  // identifiers: x, foo, my_var
	STRING // string literals: "hello"
	NUMBER // number literals: 12, 3.5

	// Keywords
	KW_AND
	KW_CLASS
	KW_ELSE
	KW_FALSE
	KW_FUN
	KW_FOR
	KW_IF
	KW_NIL
	KW_OR
	KW_PRINT
	KW_RETURN
	KW_SUPER
	KW_THIS
	KW_TRUE
	KW_VAR
	KW_WHILE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	MINUS:     "-",
	PLUS:      "+",
	SEMICOLON: ";",
	SLASH:     "/",
	STAR:      "*",

	BANG:          "!",
	BANG_EQUAL:    "!=",
	EQUAL:         "=",
	EQUAL_EQUAL:   "==",
	GREATER:       ">",
	GREATER_EQUAL: ">=",
	LESS:          "<",
	LESS_EQUAL:    "<=",

	IDENT:  "IDENT",
	STRING: "STRING",
	NUMBER: "NUMBER",

	KW_AND:    "and",
	KW_CLASS:  "class",
	KW_ELSE:   "else",
	KW_FALSE:  "false",
	KW_FUN:    "fun",
	KW_FOR:    "for",
	KW_IF:     "if",
	KW_NIL:    "nil",
	KW_OR:     "or",
	KW_PRINT:  "print",
	KW_RETURN: "return",
	KW_SUPER:  "super",
	KW_THIS:   "this",
	KW_TRUE:   "true",
	KW_VAR:    "var",
	KW_WHILE:  "while",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_AND && k <= KW_WHILE
}

// IsLiteral returns true if the kind is a literal (ident/string/number).
func (k Kind) IsLiteral() bool {
	return k >= IDENT && k <= NUMBER
}

var keywords = map[string]Kind{
	"and":    KW_AND,
	"class":  KW_CLASS,
	"else":   KW_ELSE,
	"false":  KW_FALSE,
	"fun":    KW_FUN,
	"for":    KW_FOR,
	"if":     KW_IF,
	"nil":    KW_NIL,
	"or":     KW_OR,
	"print":  KW_PRINT,
	"return": KW_RETURN,
	"super":  KW_SUPER,
	"this":   KW_THIS,
	"true":   KW_TRUE,
	"var":    KW_VAR,
	"while":  KW_WHILE,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token is a lexical token with its kind, source text, literal payload and position.
type Token struct {
	Kind    Kind          `json:"kind"`
	Lexeme  string        `json:"lexeme"`
	Literal Literal       `json:"-"`
	Pos     span.Position `json:"pos"`
}

// Line returns the 1-based source line of the token.
func (t Token) Line() int {
	return t.Pos.Line
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %s %s", t.Kind, t.Lexeme, t.Literal, t.Pos)
	}
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Pos)
}
