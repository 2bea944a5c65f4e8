// Package lexer implements the lexical analysis (tokenization) for lox-lang.
package lexer

import (
	"lox-lang/internal/diag"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	diags diag.List
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		pos:      0,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
// The token slice always ends with a single EOF token.
func (l *Lexer) Tokenize() ([]token.Token, diag.List) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, l.diags
}

// Filename returns the name the lexer was created with.
func (l *Lexer) Filename() string {
	return l.filename
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// peekRune decodes the rune at the current position.
func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.source) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.source[l.pos:])
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else if utf8.RuneStart(ch) {
		l.col++
	}
	return ch
}

// match consumes the current character if it equals expected.
func (l *Lexer) match(expected byte) bool {
	if l.pos >= len(l.source) || l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

// curPos returns the current position as a span.Position.
func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// skipTrivia skips whitespace, line comments and block comments.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.source) {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			for l.pos < len(l.source) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekNext() == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.source) && !(l.peek() == '*' && l.peekNext() == '/') {
				l.advance()
			}
			if l.pos < len(l.source) {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

// addError records a lexical diagnostic. Lexical errors carry no location hint.
func (l *Lexer) addError(kind diag.Kind, pos span.Position, format string, args ...interface{}) {
	l.diags = append(l.diags, diag.Errorf(kind, pos, "", format, args...))
}

func (l *Lexer) makeToken(kind token.Kind, start span.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: l.source[start.Offset:l.pos], Pos: start}
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	l.skipTrivia()

	start := l.curPos()
	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Lexeme: "", Pos: start}
	}

	ch := l.peek()

	if ch == '"' {
		return l.readString(start)
	}
	if isDigit(ch) {
		return l.readNumber(start)
	}
	if r, _ := l.peekRune(); isIdentStart(r) {
		return l.readIdentifier(start)
	}
	return l.readOperator(start)
}

// readString reads a double-quoted string literal. Strings may span lines
// and have no escape sequences.
func (l *Lexer) readString(start span.Position) token.Token {
	l.advance() // skip opening "
	for l.pos < len(l.source) && l.peek() != '"' {
		l.advance()
	}

	if l.pos >= len(l.source) {
		l.addError(diag.UnterminatedString, start, "Unterminated string.")
		return l.makeToken(token.ILLEGAL, start)
	}

	l.advance() // skip closing "
	tok := l.makeToken(token.STRING, start)
	tok.Literal = token.Text(tok.Lexeme[1 : len(tok.Lexeme)-1])
	return tok
}

// readNumber reads an integer or fractional number literal.
func (l *Lexer) readNumber(start span.Position) token.Token {
	for isDigit(l.peek()) {
		l.advance()
	}

	// A trailing '.' without digits is not part of the number.
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	tok := l.makeToken(token.NUMBER, start)
	val, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		// ErrRange: the literal does not fit in a float64.
		l.addError(diag.UnexpectedCharacter, start, "Number literal out of range.")
	}
	tok.Literal = token.Number(val)
	return tok
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(start span.Position) token.Token {
	for {
		r, size := l.peekRune()
		if size == 0 || !isIdentPart(r) {
			break
		}
		for i := 0; i < size; i++ {
			l.advance()
		}
	}

	tok := l.makeToken(token.LookupIdent(l.source[start.Offset:l.pos]), start)
	switch tok.Kind {
	case token.KW_TRUE:
		tok.Literal = token.Boolean(true)
	case token.KW_FALSE:
		tok.Literal = token.Boolean(false)
	case token.KW_NIL:
		tok.Literal = token.Nil{}
	}
	return tok
}

// readOperator reads an operator or delimiter token.
func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.advance()

	switch ch {
	case '(':
		return l.makeToken(token.LPAREN, start)
	case ')':
		return l.makeToken(token.RPAREN, start)
	case '{':
		return l.makeToken(token.LBRACE, start)
	case '}':
		return l.makeToken(token.RBRACE, start)
	case ',':
		return l.makeToken(token.COMMA, start)
	case '.':
		return l.makeToken(token.DOT, start)
	case '-':
		return l.makeToken(token.MINUS, start)
	case '+':
		return l.makeToken(token.PLUS, start)
	case ';':
		return l.makeToken(token.SEMICOLON, start)
	case '*':
		return l.makeToken(token.STAR, start)
	case '/':
		return l.makeToken(token.SLASH, start)
	case '!':
		if l.match('=') {
			return l.makeToken(token.BANG_EQUAL, start)
		}
		return l.makeToken(token.BANG, start)
	case '=':
		if l.match('=') {
			return l.makeToken(token.EQUAL_EQUAL, start)
		}
		return l.makeToken(token.EQUAL, start)
	case '<':
		if l.match('=') {
			return l.makeToken(token.LESS_EQUAL, start)
		}
		return l.makeToken(token.LESS, start)
	case '>':
		if l.match('=') {
			return l.makeToken(token.GREATER_EQUAL, start)
		}
		return l.makeToken(token.GREATER, start)
	default:
		// Consume the rest of a multi-byte character so it is reported once.
		for l.pos < len(l.source) && !utf8.RuneStart(l.peek()) {
			l.advance()
		}
		l.addError(diag.UnexpectedCharacter, start, "Unexpected character.")
		return l.makeToken(token.ILLEGAL, start)
	}
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
		return true
	}
	return r >= utf8.RuneSelf && unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
