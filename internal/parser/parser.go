// Package parser implements the syntax analysis for lox-lang.
// It uses recursive descent with one method per precedence level for
// expressions, and recovers from statement-level errors by synchronizing
// on the next likely statement boundary.
package parser

import (
	"errors"
	"fmt"
	"lox-lang/internal/ast"
	"lox-lang/internal/diag"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  diag.List
}

// syntaxError aborts the statement being parsed. It is caught in declaration.
type syntaxError struct {
	diag diag.Diagnostic
}

func (e *syntaxError) Error() string {
	return e.diag.String()
}

// New creates a new parser from a token slice. The slice is expected to end
// with an EOF token; one is synthesized if it does not.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// Parse parses tokens into a statement list. The statements are usable only
// when the returned diagnostics are empty.
func Parse(tokens []token.Token) ([]ast.Stmt, diag.List) {
	file, diags := New(tokens).ParseFile()
	return file.Stmts, diags
}

// ParseFile parses the entire token stream and returns the AST root and diagnostics.
func (p *Parser) ParseFile() (*ast.File, diag.List) {
	file := &ast.File{NodeBase: ast.NodeBase{Pos: p.peek().Pos}}

	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			file.Stmts = append(file.Stmts, stmt)
		}
	}
	return file, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		pos := span.Start
		if n := len(p.tokens); n > 0 {
			pos = p.tokens[n-1].Pos
		}
		return token.Token{Kind: token.EOF, Pos: pos}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.peek()
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

// accept consumes the next token if it is one of kinds.
func (p *Parser) accept(kinds ...token.Kind) (token.Token, bool) {
	for _, k := range kinds {
		if p.check(k) {
			return p.advance(), true
		}
	}
	return token.Token{}, false
}

// expect consumes a token of the given kind or fails the current statement.
func (p *Parser) expect(kind token.Kind, msg string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), diag.UnexpectedToken, msg)
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// ============================================================
// Error reporting and recovery
// ============================================================

func where(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "at end"
	}
	return fmt.Sprintf("at '%s'", tok.Lexeme)
}

// errorAt builds a syntax error at tok without recording it.
func (p *Parser) errorAt(tok token.Token, kind diag.Kind, msg string) error {
	return &syntaxError{diag: diag.Errorf(kind, tok.Pos, where(tok), "%s", msg)}
}

// report records a diagnostic at tok without aborting the current statement.
func (p *Parser) report(tok token.Token, kind diag.Kind, msg string) {
	p.diags = append(p.diags, diag.Errorf(kind, tok.Pos, where(tok), "%s", msg))
}

// synchronize skips tokens until a likely statement boundary: just past a
// semicolon, or before a statement-leading keyword.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peekKind() {
		case token.KW_CLASS, token.KW_FUN, token.KW_VAR, token.KW_FOR,
			token.KW_IF, token.KW_WHILE, token.KW_PRINT, token.KW_RETURN:
			return
		}
		p.advance()
	}
}

// ============================================================
// Declarations and statements
// ============================================================

// declaration parses one declaration, recovering from syntax errors.
// It returns nil when the declaration could not be parsed.
func (p *Parser) declaration() ast.Stmt {
	stmt, err := p.parseDeclaration()
	if err != nil {
		var se *syntaxError
		if !errors.As(err, &se) {
			panic(err)
		}
		p.diags = append(p.diags, se.diag)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) parseDeclaration() (ast.Stmt, error) {
	if kw, ok := p.accept(token.KW_VAR); ok {
		return p.parseVarDecl(kw)
	}
	return p.parseStatement()
}

// parseVarDecl parses the rest of: var IDENT [ = expr ] ;
func (p *Parser) parseVarDecl(kw token.Token) (ast.Stmt, error) {
	name, err := p.expect(token.IDENT, "expect variable name")
	if err != nil {
		return nil, err
	}

	var init ast.Expr = &ast.Literal{ExprBase: ast.ExprAt(name.Pos), Value: token.Nil{}}
	if _, ok := p.accept(token.EQUAL); ok {
		if init, err = p.expression(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.SEMICOLON, "expect ';' after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.VarStmt{StmtBase: ast.StmtAt(kw.Pos), Name: name.Lexeme, Init: init}, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.peekKind() {
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.KW_FOR:
		return p.parseForStmt()
	case token.KW_PRINT:
		return p.parsePrintStmt()
	case token.LBRACE:
		start := p.advance()
		stmts, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{StmtBase: ast.StmtAt(start.Pos), Stmts: stmts}, nil
	default:
		return p.parseExprStmt()
	}
}

// parseIfStmt parses: if ( expr ) statement [ else statement ]
// A dangling else binds to the nearest if.
func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	start := p.advance() // consume 'if'

	if _, err := p.expect(token.LPAREN, "expect '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "expect ')' after if condition"); err != nil {
		return nil, err
	}

	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{StmtBase: ast.StmtAt(start.Pos), Cond: cond, Then: then}

	if _, ok := p.accept(token.KW_ELSE); ok {
		if stmt.Else, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// parseWhileStmt parses: while ( expr ) statement
func (p *Parser) parseWhileStmt() (ast.Stmt, error) {
	start := p.advance() // consume 'while'

	if _, err := p.expect(token.LPAREN, "expect '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "expect ')' after condition"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{StmtBase: ast.StmtAt(start.Pos), Cond: cond, Body: body}, nil
}

// parseForStmt parses: for ( [init] ; [cond] ; [incr] ) statement
// and desugars it into a while loop.
func (p *Parser) parseForStmt() (ast.Stmt, error) {
	start := p.advance() // consume 'for'

	if _, err := p.expect(token.LPAREN, "expect '(' after 'for'"); err != nil {
		return nil, err
	}

	var init ast.Stmt
	var err error
	if _, ok := p.accept(token.SEMICOLON); !ok {
		if kw, ok := p.accept(token.KW_VAR); ok {
			init, err = p.parseVarDecl(kw)
		} else {
			init, err = p.parseExprStmt()
		}
		if err != nil {
			return nil, err
		}
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		if cond, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON, "expect ';' after loop condition"); err != nil {
		return nil, err
	}

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		if incr, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN, "expect ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return desugarFor(start.Pos, init, cond, incr, body), nil
}

// desugarFor rewrites a for loop into
//
//	{ init; while (cond) { body; incr; } }
//
// omitting the parts that are absent. A missing condition is `true`.
func desugarFor(pos span.Position, init ast.Stmt, cond, incr ast.Expr, body ast.Stmt) ast.Stmt {
	if incr != nil {
		body = &ast.BlockStmt{
			StmtBase: ast.StmtAt(body.GetPos()),
			Stmts: []ast.Stmt{
				body,
				&ast.ExprStmt{StmtBase: ast.StmtAt(incr.GetPos()), Expr: incr},
			},
		}
	}
	if cond == nil {
		cond = &ast.Literal{ExprBase: ast.ExprAt(pos), Value: token.Boolean(true)}
	}

	var loop ast.Stmt = &ast.WhileStmt{StmtBase: ast.StmtAt(pos), Cond: cond, Body: body}
	if init != nil {
		loop = &ast.BlockStmt{StmtBase: ast.StmtAt(pos), Stmts: []ast.Stmt{init, loop}}
	}
	return loop
}

// parsePrintStmt parses: print expr ;
func (p *Parser) parsePrintStmt() (ast.Stmt, error) {
	start := p.advance() // consume 'print'

	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "expect ';' after value"); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{StmtBase: ast.StmtAt(start.Pos), Expr: value}, nil
}

// parseExprStmt parses: expr ;
func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "expect ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{StmtBase: ast.StmtAt(expr.GetPos()), Expr: expr}, nil
}

// parseBlock parses the rest of: { declaration* }
// Errors inside the block are recovered per declaration.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	if _, err := p.expect(token.RBRACE, "expect '}' after block"); err != nil {
		return nil, err
	}
	return stmts, nil
}

// ============================================================
// Expression parsing (precedence climbing)
// ============================================================

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

// assignment parses: IDENT = assignment | or
// It is right-associative; the target must already have parsed as a variable.
func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	eq, ok := p.accept(token.EQUAL)
	if !ok {
		return expr, nil
	}
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}

	if v, ok := expr.(*ast.Variable); ok {
		return &ast.Assign{ExprBase: ast.ExprAt(v.Pos), Name: v.Name, Value: value}, nil
	}
	p.report(eq, diag.InvalidAssignmentTarget, "invalid assignment target")
	return expr, nil
}

func (p *Parser) or() (ast.Expr, error) {
	return p.logical(p.and, token.KW_OR)
}

func (p *Parser) and() (ast.Expr, error) {
	return p.logical(p.equality, token.KW_AND)
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binary(p.comparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binary(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binary(p.factor, token.PLUS, token.MINUS)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binary(p.unary, token.STAR, token.SLASH)
}

// binary parses a left-associative chain: operand (op operand)*
func (p *Parser) binary(operand func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept(ops...)
		if !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{ExprBase: ast.ExprAt(op.Pos), Left: left, Op: op.Kind, Right: right}
	}
}

// logical is binary for the short-circuiting operators.
func (p *Parser) logical(operand func() (ast.Expr, error), op token.Kind) (ast.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.accept(op)
		if !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &ast.Logical{ExprBase: ast.ExprAt(tok.Pos), Left: left, Op: tok.Kind, Right: right}
	}
}

// unary parses: ( ! | - ) unary | primary
func (p *Parser) unary() (ast.Expr, error) {
	if op, ok := p.accept(token.BANG, token.MINUS); ok {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{ExprBase: ast.ExprAt(op.Pos), Op: op.Kind, Right: right}, nil
	}
	return p.primary()
}

// primary parses: literal | ( expr ) | IDENT
func (p *Parser) primary() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.NUMBER, token.STRING, token.KW_TRUE, token.KW_FALSE, token.KW_NIL:
		p.advance()
		return &ast.Literal{ExprBase: ast.ExprAt(tok.Pos), Value: tok.Literal}, nil

	case token.IDENT:
		p.advance()
		return &ast.Variable{ExprBase: ast.ExprAt(tok.Pos), Name: tok.Lexeme}, nil

	case token.LPAREN:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if !p.check(token.RPAREN) {
			return nil, p.errorAt(p.peek(), diag.UnterminatedGrouping, "expect ')' after expression")
		}
		p.advance()
		return &ast.Grouping{ExprBase: ast.ExprAt(tok.Pos), Inner: inner}, nil
	}

	// Error production: a binary operator with no left operand. Report it,
	// then parse the right operand so the rest of the expression does not
	// produce further errors.
	if operand := p.rightOperand(tok.Kind); operand != nil {
		p.advance()
		p.report(tok, diag.UnexpectedToken, "missing left-hand operand")
		return operand()
	}

	return nil, p.errorAt(tok, diag.UnexpectedToken, "expect expression")
}

// rightOperand returns the parse function for the right operand of a binary
// operator, or nil if kind is not a binary-only operator. MINUS is excluded
// because it is also a prefix operator.
func (p *Parser) rightOperand(kind token.Kind) func() (ast.Expr, error) {
	switch kind {
	case token.KW_OR:
		return p.and
	case token.KW_AND:
		return p.equality
	case token.BANG_EQUAL, token.EQUAL_EQUAL:
		return p.comparison
	case token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL:
		return p.term
	case token.PLUS:
		return p.factor
	case token.STAR, token.SLASH:
		return p.unary
	default:
		return nil
	}
}
