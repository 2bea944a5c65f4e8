// Package ast defines the abstract syntax tree for lox-lang.
//
// Expr and Stmt are closed sum types: only the node types declared in this
// package implement them, so a type switch over either interface is exhaustive.
package ast

import (
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetPos() span.Position
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the source position reported for a node.
type NodeBase struct {
	Pos span.Position
}

func (n NodeBase) nodeNode()             {}
func (n NodeBase) GetPos() span.Position { return n.Pos }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// File (top-level AST root)
// ============================================================

// File is the result of parsing one source text.
type File struct {
	NodeBase
	Stmts []Stmt
}

// ============================================================
// Expressions
// ============================================================

// Literal is a number, string, boolean or nil literal.
type Literal struct {
	ExprBase
	Value token.Literal
}

// Grouping is a parenthesized expression.
type Grouping struct {
	ExprBase
	Inner Expr
}

// Unary is a prefix operation: !x, -x. Pos is the operator.
type Unary struct {
	ExprBase
	Op    token.Kind
	Right Expr
}

// Binary is an arithmetic, comparison or equality operation. Pos is the operator.
type Binary struct {
	ExprBase
	Left  Expr
	Op    token.Kind
	Right Expr
}

// Logical is a short-circuiting `and` / `or`. Pos is the operator.
type Logical struct {
	ExprBase
	Left  Expr
	Op    token.Kind // token.KW_AND or token.KW_OR
	Right Expr
}

// Variable is a reference to a named binding.
type Variable struct {
	ExprBase
	Name string
}

// Assign stores Value into an existing binding and yields it.
type Assign struct {
	ExprBase
	Name  string
	Value Expr
}

// ============================================================
// Statements
// ============================================================

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// PrintStmt evaluates an expression and writes its rendering.
type PrintStmt struct {
	StmtBase
	Expr Expr
}

// VarStmt declares a variable in the current scope.
type VarStmt struct {
	StmtBase
	Name string
	Init Expr // never nil; the parser supplies a nil literal when omitted
}

// BlockStmt is a braced statement list with its own scope.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	StmtBase
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

// WhileStmt is a pre-tested loop. `for` loops are desugared into it.
type WhileStmt struct {
	StmtBase
	Cond Expr
	Body Stmt
}

// ============================================================
// Constructors
// ============================================================

// ExprAt returns an ExprBase positioned at pos.
func ExprAt(pos span.Position) ExprBase {
	return ExprBase{NodeBase{Pos: pos}}
}

// StmtAt returns a StmtBase positioned at pos.
func StmtAt(pos span.Position) StmtBase {
	return StmtBase{NodeBase{Pos: pos}}
}
