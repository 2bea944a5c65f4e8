package ast

import (
	"fmt"
	"lox-lang/internal/token"
	"strings"
)

// Print renders a node in parenthesized prefix form, e.g. (* (- 123) (group 45.67)).
// It is a debugging aid; the output is not valid source.
func Print(node Node) string {
	var sb strings.Builder
	printPrefix(&sb, node)
	return sb.String()
}

func printPrefix(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case *Literal:
		sb.WriteString(n.Value.String())
	case *Grouping:
		parenthesize(sb, "group", n.Inner)
	case *Unary:
		parenthesize(sb, n.Op.String(), n.Right)
	case *Binary:
		parenthesize(sb, n.Op.String(), n.Left, n.Right)
	case *Logical:
		parenthesize(sb, n.Op.String(), n.Left, n.Right)
	case *Variable:
		sb.WriteString(n.Name)
	case *Assign:
		parenthesize(sb, "= "+n.Name, n.Value)
	case *ExprStmt:
		parenthesize(sb, "expr", n.Expr)
	case *PrintStmt:
		parenthesize(sb, "print", n.Expr)
	case *VarStmt:
		parenthesize(sb, "var "+n.Name, n.Init)
	case *BlockStmt:
		nodes := make([]Node, len(n.Stmts))
		for i, s := range n.Stmts {
			nodes[i] = s
		}
		parenthesize(sb, "block", nodes...)
	case *IfStmt:
		if n.Else != nil {
			parenthesize(sb, "if", n.Cond, n.Then, n.Else)
		} else {
			parenthesize(sb, "if", n.Cond, n.Then)
		}
	case *WhileStmt:
		parenthesize(sb, "while", n.Cond, n.Body)
	case *File:
		for i, s := range n.Stmts {
			if i > 0 {
				sb.WriteByte('\n')
			}
			printPrefix(sb, s)
		}
	default:
		panic(fmt.Sprintf("ast: unhandled node type %T", node))
	}
}

func parenthesize(sb *strings.Builder, name string, nodes ...Node) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, n := range nodes {
		sb.WriteByte(' ')
		printPrefix(sb, n)
	}
	sb.WriteByte(')')
}

// Source renders a node as source text that parses back into an equivalent
// tree. Every compound expression is parenthesized, so Grouping nodes are
// dropped; rendering the re-parsed tree yields the same text again.
func Source(node Node) string {
	var sb strings.Builder
	writeSource(&sb, node)
	return sb.String()
}

func writeSource(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case Expr:
		writeExpr(sb, n, true)
	case *File:
		for i, s := range n.Stmts {
			if i > 0 {
				sb.WriteByte('\n')
			}
			writeStmt(sb, s)
		}
	case Stmt:
		writeStmt(sb, n)
	default:
		panic(fmt.Sprintf("ast: unhandled node type %T", node))
	}
}

// writeExpr writes e; when wrap is false the outermost parentheses are omitted.
func writeExpr(sb *strings.Builder, e Expr, wrap bool) {
	open := func() {
		if wrap {
			sb.WriteByte('(')
		}
	}
	closeParen := func() {
		if wrap {
			sb.WriteByte(')')
		}
	}

	switch n := e.(type) {
	case *Literal:
		if s, ok := n.Value.(token.Text); ok {
			sb.WriteString(`"` + string(s) + `"`)
		} else {
			sb.WriteString(n.Value.String())
		}
	case *Grouping:
		writeExpr(sb, n.Inner, wrap)
	case *Variable:
		sb.WriteString(n.Name)
	case *Unary:
		open()
		sb.WriteString(n.Op.String())
		writeExpr(sb, n.Right, true)
		closeParen()
	case *Binary:
		open()
		writeExpr(sb, n.Left, true)
		sb.WriteString(" " + n.Op.String() + " ")
		writeExpr(sb, n.Right, true)
		closeParen()
	case *Logical:
		open()
		writeExpr(sb, n.Left, true)
		sb.WriteString(" " + n.Op.String() + " ")
		writeExpr(sb, n.Right, true)
		closeParen()
	case *Assign:
		open()
		sb.WriteString(n.Name + " = ")
		writeExpr(sb, n.Value, false)
		closeParen()
	default:
		panic(fmt.Sprintf("ast: unhandled expression type %T", e))
	}
}

func writeStmt(sb *strings.Builder, s Stmt) {
	switch n := s.(type) {
	case *ExprStmt:
		writeExpr(sb, n.Expr, false)
		sb.WriteByte(';')
	case *PrintStmt:
		sb.WriteString("print ")
		writeExpr(sb, n.Expr, false)
		sb.WriteByte(';')
	case *VarStmt:
		sb.WriteString("var " + n.Name + " = ")
		writeExpr(sb, n.Init, false)
		sb.WriteByte(';')
	case *BlockStmt:
		sb.WriteByte('{')
		for _, inner := range n.Stmts {
			sb.WriteByte(' ')
			writeStmt(sb, inner)
		}
		sb.WriteString(" }")
	case *IfStmt:
		sb.WriteString("if (")
		writeExpr(sb, n.Cond, false)
		sb.WriteString(") ")
		writeStmt(sb, n.Then)
		if n.Else != nil {
			sb.WriteString(" else ")
			writeStmt(sb, n.Else)
		}
	case *WhileStmt:
		sb.WriteString("while (")
		writeExpr(sb, n.Cond, false)
		sb.WriteString(") ")
		writeStmt(sb, n.Body)
	default:
		panic(fmt.Sprintf("ast: unhandled statement type %T", s))
	}
}
