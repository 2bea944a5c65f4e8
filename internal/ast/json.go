package ast

import (
	"fmt"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// NodeToMap converts an AST node to a map suitable for JSON serialization.
// This produces a tagged-union structure: every node has a "kind" field.
func NodeToMap(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return m("File", n.Pos, "stmts", stmtSlice(n.Stmts))

	// ---- Expressions ----
	case *Literal:
		return m("Literal", n.Pos, "type", literalType(n.Value), "value", literalValue(n.Value))
	case *Grouping:
		return m("Grouping", n.Pos, "inner", NodeToMap(n.Inner))
	case *Unary:
		return m("Unary", n.Pos, "op", n.Op.String(), "right", NodeToMap(n.Right))
	case *Binary:
		return m("Binary", n.Pos,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *Logical:
		return m("Logical", n.Pos,
			"op", n.Op.String(),
			"left", NodeToMap(n.Left),
			"right", NodeToMap(n.Right))
	case *Variable:
		return m("Variable", n.Pos, "name", n.Name)
	case *Assign:
		return m("Assign", n.Pos, "name", n.Name, "value", NodeToMap(n.Value))

	// ---- Statements ----
	case *ExprStmt:
		return m("ExprStmt", n.Pos, "expr", NodeToMap(n.Expr))
	case *PrintStmt:
		return m("PrintStmt", n.Pos, "expr", NodeToMap(n.Expr))
	case *VarStmt:
		return m("VarStmt", n.Pos, "name", n.Name, "init", NodeToMap(n.Init))
	case *BlockStmt:
		return m("BlockStmt", n.Pos, "stmts", stmtSlice(n.Stmts))
	case *IfStmt:
		result := m("IfStmt", n.Pos,
			"condition", NodeToMap(n.Cond),
			"then", NodeToMap(n.Then))
		if n.Else != nil {
			result["else"] = NodeToMap(n.Else)
		}
		return result
	case *WhileStmt:
		return m("WhileStmt", n.Pos,
			"condition", NodeToMap(n.Cond),
			"body", NodeToMap(n.Body))

	default:
		panic(fmt.Sprintf("ast: unhandled node type %T", node))
	}
}

// ---- helpers ----

// m builds a map with kind, position, and extra key-value pairs.
func m(kind string, pos span.Position, kvs ...interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"kind": kind,
		"line": pos.Line,
		"col":  pos.Column,
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		key := kvs[i].(string)
		result[key] = kvs[i+1]
	}
	return result
}

func stmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = NodeToMap(s)
	}
	return result
}

func literalType(lit token.Literal) string {
	switch lit.(type) {
	case token.Number:
		return "number"
	case token.Text:
		return "string"
	case token.Boolean:
		return "bool"
	default:
		return "nil"
	}
}

func literalValue(lit token.Literal) interface{} {
	switch v := lit.(type) {
	case token.Number:
		return float64(v)
	case token.Text:
		return string(v)
	case token.Boolean:
		return bool(v)
	default:
		return nil
	}
}
