package runtime

import (
	"fmt"
	"io"
	"lox-lang/internal/ast"
	"lox-lang/internal/token"
)

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it.
//
// The current scope is passed explicitly down through execute and evaluate;
// a block runs its statements in a fresh child frame, so the caller's frame
// is back in effect on every exit path, including errors.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	globals *Environment
	output  io.Writer
	trace   io.Writer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithTrace logs every executed statement to w as "[line <n>] <statement>".
func WithTrace(w io.Writer) Option {
	return func(i *Interpreter) {
		i.trace = w
	}
}

// NewInterpreter creates an interpreter that prints to output.
func NewInterpreter(output io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{
		globals: NewEnvironment(nil),
		output:  output,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Globals returns the global environment. It persists across calls to Run.
func (i *Interpreter) Globals() *Environment {
	return i.globals
}

// Run executes a parsed file in the global environment.
func (i *Interpreter) Run(file *ast.File) error {
	return i.Execute(file.Stmts, i.globals)
}

// Execute runs stmts in env, stopping at the first runtime error.
func (i *Interpreter) Execute(stmts []ast.Stmt, env *Environment) error {
	for _, stmt := range stmts {
		if err := i.execute(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate computes the value of expr in env.
func (i *Interpreter) Evaluate(expr ast.Expr, env *Environment) (Value, error) {
	return i.evaluate(expr, env)
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execute(stmt ast.Stmt, env *Environment) error {
	if i.trace != nil {
		fmt.Fprintf(i.trace, "[line %d] %s\n", stmt.GetPos().Line, traceText(stmt))
	}

	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := i.evaluate(s.Expr, env)
		return err

	case *ast.PrintStmt:
		val, err := i.evaluate(s.Expr, env)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.output, val.String())
		return nil

	case *ast.VarStmt:
		val, err := i.evaluate(s.Init, env)
		if err != nil {
			return err
		}
		env.Define(s.Name, val)
		return nil

	case *ast.BlockStmt:
		return i.Execute(s.Stmts, NewEnvironment(env))

	case *ast.IfStmt:
		return i.execIf(s, env)

	case *ast.WhileStmt:
		return i.execWhile(s, env)

	default:
		panic(fmt.Sprintf("runtime: unhandled statement type %T", stmt))
	}
}

func (i *Interpreter) execIf(s *ast.IfStmt, env *Environment) error {
	cond, err := i.evaluate(s.Cond, env)
	if err != nil {
		return err
	}

	if IsTruthy(cond) {
		return i.execute(s.Then, env)
	}
	if s.Else != nil {
		return i.execute(s.Else, env)
	}
	return nil
}

func (i *Interpreter) execWhile(s *ast.WhileStmt, env *Environment) error {
	for {
		cond, err := i.evaluate(s.Cond, env)
		if err != nil {
			return err
		}
		if !IsTruthy(cond) {
			return nil
		}
		if err := i.execute(s.Body, env); err != nil {
			return err
		}
	}
}

// traceText is the one-line rendering of a statement used by WithTrace.
// Compound statements show only their header.
func traceText(stmt ast.Stmt) string {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return fmt.Sprintf("{ %d statement(s) }", len(s.Stmts))
	case *ast.IfStmt:
		return "if " + ast.Source(s.Cond)
	case *ast.WhileStmt:
		return "while " + ast.Source(s.Cond)
	default:
		return ast.Source(stmt)
	}
}

// ============================================================
// Expression evaluation
// ============================================================

func (i *Interpreter) evaluate(expr ast.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return FromLiteral(e.Value), nil

	case *ast.Grouping:
		return i.evaluate(e.Inner, env)

	case *ast.Unary:
		return i.evalUnary(e, env)

	case *ast.Binary:
		return i.evalBinary(e, env)

	case *ast.Logical:
		return i.evalLogical(e, env)

	case *ast.Variable:
		val, err := env.Get(e.Name)
		if err != nil {
			return nil, runtimeErr(e.Pos, err)
		}
		return val, nil

	case *ast.Assign:
		val, err := i.evaluate(e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(e.Name, val); err != nil {
			return nil, runtimeErr(e.Pos, err)
		}
		return val, nil

	default:
		panic(fmt.Sprintf("runtime: unhandled expression type %T", expr))
	}
}

func (i *Interpreter) evalUnary(e *ast.Unary, env *Environment) (Value, error) {
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.MINUS:
		n, ok := right.(NumberVal)
		if !ok {
			return nil, mismatch(e.Pos, "operand of '-' must be a number, got %s", right.TypeName())
		}
		return -n, nil
	case token.BANG:
		return BoolVal(!IsTruthy(right)), nil
	default:
		panic(fmt.Sprintf("runtime: unhandled unary operator %s", e.Op))
	}
}

func (i *Interpreter) evalLogical(e *ast.Logical, env *Environment) (Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.KW_OR:
		if IsTruthy(left) {
			return left, nil
		}
	case token.KW_AND:
		if !IsTruthy(left) {
			return left, nil
		}
	default:
		panic(fmt.Sprintf("runtime: unhandled logical operator %s", e.Op))
	}
	return i.evaluate(e.Right, env)
}

func (i *Interpreter) evalBinary(e *ast.Binary, env *Environment) (Value, error) {
	left, err := i.evaluate(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.EQUAL_EQUAL:
		return BoolVal(Equal(left, right)), nil
	case token.BANG_EQUAL:
		return BoolVal(!Equal(left, right)), nil
	case token.PLUS:
		return add(e, left, right)
	}

	l, lok := left.(NumberVal)
	r, rok := right.(NumberVal)
	if !lok || !rok {
		return nil, mismatch(e.Pos, "operands of '%s' must be numbers, got %s and %s",
			e.Op, left.TypeName(), right.TypeName())
	}

	switch e.Op {
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		if r == 0 {
			return nil, runtimeErr(e.Pos, ErrDivisionByZero)
		}
		return l / r, nil
	case token.GREATER:
		return BoolVal(l > r), nil
	case token.GREATER_EQUAL:
		return BoolVal(l >= r), nil
	case token.LESS:
		return BoolVal(l < r), nil
	case token.LESS_EQUAL:
		return BoolVal(l <= r), nil
	default:
		panic(fmt.Sprintf("runtime: unhandled binary operator %s", e.Op))
	}
}

// add implements '+': number addition or string concatenation.
func add(e *ast.Binary, left, right Value) (Value, error) {
	switch l := left.(type) {
	case NumberVal:
		if r, ok := right.(NumberVal); ok {
			return l + r, nil
		}
	case StringVal:
		if r, ok := right.(StringVal); ok {
			return l + r, nil
		}
	}
	return nil, mismatch(e.Pos, "operands of '+' must be two numbers or two strings, got %s and %s",
		left.TypeName(), right.TypeName())
}
