package runtime

import (
	"bytes"
	"errors"
	"lox-lang/internal/lexer"
	"lox-lang/internal/parser"
	"strings"
	"testing"
)

// runSource parses and executes source code, returning captured stdout and any error.
func runSource(source string) (string, error) {
	var buf bytes.Buffer
	err := runWith(NewInterpreter(&buf), source)
	return buf.String(), err
}

func runWith(interp *Interpreter, source string) error {
	tokens, lexDiags := lexer.New(source, "test.lox").Tokenize()
	if lexDiags.HasErrors() {
		return lexDiags
	}
	file, parseDiags := parser.New(tokens).ParseFile()
	if parseDiags.HasErrors() {
		return parseDiags
	}
	return interp.Run(file)
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if strings.TrimRight(out, "\n") != strings.TrimRight(expected, "\n") {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
}

func expectError(t *testing.T, source, contains string) *RuntimeError {
	t.Helper()
	_, err := runSource(source)
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", contains)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected error containing %q, got: %v", contains, err)
	}
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	return rerr
}

// ---- Tests ----

func TestPrintLiteral(t *testing.T) {
	expectOutput(t, `print 42;`, "42\n")
	expectOutput(t, `print "hello";`, "hello\n")
	expectOutput(t, `print true; print false; print nil;`, "true\nfalse\nnil\n")
}

func TestArithmetic(t *testing.T) {
	expectOutput(t, `print 1 + 2 * 3;`, "7\n")
	expectOutput(t, `print (1 + 2) * 3;`, "9\n")
	expectOutput(t, `print 10 - 2 - 3;`, "5\n")
	expectOutput(t, `print 8 / 4 / 2;`, "1\n")
	expectOutput(t, `print -3 - -4;`, "1\n")
}

func TestNumberRendering(t *testing.T) {
	expectOutput(t, `print 3.0;`, "3\n")
	expectOutput(t, `print 2.5;`, "2.5\n")
	expectOutput(t, `print 10 / 4;`, "2.5\n")
	expectOutput(t, `print 1 / 3;`, "0.3333333333333333\n")
	expectOutput(t, `print 0.1 + 0.2;`, "0.30000000000000004\n")
	expectOutput(t, `print -0.5;`, "-0.5\n")
}

func TestStringConcat(t *testing.T) {
	expectOutput(t, `print "foo" + "bar";`, "foobar\n")
	expectOutput(t, `var s = "a"; s = s + "b" + "c"; print s;`, "abc\n")
}

func TestComparison(t *testing.T) {
	expectOutput(t, `print 1 < 2; print 2 <= 2; print 3 > 4; print 4 >= 5;`, "true\ntrue\nfalse\nfalse\n")
}

func TestEquality(t *testing.T) {
	expectOutput(t, `print 1 == 1; print "a" == "a"; print nil == nil;`, "true\ntrue\ntrue\n")
	expectOutput(t, `print 1 == "1"; print nil == false; print 0 == false;`, "false\nfalse\nfalse\n")
	expectOutput(t, `print 1 != 2; print true != true;`, "true\nfalse\n")
}

func TestTruthiness(t *testing.T) {
	expectOutput(t, `print !nil; print !false; print !0; print !"";`, "true\ntrue\nfalse\nfalse\n")
	expectOutput(t, `if (0) print "zero is truthy";`, "zero is truthy\n")
	expectOutput(t, `if ("") print "empty is truthy";`, "empty is truthy\n")
}

func TestLogicalOps(t *testing.T) {
	expectOutput(t, `print nil or "yes";`, "yes\n")
	expectOutput(t, `print 1 or 2;`, "1\n")
	expectOutput(t, `print nil and 2;`, "nil\n")
	expectOutput(t, `print 1 and 2;`, "2\n")
	expectOutput(t, `print false or false;`, "false\n")
}

func TestShortCircuitSideEffects(t *testing.T) {
	expectOutput(t, `var x = 0; false and (x = 1); print x;`, "0\n")
	expectOutput(t, `var x = 0; true or (x = 1); print x;`, "0\n")
	expectOutput(t, `var x = 0; true and (x = 1); print x;`, "1\n")
	// The unevaluated side would fail if it ran.
	expectOutput(t, `print false and undefinedName;`, "false\n")
}

func TestVarDecl(t *testing.T) {
	expectOutput(t, `var x = 10; print x;`, "10\n")
	expectOutput(t, `var x; print x;`, "nil\n")
	expectOutput(t, `var x = 1; var x = 2; print x;`, "2\n")
}

func TestAssignment(t *testing.T) {
	expectOutput(t, `var a; var b; a = b = 1; print a; print b;`, "1\n1\n")
	expectOutput(t, `var a = 1; print a = 5;`, "5\n")
}

func TestAssignUndefined(t *testing.T) {
	rerr := expectError(t, `y = 1;`, "undefined variable 'y'")
	if !errors.Is(rerr, ErrUndefinedVariable) {
		t.Errorf("expected ErrUndefinedVariable, got %v", rerr.Err)
	}
}

func TestUndefinedVarError(t *testing.T) {
	rerr := expectError(t, "var a = 1;\n\nprint b;", "[line 3] undefined variable 'b'")
	if rerr.Line() != 3 {
		t.Errorf("expected line 3, got %d", rerr.Line())
	}
	if !errors.Is(rerr, ErrUndefinedVariable) {
		t.Error("expected errors.Is(err, ErrUndefinedVariable)")
	}
}

func TestBlockScoping(t *testing.T) {
	expectOutput(t, `
var a = "global a";
var b = "global b";
{
  var a = "outer a";
  {
    var a = "inner a";
    print a;
    print b;
  }
  print a;
}
print a;
`, "inner a\nglobal b\nouter a\nglobal a\n")
}

func TestBlockAssignsEnclosing(t *testing.T) {
	expectOutput(t, `var a = 1; { a = 2; } print a;`, "2\n")
}

func TestBlockLocalNotVisibleOutside(t *testing.T) {
	expectError(t, `{ var inner = 1; } print inner;`, "undefined variable 'inner'")
}

func TestScopeRestoredAfterError(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	if err := runWith(interp, `var a = "global"; { var a = "local"; print missing; }`); err == nil {
		t.Fatal("expected runtime error")
	}
	if err := runWith(interp, `print a;`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "global\n" {
		t.Errorf("expected the global frame after the failed block, got %q", got)
	}
}

func TestIfElse(t *testing.T) {
	expectOutput(t, `if (1 < 2) print "yes"; else print "no";`, "yes\n")
	expectOutput(t, `if (1 > 2) print "yes"; else print "no";`, "no\n")
	expectOutput(t, `if (nil) print "never";`, "")
	expectOutput(t, `if (false) if (true) print 1; else print 2;`, "")
}

func TestWhileLoop(t *testing.T) {
	expectOutput(t, `
var i = 0;
while (i < 3) {
  print i;
  i = i + 1;
}
`, "0\n1\n2\n")
}

func TestForLoop(t *testing.T) {
	expectOutput(t, `for (var i = 0; i < 3; i = i + 1) print i;`, "0\n1\n2\n")
}

func TestForMatchesWhile(t *testing.T) {
	forOut, err := runSource(`var s = 0; for (var i = 1; i <= 10; i = i + 1) s = s + i; print s;`)
	if err != nil {
		t.Fatal(err)
	}
	whileOut, err := runSource(`var s = 0; { var i = 1; while (i <= 10) { s = s + i; i = i + 1; } } print s;`)
	if err != nil {
		t.Fatal(err)
	}
	if forOut != whileOut || forOut != "55\n" {
		t.Errorf("for and while disagree: %q vs %q", forOut, whileOut)
	}
}

func TestForLoopVariableScoped(t *testing.T) {
	expectError(t, `for (var i = 0; i < 1; i = i + 1) {} print i;`, "undefined variable 'i'")
	expectOutput(t, `var i = "outer"; for (var i = 0; i < 2; i = i + 1) {} print i;`, "outer\n")
}

func TestTypeMismatch(t *testing.T) {
	rerr := expectError(t, `print 1 + "a";`, "operands of '+' must be two numbers or two strings")
	if !errors.Is(rerr, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", rerr.Err)
	}
	expectError(t, `print -"a";`, "operand of '-' must be a number, got string")
	expectError(t, `print true * 2;`, "operands of '*' must be numbers, got bool and number")
	expectError(t, `print "a" < "b";`, "operands of '<' must be numbers")
}

func TestDivisionByZero(t *testing.T) {
	rerr := expectError(t, "print 1;\nprint 1 / 0;", "[line 2] division by zero")
	if !errors.Is(rerr, ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", rerr.Err)
	}
}

func TestErrorAbortsRemainingStatements(t *testing.T) {
	out, err := runSource(`print "before"; print nope; print "after";`)
	if err == nil {
		t.Fatal("expected runtime error")
	}
	if out != "before\n" {
		t.Errorf("statements after the error should not run, got %q", out)
	}
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf)
	if err := runWith(interp, `var counter = 1;`); err != nil {
		t.Fatal(err)
	}
	if err := runWith(interp, `counter = counter + 1; print counter;`); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "2\n" {
		t.Errorf("expected 2, got %q", buf.String())
	}
	if names := interp.Globals().Names(); len(names) != 1 || names[0] != "counter" {
		t.Errorf("expected globals [counter], got %v", names)
	}
}

func TestTrace(t *testing.T) {
	var out, trace bytes.Buffer
	interp := NewInterpreter(&out, WithTrace(&trace))
	if err := runWith(interp, "var x = 1;\nif (x > 0) {\n  print x + 1;\n}"); err != nil {
		t.Fatal(err)
	}
	want := "[line 1] var x = 1;\n" +
		"[line 2] if (x > 0)\n" +
		"[line 2] { 1 statement(s) }\n" +
		"[line 3] print x + 1;\n"
	if trace.String() != want {
		t.Errorf("trace mismatch:\nexpected: %q\ngot:      %q", want, trace.String())
	}
	if out.String() != "2\n" {
		t.Errorf("expected output 2, got %q", out.String())
	}
}
