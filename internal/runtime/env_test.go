package runtime

import (
	"errors"
	"testing"
)

func TestEnvironmentDefineGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberVal(1))
	val, err := env.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != NumberVal(1) {
		t.Errorf("expected 1, got %v", val)
	}
	if env.Enclosing() != nil {
		t.Error("global frame should have no enclosing frame")
	}
}

func TestEnvironmentLookupWalksChain(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("g", StringVal("global"))
	inner := NewEnvironment(NewEnvironment(global))

	val, err := inner.Get("g")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != StringVal("global") {
		t.Errorf("expected global, got %v", val)
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", NumberVal(1))
	local := NewEnvironment(global)
	local.Define("a", NumberVal(2))

	if val, _ := local.Get("a"); val != NumberVal(2) {
		t.Errorf("local should shadow global, got %v", val)
	}
	if val, _ := global.Get("a"); val != NumberVal(1) {
		t.Errorf("global should be untouched, got %v", val)
	}
}

func TestEnvironmentAssignNearest(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", NumberVal(1))
	local := NewEnvironment(global)

	if err := local.Assign("a", NumberVal(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val, _ := global.Get("a"); val != NumberVal(5) {
		t.Errorf("assignment should update the enclosing binding, got %v", val)
	}
	if names := local.Names(); len(names) != 0 {
		t.Errorf("assignment must not create a local binding, got %v", names)
	}
}

func TestEnvironmentUndefined(t *testing.T) {
	env := NewEnvironment(NewEnvironment(nil))
	if _, err := env.Get("nope"); !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("expected ErrUndefinedVariable from Get, got %v", err)
	}
	err := env.Assign("nope", NilVal{})
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable from Assign, got %v", err)
	}
	if err.Error() != "undefined variable 'nope'" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if _, err := env.Get("nope"); err == nil {
		t.Error("failed Assign must not create a binding")
	}
}

func TestEnvironmentNamesSorted(t *testing.T) {
	env := NewEnvironment(nil)
	for _, name := range []string{"c", "a", "b"} {
		env.Define(name, NilVal{})
	}
	names := env.Names()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("expected [a b c], got %v", names)
	}
}

func TestValueRendering(t *testing.T) {
	tests := []struct {
		val  Value
		want string
		typ  string
	}{
		{NumberVal(3), "3", "number"},
		{NumberVal(-1.25), "-1.25", "number"},
		{StringVal("hi"), "hi", "string"},
		{BoolVal(true), "true", "bool"},
		{NilVal{}, "nil", "nil"},
	}
	for _, tt := range tests {
		if got := tt.val.String(); got != tt.want {
			t.Errorf("String(): expected %q, got %q", tt.want, got)
		}
		if got := tt.val.TypeName(); got != tt.typ {
			t.Errorf("TypeName(): expected %q, got %q", tt.typ, got)
		}
	}
}
