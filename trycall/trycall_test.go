package trycall

import (
	"errors"
	"testing"
)

// TestCallWithMatchingArguments tests that matching arguments are forwarded.
func TestCallWithMatchingArguments(t *testing.T) {
	var got string
	err := Call(func(v string) { got = v }, "hello")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected argument forwarded, got %q", got)
	}
}

// TestCallFallsBackToZeroArguments tests the zero-argument fallback when
// the provided arguments don't fit.
func TestCallFallsBackToZeroArguments(t *testing.T) {
	var called bool
	err := Call(func() { called = true }, "ignored", 42)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !called {
		t.Fatal("expected zero-argument callable to run")
	}
}

// TestCallMismatchedArity tests that a callable fitting neither the
// provided arguments nor zero arguments is not called.
func TestCallMismatchedArity(t *testing.T) {
	var called bool
	err := Call(func(a, b int) { called = true }, "one")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if called {
		t.Fatal("expected callable not to run")
	}
}

// TestCallMismatchedTypes tests that assignability is required.
func TestCallMismatchedTypes(t *testing.T) {
	var called bool
	Call(func(v int) { called = true }, "not an int")
	if called {
		t.Fatal("expected callable not to run with unassignable argument")
	}
}

// TestCallNotCallable tests that non-callable values are a silent no-op.
func TestCallNotCallable(t *testing.T) {
	if err := Call(42); err != nil {
		t.Fatalf("expected nil for non-callable, got %v", err)
	}
	if err := Call("text", 1, 2); err != nil {
		t.Fatalf("expected nil for non-callable, got %v", err)
	}
	if err := Call(nil); err != nil {
		t.Fatalf("expected nil for nil, got %v", err)
	}
	var fn func()
	if err := Call(fn); err != nil {
		t.Fatalf("expected nil for nil func, got %v", err)
	}
}

// TestCallReturnsError tests that a trailing error result is returned.
func TestCallReturnsError(t *testing.T) {
	errBoom := errors.New("boom")

	err := Call(func() error { return errBoom })
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}

	err = Call(func(v string) error { return errBoom }, "x")
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom with arguments, got %v", err)
	}

	err = Call(func() error { return nil })
	if err != nil {
		t.Fatalf("expected nil error result, got %v", err)
	}
}

// TestCallDiscardsOtherResults tests that non-error results are dropped and
// only a trailing error is surfaced.
func TestCallDiscardsOtherResults(t *testing.T) {
	errBoom := errors.New("boom")

	err := Call(func() (int, error) { return 7, errBoom })
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected trailing error, got %v", err)
	}

	err = Call(func() int { return 7 })
	if err != nil {
		t.Fatalf("expected nil for non-error result, got %v", err)
	}
}

// TestCallVariadic tests dispatch into variadic signatures.
func TestCallVariadic(t *testing.T) {
	var got []int
	err := Call(func(vs ...int) { got = vs }, 1, 2, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", got)
	}

	// Fixed prefix plus variadic tail.
	var prefix string
	var tail []int
	Call(func(p string, vs ...int) {
		prefix = p
		tail = vs
	}, "p", 4, 5)
	if prefix != "p" || len(tail) != 2 {
		t.Fatalf("expected prefix and tail forwarded, got %q %v", prefix, tail)
	}

	// Variadic with no tail arguments.
	var called bool
	Call(func(vs ...string) { called = true })
	if !called {
		t.Fatal("expected variadic callable to run with no arguments")
	}
}

// TestCallNilArgument tests that nil matches nilable parameter types only.
func TestCallNilArgument(t *testing.T) {
	var gotNil bool
	Call(func(p *int) { gotNil = p == nil }, nil)
	if !gotNil {
		t.Fatal("expected nil pointer argument forwarded")
	}

	// nil cannot fill an int parameter; falls back to no call.
	var called bool
	Call(func(v int) { called = true }, nil)
	if called {
		t.Fatal("expected no call with nil for a value parameter")
	}
}

// TestEach tests calling every element of a slice of callables in order.
func TestEach(t *testing.T) {
	var order []int
	calls := []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
		func() { order = append(order, 3) },
	}

	if err := Each(calls); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected in-order execution, got %v", order)
	}
}

// TestEachMixedSignatures tests per-element dispatch in a heterogeneous
// slice.
func TestEachMixedSignatures(t *testing.T) {
	var withArg, without int
	calls := []any{
		func(v int) { withArg = v },
		func() { without++ },
		"not callable",
	}

	if err := Each(calls, 9); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if withArg != 9 {
		t.Fatalf("expected argument forwarded, got %d", withArg)
	}
	if without != 1 {
		t.Fatalf("expected zero-argument fallback, got %d", without)
	}
}

// TestEachJoinsErrors tests that element errors are collected.
func TestEachJoinsErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")
	calls := []func() error{
		func() error { return err1 },
		func() error { return nil },
		func() error { return err2 },
	}

	err := Each(calls)
	if !errors.Is(err, err1) || !errors.Is(err, err2) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
}

// TestEachNotARange tests that non-slice values are ignored.
func TestEachNotARange(t *testing.T) {
	if err := Each(42); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := Each(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

// TestEachIndexed tests calling every value of a map of callables.
func TestEachIndexed(t *testing.T) {
	var count int
	calls := map[string]func(){
		"a": func() { count++ },
		"b": func() { count++ },
	}

	if err := EachIndexed(calls); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 calls, got %d", count)
	}

	if err := EachIndexed("not a map"); err != nil {
		t.Fatalf("expected nil for non-map, got %v", err)
	}
}
