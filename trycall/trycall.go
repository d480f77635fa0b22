// Package trycall invokes callables with as many of the provided arguments
// as their signature accepts.
//
// Call tries the provided arguments first, falls back to a zero-argument
// call, and otherwise does nothing. This lets generic plumbing (such as the
// synchronizer package's adapters) forward arguments to callables without
// knowing their signature.
package trycall

import (
	"errors"
	"reflect"
)

// Call tries to invoke fn with the provided arguments, or no arguments at
// all.
//
// If fn is callable with the provided arguments, it is called with them.
// Otherwise, if fn is callable with no arguments, it is called with none.
// Otherwise, fn is not called at all. Values that are not callable are
// ignored.
//
// When the invoked function's last result is an error, that error is
// returned; any other results are discarded.
func Call(fn any, args ...any) error {
	// Fast paths for the signatures adapters wrap in practice.
	switch f := fn.(type) {
	case nil:
		return nil
	case func():
		if f != nil {
			f()
		}
		return nil
	case func() error:
		if f != nil {
			return f()
		}
		return nil
	case func(...any):
		if f != nil {
			f(args...)
		}
		return nil
	case func(...any) error:
		if f != nil {
			return f(args...)
		}
		return nil
	}
	return callReflect(fn, args)
}

// Each tries to call every element of a slice or array of callables, in
// order, with the Call dispatch rules. Errors are collected and joined.
// Values that are not slices or arrays are ignored.
func Each(callables any, args ...any) error {
	v := reflect.ValueOf(callables)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil
	}
	var errs []error
	for i := 0; i < v.Len(); i++ {
		if err := Call(v.Index(i).Interface(), args...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EachIndexed tries to call every value of a map of callables with the Call
// dispatch rules. Errors are collected and joined. Iteration order follows
// Go's map iteration and is unspecified. Values that are not maps are
// ignored.
func EachIndexed(callables any, args ...any) error {
	v := reflect.ValueOf(callables)
	if v.Kind() != reflect.Map {
		return nil
	}
	var errs []error
	iter := v.MapRange()
	for iter.Next() {
		if err := Call(iter.Value().Interface(), args...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// callReflect dispatches arbitrary signatures: exact arity with assignable
// arguments (variadic included), then a zero-argument call, then a no-op.
func callReflect(fn any, args []any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil
	}
	t := v.Type()
	if in, ok := convertArgs(t, args); ok {
		return lastError(v.Call(in))
	}
	if in, ok := convertArgs(t, nil); ok {
		return lastError(v.Call(in))
	}
	return nil
}

// convertArgs checks that args match t's parameters and converts them to
// call values. A nil argument matches any nilable parameter type.
func convertArgs(t reflect.Type, args []any) ([]reflect.Value, bool) {
	numIn := t.NumIn()
	if t.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, false
		}
	} else if len(args) != numIn {
		return nil, false
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= numIn-1 {
			pt = t.In(numIn - 1).Elem()
		} else {
			pt = t.In(i)
		}
		av, ok := valueFor(arg, pt)
		if !ok {
			return nil, false
		}
		in[i] = av
	}
	return in, true
}

func valueFor(arg any, pt reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface,
			reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(pt), true
		}
		return reflect.Value{}, false
	}
	av := reflect.ValueOf(arg)
	if !av.Type().AssignableTo(pt) {
		return reflect.Value{}, false
	}
	return av, true
}

func lastError(out []reflect.Value) error {
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if !last.Type().Implements(errType) {
		return nil
	}
	err, _ := last.Interface().(error)
	return err
}
