package decorator

import (
	"fmt"
	"reflect"
)

// delegate resolves a call against the wrapped source: nested decorators
// recurse through their own resolution, map sources resolve by key, struct
// sources resolve exported methods (value or pointer receiver) and exported
// fields. Unexported-style names are private and never delegated.
func delegate(decoratorName string, target any, name string, args []any) (any, error) {
	if target == nil {
		return nil, &MethodError{Decorator: decoratorName, Method: name}
	}
	if inner, ok := target.(*Decorator); ok {
		return inner.Invoke(name, args...)
	}
	if m, ok := target.(map[string]any); ok {
		if value, ok := m[name]; ok {
			return resolveMapEntry(decoratorName, name, value, args)
		}
		return nil, &MethodError{Decorator: decoratorName, Method: name}
	}
	if !exportedName(name) {
		return nil, &MethodError{Decorator: decoratorName, Method: name, Private: true}
	}

	rv := reflect.ValueOf(target)
	if method := methodByName(rv, name); method.IsValid() {
		return callFunc(decoratorName, name, method, args)
	}
	if field, ok := fieldByName(rv, name); ok {
		if fn, isFunc := field.(funcValue); isFunc {
			return callFunc(decoratorName, name, fn.value, args)
		}
		if len(args) > 0 {
			return nil, fmt.Errorf("decorator: %s: %s is a field and takes no arguments", decoratorName, name)
		}
		return field, nil
	}
	return nil, &MethodError{Decorator: decoratorName, Method: name}
}

// delegatable mirrors delegate's resolution without performing the call.
func delegatable(target any, name string) bool {
	if target == nil || name == "" {
		return false
	}
	if inner, ok := target.(*Decorator); ok {
		return inner.RespondsTo(name, false)
	}
	if m, ok := target.(map[string]any); ok {
		_, ok := m[name]
		return ok
	}
	if !exportedName(name) {
		return false
	}
	rv := reflect.ValueOf(target)
	if methodByName(rv, name).IsValid() {
		return true
	}
	_, ok := fieldByName(rv, name)
	return ok
}

// funcValue marks a struct field whose value is callable, so delegation can
// forward arguments to it instead of returning the function itself.
type funcValue struct {
	value reflect.Value
}

func resolveMapEntry(decoratorName, name string, value any, args []any) (any, error) {
	rv := reflect.ValueOf(value)
	if rv.IsValid() && rv.Kind() == reflect.Func {
		return callFunc(decoratorName, name, rv, args)
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("decorator: %s: %s is a value and takes no arguments", decoratorName, name)
	}
	return value, nil
}

func methodByName(rv reflect.Value, name string) reflect.Value {
	if !rv.IsValid() {
		return reflect.Value{}
	}
	if method := rv.MethodByName(name); method.IsValid() {
		return method
	}
	// Pointer-receiver methods are not in a value's method set; retry against
	// an addressable copy.
	if rv.Kind() != reflect.Pointer && rv.CanInterface() {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if method := ptr.MethodByName(name); method.IsValid() {
			return method
		}
	}
	return reflect.Value{}
}

func fieldByName(rv reflect.Value, name string) (any, bool) {
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, false
	}
	structField, ok := rv.Type().FieldByName(name)
	if !ok || !structField.IsExported() {
		return nil, false
	}
	field := rv.FieldByIndex(structField.Index)
	if field.Kind() == reflect.Func && !field.IsNil() {
		return funcValue{value: field}, true
	}
	return field.Interface(), true
}

func callFunc(decoratorName, name string, fn reflect.Value, args []any) (any, error) {
	ft := fn.Type()
	in, err := buildArgs(decoratorName, name, ft, args)
	if err != nil {
		return nil, err
	}
	outs := fn.Call(in)
	return unpackResults(decoratorName, name, outs)
}

func buildArgs(decoratorName, name string, ft reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("decorator: %s: wrong number of arguments for %s (got %d, want at least %d)",
				decoratorName, name, len(args), numIn-1)
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("decorator: %s: wrong number of arguments for %s (got %d, want %d)",
			decoratorName, name, len(args), numIn)
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if ft.IsVariadic() && i >= numIn-1 {
			want = ft.In(numIn - 1).Elem()
		} else {
			want = ft.In(i)
		}
		value, err := convertArg(decoratorName, name, arg, want, i)
		if err != nil {
			return nil, err
		}
		in[i] = value
	}
	return in, nil
}

func convertArg(decoratorName, name string, arg any, want reflect.Type, index int) (reflect.Value, error) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), nil
		default:
			return reflect.Value{}, fmt.Errorf("decorator: %s: argument %d of %s cannot be nil", decoratorName, index, name)
		}
	}
	rv := reflect.ValueOf(arg)
	switch {
	case rv.Type().AssignableTo(want):
		return rv, nil
	case rv.Type().ConvertibleTo(want):
		return rv.Convert(want), nil
	default:
		return reflect.Value{}, fmt.Errorf("decorator: %s: argument %d of %s: cannot use %T as %s",
			decoratorName, index, name, arg, want)
	}
}

func unpackResults(decoratorName, name string, outs []reflect.Value) (any, error) {
	if len(outs) == 0 {
		return nil, nil
	}

	last := outs[len(outs)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
		outs = outs[:len(outs)-1]
	}

	switch len(outs) {
	case 0:
		return nil, nil
	case 1:
		return outs[0].Interface(), nil
	default:
		values := make([]any, len(outs))
		for i, out := range outs {
			values[i] = out.Interface()
		}
		return values, nil
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
