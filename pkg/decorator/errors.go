package decorator

import (
	"fmt"
	"strings"
)

// ConfigurationError reports option keys that a decoration call does not
// accept. The target object is never partially constructed when this error is
// returned.
type ConfigurationError struct {
	// Op names the call that rejected the options, e.g. "Decorate".
	Op string
	// Keys lists the offending option keys.
	Keys []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("decorator: %s: unknown option key(s): %s", e.Op, strings.Join(e.Keys, ", "))
}

// UninferrableSourceError is returned when a definition cannot resolve the
// source type it decorates: its name does not carry the Decorator suffix, no
// source type with the derived name is registered, or the definition is
// anonymous.
type UninferrableSourceError struct {
	// Definition is the name of the definition whose source could not be
	// resolved.
	Definition string
}

func (e *UninferrableSourceError) Error() string {
	if e.Definition == "" {
		return "decorator: source type is not inferrable for an anonymous definition"
	}
	return fmt.Sprintf("decorator: source type is not inferrable for %s", e.Definition)
}

// UninferrableDecoratorError is returned when no definition can be inferred
// for a source value.
type UninferrableDecoratorError struct {
	// Type is the Go type of the source that failed inference.
	Type string
}

func (e *UninferrableDecoratorError) Error() string {
	return fmt.Sprintf("decorator: no definition registered for %s", e.Type)
}

// MethodError is returned when a call cannot be satisfied by the decorator or
// delegated to its source. It is scoped to the decorator, not the source.
type MethodError struct {
	Decorator string
	Method    string
	// Private is true when the member exists but is not reachable through
	// delegation (unexported on the source, or private on the definition).
	Private bool
}

func (e *MethodError) Error() string {
	if e.Private {
		return fmt.Sprintf("decorator: %s: %s is private and cannot be called through delegation", e.Decorator, e.Method)
	}
	return fmt.Sprintf("decorator: %s: no method %s on decorator or source", e.Decorator, e.Method)
}
