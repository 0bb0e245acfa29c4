package decorator

import (
	"fmt"
	"reflect"
)

// Association is the lazily realized binding between an owning decorator, an
// association name, and its declared options. It realizes exactly once per
// decorator instance; only a new decorator produces a new binding.
type Association struct {
	owner *Decorator
	name  string
	cfg   *associationConfig

	realized bool
	value    any
	err      error
}

// Name reports the association accessor name.
func (a *Association) Name() string {
	return a.name
}

// Call reads the raw association off the owner's source, applies the optional
// scope, decorates the result according to shape and the declared options,
// and caches the outcome. Subsequent calls return the cached value.
func (a *Association) Call() (any, error) {
	if !a.realized {
		a.realized = true
		a.value, a.err = a.realize()
	}
	return a.value, a.err
}

// ContextValue resolves the context forwarded to the decorated association:
// a ContextFunc derives it from the owner's context, a static context is
// returned verbatim, and omission inherits the owner's context unchanged.
func (a *Association) ContextValue() Context {
	switch {
	case a.cfg.contextFn != nil:
		return a.cfg.contextFn(a.owner.Context())
	case a.cfg.contextSet:
		return a.cfg.context
	default:
		return a.owner.Context()
	}
}

func (a *Association) realize() (any, error) {
	raw, err := delegate(a.owner.def.name, a.owner.source, a.name, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case a.cfg.scopeFn != nil:
		raw = a.cfg.scopeFn(raw)
	case a.cfg.scopeName != "":
		raw, err = delegate(a.owner.def.name, raw, a.cfg.scopeName, nil)
		if err != nil {
			return nil, fmt.Errorf("decorator: %s: association %s: scope %s: %w",
				a.owner.def.name, a.name, a.cfg.scopeName, err)
		}
	}

	ctx := a.ContextValue()
	if isSequence(raw) {
		return a.decorateSequence(raw, ctx)
	}
	return a.decorateSingular(raw, ctx)
}

func (a *Association) decorateSequence(raw any, ctx Context) (any, error) {
	switch {
	case a.cfg.withCollection != nil:
		return a.cfg.withCollection.Decorate(raw, WithContext(ctx))
	case a.cfg.with != nil:
		return a.cfg.with.DecorateCollection(raw, WithContext(ctx))
	}
	if reg := a.owner.def.registry; reg != nil {
		return reg.DecorateCollection(raw, WithContext(ctx))
	}
	generic := &CollectionDefinition{name: a.owner.def.name + "." + a.name}
	return generic.Decorate(raw, WithContext(ctx))
}

func (a *Association) decorateSingular(raw any, ctx Context) (any, error) {
	switch {
	case a.cfg.with != nil:
		return a.cfg.with.Decorate(raw, WithContext(ctx))
	case a.cfg.withCollection != nil:
		return nil, fmt.Errorf("decorator: %s: association %s: collection definition %s given for a singular result",
			a.owner.def.name, a.name, a.cfg.withCollection.name)
	}
	if decoratable, ok := raw.(Decoratable); ok {
		if def := decoratable.DecoratorDefinition(); def != nil {
			return def.Decorate(raw, WithContext(ctx))
		}
	}
	if reg := a.owner.def.registry; reg != nil {
		return reg.Decorate(raw, WithContext(ctx))
	}
	return nil, &UninferrableDecoratorError{Type: typeName(raw)}
}

// isSequence reports whether a raw association value has collection shape.
// Byte slices and strings stay singular.
func isSequence(v any) bool {
	switch v.(type) {
	case nil, []byte, string:
		return false
	case *Collection:
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
