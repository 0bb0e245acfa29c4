package decorator

import (
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-presenter/pkg/helpers"
)

// sourcer is satisfied by anything that exposes a wrapped value. Equality and
// chain traversal unwrap through it.
type sourcer interface {
	Source() any
}

// Equaler lets a source type define its own equality semantics. When neither
// side implements it, comparison falls back to identity and deep equality.
type Equaler interface {
	EqualTo(other any) bool
}

// Decorator wraps exactly one source value with presentation behavior. The
// source is borrowed, never copied: mutations through delegated calls are
// visible on both sides. Instances are request-scoped and not safe for
// concurrent mutation.
type Decorator struct {
	def     *Definition
	source  any
	context Context

	helpers      *helpers.Proxy
	associations map[string]*Association
}

// Definition reports the definition this instance was built from.
func (d *Decorator) Definition() *Definition {
	return d.def
}

// Source returns the wrapped value.
func (d *Decorator) Source() any {
	return d.source
}

// Context returns the decorator's context map. The decorator owns it; callers
// mutating the returned map mutate the decorator's context.
func (d *Decorator) Context() Context {
	return d.context
}

// SetContext replaces the context after construction.
func (d *Decorator) SetContext(ctx Context) {
	if ctx == nil {
		ctx = Context{}
	}
	d.context = ctx
}

// Helpers returns the view-helper proxy for this instance, constructing it on
// first access through the registry's factory and reusing it afterwards.
func (d *Decorator) Helpers() *helpers.Proxy {
	if d.helpers == nil {
		if reg := d.def.registry; reg != nil && reg.helperFactory != nil {
			d.helpers = reg.helperFactory(d.context)
		} else {
			d.helpers = helpers.New()
		}
	}
	return d.helpers
}

// Invoke resolves a named call: the definition's own methods first, then
// declared associations, then delegation to the source. Arguments, including
// trailing function callbacks, are forwarded untouched. Failure to resolve
// yields a *MethodError scoped to this decorator.
func (d *Decorator) Invoke(name string, args ...any) (any, error) {
	if name == "" {
		return nil, &MethodError{Decorator: d.def.name, Method: name}
	}
	if fn, ok := d.def.methods[name]; ok {
		if !exportedName(name) {
			return nil, &MethodError{Decorator: d.def.name, Method: name, Private: true}
		}
		return fn(d, args...)
	}
	if _, ok := d.def.associations[name]; ok {
		if len(args) > 0 {
			return nil, fmt.Errorf("decorator: %s: association %s takes no arguments", d.def.name, name)
		}
		return d.Association(name)
	}
	return delegate(d.def.name, d.source, name, args)
}

// RespondsTo reports whether Invoke could resolve name: members defined on
// the definition, declared associations, and members delegatable to the
// source under the same visibility rules. Private definition members are
// reported only when includePrivate is set.
func (d *Decorator) RespondsTo(name string, includePrivate bool) bool {
	if name == "" {
		return false
	}
	if _, ok := d.def.methods[name]; ok {
		return exportedName(name) || includePrivate
	}
	if _, ok := d.def.associations[name]; ok {
		return true
	}
	return delegatable(d.source, name)
}

// Association returns the decorated value of a declared association,
// realizing it on first access and reusing the realized binding afterwards.
func (d *Decorator) Association(name string) (any, error) {
	cfg, ok := d.def.associations[name]
	if !ok {
		return nil, &MethodError{Decorator: d.def.name, Method: name}
	}
	if d.associations == nil {
		d.associations = make(map[string]*Association, len(d.def.associations))
	}
	assoc, ok := d.associations[name]
	if !ok {
		assoc = &Association{owner: d, name: name, cfg: cfg}
		d.associations[name] = assoc
	}
	return assoc.Call()
}

// AppliedDecorators walks the chain from this decorator down to the innermost
// non-decorator source and returns the definitions encountered, innermost
// first.
func (d *Decorator) AppliedDecorators() []*Definition {
	var outerToInner []*Definition
	var current any = d
	for {
		dec, ok := current.(*Decorator)
		if !ok {
			break
		}
		outerToInner = append(outerToInner, dec.def)
		current = dec.source
	}
	for i, j := 0, len(outerToInner)-1; i < j; i, j = i+1, j-1 {
		outerToInner[i], outerToInner[j] = outerToInner[j], outerToInner[i]
	}
	return outerToInner
}

// DecoratedWith reports whether def appears anywhere in the chain.
func (d *Decorator) DecoratedWith(def *Definition) bool {
	for _, applied := range d.AppliedDecorators() {
		if applied == def {
			return true
		}
	}
	return false
}

// Equal compares this decorator with another value, unwrapping decorator
// chains on both sides so a decorator equals its (possibly transitively)
// wrapped source and any other decorator over an equal source.
func (d *Decorator) Equal(other any) bool {
	return Equal(d, other)
}

// MarshalJSON serializes the source, layering the definition's attribute
// overrides on top when the source serializes to an object. Overrides win for
// colliding keys.
func (d *Decorator) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(d.source)
	if err != nil {
		return nil, fmt.Errorf("decorator: %s: marshal source: %w", d.def.name, err)
	}
	if len(d.def.attributes) == 0 {
		return raw, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		// Overrides only apply to object-shaped sources.
		return raw, nil
	}
	for name, fn := range d.def.attributes {
		obj[name] = fn(d)
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("decorator: %s: marshal overrides: %w", d.def.name, err)
	}
	return out, nil
}

func (d *Decorator) String() string {
	return fmt.Sprintf("%s(%v)", d.def.name, d.source)
}

// Equal compares two values with decorator-aware semantics: identical values
// are equal, chains unwrap to their innermost sources, and sources compare
// through their EqualTo hook when present, otherwise by identity and deep
// equality.
func Equal(a, b any) bool {
	ua := unwrapChain(a)
	ub := unwrapChain(b)
	return equalValues(ua, ub)
}

// IsDecorated reports whether v is a decorated value. Plain values are never
// decorated.
func IsDecorated(v any) bool {
	switch v.(type) {
	case *Decorator, *Collection:
		return true
	default:
		return false
	}
}

// Applied returns the definitions applied to v, innermost first; plain values
// yield nil.
func Applied(v any) []*Definition {
	if dec, ok := v.(*Decorator); ok {
		return dec.AppliedDecorators()
	}
	return nil
}

// DecoratedWith reports whether def appears in v's decoration chain; always
// false for plain values.
func DecoratedWith(v any, def *Definition) bool {
	if dec, ok := v.(*Decorator); ok {
		return dec.DecoratedWith(def)
	}
	return false
}

func unwrapChain(v any) any {
	for {
		wrapper, ok := v.(sourcer)
		if !ok {
			return v
		}
		inner := wrapper.Source()
		if inner == v {
			return v
		}
		v = inner
	}
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(Equaler); ok {
		return eq.EqualTo(b)
	}
	if eq, ok := b.(Equaler); ok {
		return eq.EqualTo(a)
	}
	ra := reflect.ValueOf(a)
	rb := reflect.ValueOf(b)
	if ra.Kind() == reflect.Pointer && rb.Kind() == reflect.Pointer && ra.Pointer() == rb.Pointer() {
		return true
	}
	return reflect.DeepEqual(a, b)
}
