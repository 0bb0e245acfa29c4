package presenter

import (
	"github.com/goliatone/go-presenter/pkg/decorator"
	"github.com/goliatone/go-presenter/pkg/helpers"
)

// Context carries presentation parameters through a decoration chain; alias
// exported via the root package for convenience.
type Context = decorator.Context

// Decorator is a single wrapped source value.
type Decorator = decorator.Decorator

// Collection is a decorated ordered sequence.
type Collection = decorator.Collection

// Definition describes a decorator type.
type Definition = decorator.Definition

// CollectionDefinition describes a collection decorator type.
type CollectionDefinition = decorator.CollectionDefinition

// Registry maps definition names and source types to definitions.
type Registry = decorator.Registry

// Option is a keyed configuration value accepted by decoration calls.
type Option = decorator.Option

// Decoratable is the capability a source can implement to name its own
// definition.
type Decoratable = decorator.Decoratable

// Helpers is the view-helper proxy attached to each decorator instance.
type Helpers = helpers.Proxy

// NewRegistry exposes the registry constructor from the top-level module so
// callers can wire everything with a single import.
func NewRegistry(opts ...decorator.RegistryOption) *Registry {
	return decorator.NewRegistry(opts...)
}

// NewDefinition creates a decorator definition.
func NewDefinition(name string, opts ...Option) (*Definition, error) {
	return decorator.NewDefinition(name, opts...)
}

// MustNewDefinition panics on construction failure. Useful for init-time
// wiring.
func MustNewDefinition(name string, opts ...Option) *Definition {
	return decorator.MustNewDefinition(name, opts...)
}

// NewCollectionDefinition creates a collection decorator definition.
func NewCollectionDefinition(name string, opts ...Option) (*CollectionDefinition, error) {
	return decorator.NewCollectionDefinition(name, opts...)
}

// WithContext supplies an explicit decoration context.
func WithContext(ctx Context) Option {
	return decorator.WithContext(ctx)
}

// With directs decoration to a specific definition.
func With(def *Definition) Option {
	return decorator.With(def)
}

// Inferred requests per-item definition inference for collections.
func Inferred() Option {
	return decorator.Inferred()
}

// WithSourceType declares the source type a definition decorates.
func WithSourceType(sample any) Option {
	return decorator.WithSourceType(sample)
}

// Equal compares two values with decorator-aware semantics.
func Equal(a, b any) bool {
	return decorator.Equal(a, b)
}

// IsDecorated reports whether v is a decorated value.
func IsDecorated(v any) bool {
	return decorator.IsDecorated(v)
}
