package decorator

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-presenter/internal/inflect"
	"github.com/goliatone/go-presenter/pkg/helpers"
)

// Decoratable is the optional capability a source type can implement to name
// its own definition, taking precedence over registry lookup.
type Decoratable interface {
	DecoratorDefinition() *Definition
}

// RegistryOption customises registry construction.
type RegistryOption func(*Registry)

// WithLogger routes diagnostic warnings (duplicate decoration) through the
// supplied logger instead of the logrus standard logger.
func WithLogger(logger logrus.FieldLogger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithHelperFactory installs the factory used to build each decorator's
// helper proxy on first access. The decorator's context is passed so the
// proxy can pick up locale or role parameters.
func WithHelperFactory(factory func(ctx Context) *helpers.Proxy) RegistryOption {
	return func(r *Registry) {
		r.helperFactory = factory
	}
}

// Registry maps definition names and source types to definitions. It is the
// explicit replacement for runtime name mangling: naming-convention inference
// is one registration strategy, populated at startup, not the only one.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
	collections map[string]*CollectionDefinition
	bySource    map[reflect.Type]*Definition

	logger        logrus.FieldLogger
	helperFactory func(ctx Context) *helpers.Proxy
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		definitions: make(map[string]*Definition),
		collections: make(map[string]*CollectionDefinition),
		bySource:    make(map[reflect.Type]*Definition),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Register adds a definition by name. Duplicate names return an error. When
// the definition declares a source type, it is indexed for inference; a
// source type can only be claimed by one definition.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return fmt.Errorf("decorator: definition is required")
	}
	if def.name == "" {
		return fmt.Errorf("decorator: definition name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.name]; exists {
		return fmt.Errorf("decorator: definition %q already registered", def.name)
	}
	if def.sourceType != nil {
		if claimed, exists := r.bySource[def.sourceType]; exists {
			return fmt.Errorf("decorator: source type %s already registered to %q", def.sourceType, claimed.name)
		}
		r.bySource[def.sourceType] = def
	}

	def.registry = r
	r.definitions[def.name] = def
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(def *Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// RegisterCollection adds a collection definition by name so convention
// lookup (ProductDecorator -> ProductsDecorator) can find it.
func (r *Registry) RegisterCollection(cd *CollectionDefinition) error {
	if cd == nil {
		return fmt.Errorf("decorator: collection definition is required")
	}
	if cd.name == "" {
		return fmt.Errorf("decorator: collection definition name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.collections[cd.name]; exists {
		return fmt.Errorf("decorator: collection definition %q already registered", cd.name)
	}
	cd.registry = r
	r.collections[cd.name] = cd
	return nil
}

// MustRegisterCollection panics on registration failure.
func (r *Registry) MustRegisterCollection(cd *CollectionDefinition) {
	if err := r.RegisterCollection(cd); err != nil {
		panic(err)
	}
}

// Definition retrieves a definition by name.
func (r *Registry) Definition(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[name]
	return def, ok
}

// CollectionDefinitionFor resolves the collection definition a singular
// definition maps to by the plural naming convention (ProductDecorator ->
// ProductsDecorator).
func (r *Registry) CollectionDefinitionFor(def *Definition) (*CollectionDefinition, bool) {
	if def == nil {
		return nil, false
	}
	cd := r.collectionByConvention(def)
	return cd, cd != nil
}

// CollectionDefinition retrieves a collection definition by name.
func (r *Registry) CollectionDefinition(name string) (*CollectionDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cd, ok := r.collections[name]
	return cd, ok
}

// DefinitionFor infers the definition for a source value: the Decoratable
// hook first, then the source-type index, then the naming convention
// (Product -> ProductDecorator). Decorated values resolve through their
// innermost source.
func (r *Registry) DefinitionFor(source any) (*Definition, error) {
	if dec, ok := source.(*Decorator); ok {
		return r.DefinitionFor(unwrapChain(dec))
	}
	if decoratable, ok := source.(Decoratable); ok {
		if def := decoratable.DecoratorDefinition(); def != nil {
			return def, nil
		}
	}
	if source == nil {
		return nil, &UninferrableDecoratorError{Type: "<nil>"}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	t := reflect.TypeOf(source)
	if def, ok := r.bySource[t]; ok {
		return def, nil
	}
	if base := baseTypeName(t); base != "" {
		if def, ok := r.definitions[base+definitionSuffix]; ok {
			return def, nil
		}
	}
	return nil, &UninferrableDecoratorError{Type: t.String()}
}

// Decorate infers the definition for source and decorates it.
func (r *Registry) Decorate(source any, opts ...Option) (*Decorator, error) {
	def, err := r.DefinitionFor(source)
	if err != nil {
		return nil, err
	}
	return def.Decorate(source, opts...)
}

// DecorateCollection wraps a sequence with the generic collection definition,
// inferring each item's definition. Accepted options: WithContext and
// With/Inferred.
func (r *Registry) DecorateCollection(sources any, opts ...Option) (*Collection, error) {
	generic := &CollectionDefinition{name: "Collection", registry: r}
	return generic.Decorate(sources, opts...)
}

// List returns the sorted definition names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sourceTypeNamed resolves a registered source type by its bare type name,
// backing Definition.SourceType's naming convention.
func (r *Registry) sourceTypeNamed(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for t := range r.bySource {
		if baseTypeName(t) == name {
			return t, true
		}
	}
	return nil, false
}

// collectionByConvention resolves the plural collection definition for a
// singular definition: ProductDecorator -> ProductsDecorator.
func (r *Registry) collectionByConvention(def *Definition) *CollectionDefinition {
	base, ok := trimDefinitionSuffix(def.name)
	if !ok {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cd, ok := r.collections[inflect.Pluralize(base)+definitionSuffix]
	if !ok {
		return nil
	}
	return cd
}

func trimDefinitionSuffix(name string) (string, bool) {
	if name == definitionSuffix || len(name) <= len(definitionSuffix) {
		return "", false
	}
	if name[len(name)-len(definitionSuffix):] != definitionSuffix {
		return "", false
	}
	return name[:len(name)-len(definitionSuffix)], true
}

func baseTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
