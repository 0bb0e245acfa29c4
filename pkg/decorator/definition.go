package decorator

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// definitionSuffix is stripped from a definition name when deriving the
// source type it decorates by convention.
const definitionSuffix = "Decorator"

// Method is a member defined on a decorator type. It receives the decorator
// instance, so implementations can reach the source, the context, and the
// helper proxy.
type Method func(d *Decorator, args ...any) (any, error)

// Attribute computes a serialization override. During MarshalJSON the value
// replaces the source's own value under the same key.
type Attribute func(d *Decorator) any

type associationConfig struct {
	with           *Definition
	withCollection *CollectionDefinition
	scopeFn        func(any) any
	scopeName      string
	context        Context
	contextSet     bool
	contextFn      ContextFunc
}

// Definition describes a decorator type: the closed set of members it
// defines, its serialization overrides, and the associations it intercepts.
// Definitions are built at startup and registered with a Registry; the
// Decorate factory is the canonical way to obtain instances.
type Definition struct {
	name         string
	registry     *Registry
	sourceType   reflect.Type
	methods      map[string]Method
	attributes   map[string]Attribute
	associations map[string]*associationConfig
}

// NewDefinition creates a decorator definition. The conventional name shape
// is the decorated type's name plus the Decorator suffix (ProductDecorator);
// WithSourceType overrides name-based source inference.
func NewDefinition(name string, opts ...Option) (*Definition, error) {
	cfg, err := applyOptions("NewDefinition", opts, optionSource)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("decorator: definition name is required")
	}
	return &Definition{
		name:         trimmed,
		sourceType:   cfg.source,
		methods:      make(map[string]Method),
		attributes:   make(map[string]Attribute),
		associations: make(map[string]*associationConfig),
	}, nil
}

// MustNewDefinition panics on construction failure. Useful for init-time
// wiring.
func MustNewDefinition(name string, opts ...Option) *Definition {
	def, err := NewDefinition(name, opts...)
	if err != nil {
		panic(err)
	}
	return def
}

// Name reports the definition name.
func (d *Definition) Name() string {
	return d.name
}

// DefineMethod adds a named member. Names with a lower-case initial are
// private: reachable only through RespondsTo with the include-private flag,
// never through Invoke.
func (d *Definition) DefineMethod(name string, fn Method) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("decorator: %s: method name is required", d.name)
	}
	if fn == nil {
		return fmt.Errorf("decorator: %s: method %s requires a function", d.name, name)
	}
	d.methods[name] = fn
	return nil
}

// DefineAttribute registers a serialization override under the given key.
func (d *Definition) DefineAttribute(name string, fn Attribute) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("decorator: %s: attribute name is required", d.name)
	}
	if fn == nil {
		return fmt.Errorf("decorator: %s: attribute %s requires a function", d.name, name)
	}
	d.attributes[name] = fn
	return nil
}

// DecorateAssociation declares that the named accessor should be intercepted
// and backed by a lazily realized, per-instance Association. Accepted
// options: With/WithCollection, WithScope/WithScopeName, and
// WithContext/WithContextFunc.
func (d *Definition) DecorateAssociation(name string, opts ...Option) error {
	cfg, err := applyOptions("DecorateAssociation", opts, optionWith, optionScope, optionContext)
	if err != nil {
		return err
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("decorator: %s: association name is required", d.name)
	}
	d.associations[trimmed] = &associationConfig{
		with:           cfg.with,
		withCollection: cfg.withCollection,
		scopeFn:        cfg.scopeFn,
		scopeName:      cfg.scopeName,
		context:        cfg.context,
		contextSet:     cfg.contextSet,
		contextFn:      cfg.contextFn,
	}
	return nil
}

// DecorateAssociations declares several associations with default options.
func (d *Definition) DecorateAssociations(names ...string) error {
	for _, name := range names {
		if err := d.DecorateAssociation(name); err != nil {
			return err
		}
	}
	return nil
}

// Decorate wraps source in a new decorator instance. Re-decorating an
// instance of this same definition collapses to re-wrapping its source; the
// explicit context wins when supplied, otherwise the existing context is
// preserved. Wrapping a different definition's instance nests, emitting a
// non-fatal warning when this definition already appears deeper in the chain.
// Accepted option: WithContext.
func (d *Definition) Decorate(source any, opts ...Option) (*Decorator, error) {
	cfg, err := applyOptions("Decorate", opts, optionContext)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("decorator: %s: source is required", d.name)
	}

	ctx := cfg.context
	if inner, ok := source.(*Decorator); ok {
		if inner.def == d {
			if !cfg.contextSet {
				ctx = inner.context
			}
			source = inner.source
		} else if inner.DecoratedWith(d) {
			d.warnRedecoration(callerLocation(2))
		}
	}
	if ctx == nil {
		ctx = Context{}
	}

	return &Decorator{def: d, source: source, context: ctx}, nil
}

// DecorateCollection wraps an ordered sequence, resolving the collection
// definition by convention (ProductDecorator -> ProductsDecorator) and
// falling back to a generic collection whose items default to this
// definition. An explicit WithCollection keeps that definition's own item
// default. Accepted options: WithContext and With/WithCollection/Inferred.
func (d *Definition) DecorateCollection(sources any, opts ...Option) (*Collection, error) {
	cfg, err := applyOptions("DecorateCollection", opts, optionContext, optionWith)
	if err != nil {
		return nil, err
	}

	var item *Definition
	switch {
	case cfg.withInfer:
		item = nil
	case cfg.with != nil:
		item = cfg.with
	case cfg.withCollection != nil:
		item = cfg.withCollection.item
	default:
		item = d
	}

	cd := cfg.withCollection
	if cd == nil {
		cd = d.collectionDefinition()
	}
	return cd.newCollection(sources, item, cfg.context)
}

// SourceType resolves the source type this definition decorates. An explicit
// WithSourceType declaration always wins; otherwise the Decorator suffix is
// stripped from the name and the remainder is resolved against the registry's
// source index.
func (d *Definition) SourceType() (reflect.Type, error) {
	if d.sourceType != nil {
		return d.sourceType, nil
	}
	if d.name == "" || d.name == definitionSuffix || !strings.HasSuffix(d.name, definitionSuffix) {
		return nil, &UninferrableSourceError{Definition: d.name}
	}
	base := strings.TrimSuffix(d.name, definitionSuffix)
	if d.registry != nil {
		if t, ok := d.registry.sourceTypeNamed(base); ok {
			return t, nil
		}
	}
	return nil, &UninferrableSourceError{Definition: d.name}
}

func (d *Definition) collectionDefinition() *CollectionDefinition {
	if d.registry != nil {
		if cd := d.registry.collectionByConvention(d); cd != nil {
			return cd
		}
	}
	return &CollectionDefinition{
		name:     d.name + "Collection",
		registry: d.registry,
		item:     d,
	}
}

func (d *Definition) logger() logrus.FieldLogger {
	if d.registry != nil && d.registry.logger != nil {
		return d.registry.logger
	}
	return logrus.StandardLogger()
}

func (d *Definition) warnRedecoration(caller string) {
	d.logger().WithFields(logrus.Fields{
		"definition": d.name,
		"caller":     caller,
	}).Warn("decorator: source chain already contains this definition")
}

func callerLocation(skip int) string {
	if _, file, line, ok := runtime.Caller(skip); ok {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return "unknown"
}

func exportedName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
