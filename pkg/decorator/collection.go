package decorator

import (
	"fmt"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
)

// CollectionDefinition describes a decorator type for ordered sequences. A
// registered collection definition can carry a default item definition
// (ProductsDecorator decorating every element with ProductDecorator); without
// one, the item definition is inferred per element.
type CollectionDefinition struct {
	name     string
	registry *Registry
	item     *Definition
}

// NewCollectionDefinition creates a collection definition. Accepted option:
// WithItem.
func NewCollectionDefinition(name string, opts ...Option) (*CollectionDefinition, error) {
	cfg, err := applyOptions("NewCollectionDefinition", opts, optionItem)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("decorator: collection definition name is required")
	}
	return &CollectionDefinition{name: trimmed, item: cfg.item}, nil
}

// MustNewCollectionDefinition panics on construction failure.
func MustNewCollectionDefinition(name string, opts ...Option) *CollectionDefinition {
	cd, err := NewCollectionDefinition(name, opts...)
	if err != nil {
		panic(err)
	}
	return cd
}

// Name reports the collection definition name.
func (cd *CollectionDefinition) Name() string {
	return cd.name
}

// ItemDefinition reports the default item definition, nil when items are
// inferred per element.
func (cd *CollectionDefinition) ItemDefinition() *Definition {
	return cd.item
}

// Decorate wraps an ordered sequence of sources (or decorators). Accepted
// options: WithContext and With/Inferred. Without an explicit item
// definition, each element resolves its own: the collection's default first,
// then the element's Decoratable hook, then registry inference.
func (cd *CollectionDefinition) Decorate(sources any, opts ...Option) (*Collection, error) {
	cfg, err := applyOptions("Decorate", opts, optionContext, optionWith)
	if err != nil {
		return nil, err
	}
	item := cd.item
	switch {
	case cfg.withInfer:
		item = nil
	case cfg.with != nil:
		item = cfg.with
	}
	return cd.newCollection(sources, item, cfg.context)
}

func (cd *CollectionDefinition) newCollection(sources any, item *Definition, ctx Context) (*Collection, error) {
	elements, err := normalizeSequence(cd.name, sources)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = Context{}
	}
	return &Collection{
		def:     cd,
		source:  elements,
		item:    item,
		context: ctx,
	}, nil
}

// Collection wraps an ordered sequence of sources as a matching sequence of
// item decorators. Length and order always match the source sequence, and the
// collection compares equal to it element-wise. The context is a single value
// forwarded to every item decorator when items are first realized.
type Collection struct {
	def     *CollectionDefinition
	source  []any
	item    *Definition
	context Context

	items    []*Decorator
	realized bool
	err      error
}

// Definition reports the collection definition this instance was built from.
func (c *Collection) Definition() *CollectionDefinition {
	return c.def
}

// Source returns the raw source sequence.
func (c *Collection) Source() any {
	return c.source
}

// Context returns the collection's context.
func (c *Collection) Context() Context {
	return c.context
}

// SetContext replaces the context. Items already realized keep the context
// they were constructed with.
func (c *Collection) SetContext(ctx Context) {
	if ctx == nil {
		ctx = Context{}
	}
	c.context = ctx
}

// Len reports the sequence length.
func (c *Collection) Len() int {
	return len(c.source)
}

// Items returns the decorated sequence, realizing item decorators on first
// access.
func (c *Collection) Items() ([]*Decorator, error) {
	if !c.realized {
		c.realized = true
		c.items, c.err = c.decorateAll()
	}
	return c.items, c.err
}

// At returns the decorated item at index i.
func (c *Collection) At(i int) (*Decorator, error) {
	items, err := c.Items()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("decorator: %s: index %d out of range [0, %d)", c.def.name, i, len(items))
	}
	return items[i], nil
}

// Equal compares the decorated sequence element-wise against another sequence
// or collection; a decorated item equals its corresponding raw source.
func (c *Collection) Equal(other any) bool {
	var elements []any
	switch v := other.(type) {
	case *Collection:
		elements = v.source
	default:
		normalized, err := normalizeSequence(c.def.name, other)
		if err != nil {
			return false
		}
		elements = normalized
	}
	if len(elements) != len(c.source) {
		return false
	}
	items, err := c.Items()
	if err != nil {
		return false
	}
	for i, item := range items {
		if !Equal(item, elements[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON serializes the decorated items so per-item attribute overrides
// apply.
func (c *Collection) MarshalJSON() ([]byte, error) {
	items, err := c.Items()
	if err != nil {
		return nil, err
	}
	return json.Marshal(items)
}

func (c *Collection) String() string {
	return fmt.Sprintf("%s(%d items)", c.def.name, len(c.source))
}

func (c *Collection) decorateAll() ([]*Decorator, error) {
	items := make([]*Decorator, len(c.source))
	for i, element := range c.source {
		item, err := c.decorateItem(element)
		if err != nil {
			return nil, fmt.Errorf("decorator: %s: item %d: %w", c.def.name, i, err)
		}
		items[i] = item
	}
	return items, nil
}

func (c *Collection) decorateItem(element any) (*Decorator, error) {
	if c.item != nil {
		return c.item.Decorate(element, WithContext(c.context))
	}
	if decoratable, ok := element.(Decoratable); ok {
		if def := decoratable.DecoratorDefinition(); def != nil {
			return def.Decorate(element, WithContext(c.context))
		}
	}
	if c.def.registry != nil {
		return c.def.registry.Decorate(element, WithContext(c.context))
	}
	return nil, &UninferrableDecoratorError{Type: typeName(element)}
}

func normalizeSequence(name string, sources any) ([]any, error) {
	switch v := sources.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]any, len(v))
		copy(out, v)
		return out, nil
	case *Collection:
		out := make([]any, len(v.source))
		copy(out, v.source)
		return out, nil
	}
	rv := reflect.ValueOf(sources)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("decorator: %s: sources must be a slice or array, got %T", name, sources)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
