package decorator

import "reflect"

// Option keys understood by decoration calls. Every call site validates the
// keys it receives against its own allowed set; anything else fails with a
// *ConfigurationError naming the key.
const (
	optionContext = "context"
	optionWith    = "with"
	optionScope   = "scope"
	optionSource  = "source"
	optionItem    = "item"
)

// Option is a keyed configuration value accepted by decoration calls and
// declarations. Options are constructed through the With* helpers below; a
// given Option is only valid at call sites that allow its key.
type Option struct {
	key   string
	apply func(*config)
}

type config struct {
	context    Context
	contextSet bool
	contextFn  ContextFunc

	with           *Definition
	withCollection *CollectionDefinition
	withInfer      bool

	scopeFn   func(any) any
	scopeName string

	source reflect.Type
	item   *Definition
}

// WithContext supplies an explicit context. Passing it always overwrites any
// existing context on the value being re-decorated; omitting it preserves one.
func WithContext(ctx Context) Option {
	return Option{key: optionContext, apply: func(cfg *config) {
		cfg.context = ctx
		cfg.contextSet = true
	}}
}

// WithContextFunc supplies a derivation function invoked with the owning
// decorator's context. Only meaningful on association declarations.
func WithContextFunc(fn ContextFunc) Option {
	return Option{key: optionContext, apply: func(cfg *config) {
		cfg.contextFn = fn
	}}
}

// With directs decoration to use the given definition for every item or for
// the association result.
func With(def *Definition) Option {
	return Option{key: optionWith, apply: func(cfg *config) {
		cfg.with = def
	}}
}

// WithCollection directs a sequence-shaped result to a specific collection
// definition instead of the convention-derived one.
func WithCollection(def *CollectionDefinition) Option {
	return Option{key: optionWith, apply: func(cfg *config) {
		cfg.withCollection = def
	}}
}

// Inferred requests per-item definition inference even at call sites that
// would otherwise default to the calling definition.
func Inferred() Option {
	return Option{key: optionWith, apply: func(cfg *config) {
		cfg.withInfer = true
	}}
}

// WithScope applies a filter/order function to an association's raw value
// before decoration.
func WithScope(scope func(any) any) Option {
	return Option{key: optionScope, apply: func(cfg *config) {
		cfg.scopeFn = scope
	}}
}

// WithScopeName names a member invoked on the association's raw value before
// decoration; the member must return a same-shaped result.
func WithScopeName(name string) Option {
	return Option{key: optionScope, apply: func(cfg *config) {
		cfg.scopeName = name
	}}
}

// WithSourceType declares the source type a definition decorates, overriding
// name-based inference. The sample's concrete type is recorded.
func WithSourceType(sample any) Option {
	return Option{key: optionSource, apply: func(cfg *config) {
		cfg.source = reflect.TypeOf(sample)
	}}
}

// WithItem sets the default item definition of a collection definition.
func WithItem(def *Definition) Option {
	return Option{key: optionItem, apply: func(cfg *config) {
		cfg.item = def
	}}
}

// applyOptions folds opts into a config, rejecting keys outside allowed. The
// last option wins when a key repeats.
func applyOptions(op string, opts []Option, allowed ...string) (*config, error) {
	cfg := &config{}
	var bad []string
	for _, opt := range opts {
		if opt.key == "" || opt.apply == nil {
			continue
		}
		if !keyAllowed(opt.key, allowed) {
			bad = append(bad, opt.key)
			continue
		}
		opt.apply(cfg)
	}
	if len(bad) > 0 {
		return nil, &ConfigurationError{Op: op, Keys: bad}
	}
	return cfg, nil
}

func keyAllowed(key string, allowed []string) bool {
	for _, candidate := range allowed {
		if key == candidate {
			return true
		}
	}
	return false
}
