package helpers

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
)

// Helper is a named view helper invocable through the proxy.
type Helper func(args ...any) (any, error)

// Option customises proxy construction.
type Option func(*Proxy)

// WithTranslator wires the translator backing the translate helper.
func WithTranslator(t *Translator) Option {
	return func(p *Proxy) {
		p.translator = t
	}
}

// WithLocale sets the locale used by the translate helper.
func WithLocale(locale string) Option {
	return func(p *Proxy) {
		p.locale = strings.TrimSpace(locale)
	}
}

// WithPolicy overrides the sanitization policy. The default is bluemonday's
// UGC policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(p *Proxy) {
		if policy != nil {
			p.policy = policy
		}
	}
}

// WithTheme supplies a resolved theme selection for token helpers.
func WithTheme(selection *theme.Selection) Option {
	return func(p *Proxy) {
		p.theme = selection
	}
}

// WithHelper registers a custom named helper. Custom helpers win over
// built-ins with the same name.
func WithHelper(name string, fn Helper) Option {
	return func(p *Proxy) {
		if strings.TrimSpace(name) == "" || fn == nil {
			return
		}
		p.helpers[strings.TrimSpace(name)] = fn
	}
}

// Proxy exposes template-helper-style calls to decorators. It only forwards
// named calls; rendering pipelines and routing stay outside this library.
type Proxy struct {
	helpers    map[string]Helper
	translator *Translator
	locale     string
	policy     *bluemonday.Policy
	theme      *theme.Selection
	markup     *markupEngine
}

// New constructs a proxy with the built-in helpers (translate, sanitize,
// link_to, content_tag, theme_token, css_vars) registered.
func New(opts ...Option) *Proxy {
	p := &Proxy{
		helpers: make(map[string]Helper),
		policy:  bluemonday.UGCPolicy(),
		markup:  newMarkupEngine(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	p.registerBuiltins()
	return p
}

// Register adds a named helper after construction. Registering over an
// existing name returns an error.
func (p *Proxy) Register(name string, fn Helper) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("helpers: helper name is required")
	}
	if fn == nil {
		return fmt.Errorf("helpers: helper %q requires a function", trimmed)
	}
	if _, exists := p.helpers[trimmed]; exists {
		return fmt.Errorf("helpers: helper %q already registered", trimmed)
	}
	p.helpers[trimmed] = fn
	return nil
}

// Invoke forwards a named helper call.
func (p *Proxy) Invoke(name string, args ...any) (any, error) {
	fn, ok := p.helpers[name]
	if !ok {
		return nil, fmt.Errorf("helpers: helper %q not registered", name)
	}
	return fn(args...)
}

// Has reports whether a helper is registered.
func (p *Proxy) Has(name string) bool {
	_, ok := p.helpers[name]
	return ok
}

// Locale reports the proxy's locale.
func (p *Proxy) Locale() string {
	return p.locale
}

// Translate resolves key through the configured translator and locale,
// falling back to the key itself when no translation exists.
func (p *Proxy) Translate(key string) string {
	if p.translator == nil {
		return key
	}
	out, err := p.translator.Translate(p.locale, key)
	if err != nil {
		return p.translator.Missing(p.locale, key)
	}
	return out
}

// Sanitize strips disallowed markup from user-supplied HTML.
func (p *Proxy) Sanitize(html string) string {
	return p.policy.Sanitize(html)
}

func (p *Proxy) registerBuiltins() {
	builtins := map[string]Helper{
		"translate": func(args ...any) (any, error) {
			key, err := stringArg("translate", args, 0)
			if err != nil {
				return nil, err
			}
			return p.Translate(key), nil
		},
		"sanitize": func(args ...any) (any, error) {
			html, err := stringArg("sanitize", args, 0)
			if err != nil {
				return nil, err
			}
			return p.Sanitize(html), nil
		},
		"link_to": func(args ...any) (any, error) {
			text, err := stringArg("link_to", args, 0)
			if err != nil {
				return nil, err
			}
			href, err := stringArg("link_to", args, 1)
			if err != nil {
				return nil, err
			}
			attrs, err := attrArg("link_to", args, 2)
			if err != nil {
				return nil, err
			}
			return p.LinkTo(text, href, attrs)
		},
		"content_tag": func(args ...any) (any, error) {
			tag, err := stringArg("content_tag", args, 0)
			if err != nil {
				return nil, err
			}
			content, err := stringArg("content_tag", args, 1)
			if err != nil {
				return nil, err
			}
			attrs, err := attrArg("content_tag", args, 2)
			if err != nil {
				return nil, err
			}
			return p.ContentTag(tag, content, attrs)
		},
		"theme_token": func(args ...any) (any, error) {
			name, err := stringArg("theme_token", args, 0)
			if err != nil {
				return nil, err
			}
			return p.ThemeToken(name), nil
		},
		"css_vars": func(...any) (any, error) {
			return p.CSSVars(), nil
		},
	}
	for name, fn := range builtins {
		if _, exists := p.helpers[name]; !exists {
			p.helpers[name] = fn
		}
	}
}

func stringArg(helper string, args []any, index int) (string, error) {
	if index >= len(args) {
		return "", fmt.Errorf("helpers: %s: missing argument %d", helper, index)
	}
	s, ok := args[index].(string)
	if !ok {
		return "", fmt.Errorf("helpers: %s: argument %d must be a string, got %T", helper, index, args[index])
	}
	return s, nil
}

func attrArg(helper string, args []any, index int) (map[string]string, error) {
	if index >= len(args) {
		return nil, nil
	}
	attrs, ok := args[index].(map[string]string)
	if !ok {
		return nil, fmt.Errorf("helpers: %s: argument %d must be a map[string]string, got %T", helper, index, args[index])
	}
	return attrs, nil
}
