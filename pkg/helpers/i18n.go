package helpers

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingTranslation is wrapped by Translate when a key has no entry in
// the requested locale or the fallback locale.
var ErrMissingTranslation = errors.New("helpers: missing translation")

// MissingHandler produces the value returned when a translation is missing.
type MissingHandler func(locale, key string) string

// TranslatorOption customises translator construction.
type TranslatorOption func(*Translator)

// WithFallbackLocale sets the locale consulted when the requested locale has
// no entry for a key.
func WithFallbackLocale(locale string) TranslatorOption {
	return func(t *Translator) {
		t.fallback = strings.TrimSpace(locale)
	}
}

// WithMissingHandler overrides the value produced for missing keys. The
// default returns the key itself.
func WithMissingHandler(fn MissingHandler) TranslatorOption {
	return func(t *Translator) {
		if fn != nil {
			t.onMissing = fn
		}
	}
}

// Translator resolves localization keys against per-locale catalogs. Nested
// YAML maps flatten to dotted keys (product: {price: ...} -> product.price).
type Translator struct {
	catalogs  map[string]map[string]string
	fallback  string
	onMissing MissingHandler
}

// NewTranslator creates an empty translator.
func NewTranslator(opts ...TranslatorOption) *Translator {
	t := &Translator{
		catalogs:  make(map[string]map[string]string),
		onMissing: func(_, key string) string { return key },
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t
}

// LoadCatalogs builds a translator from an fs.FS holding one YAML document
// per locale, named <locale>.yaml or <locale>.yml at the root.
func LoadCatalogs(fsys fs.FS, opts ...TranslatorOption) (*Translator, error) {
	if fsys == nil {
		return nil, errors.New("helpers: catalog filesystem is required")
	}
	t := NewTranslator(opts...)

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("helpers: read catalog dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		locale := strings.TrimSuffix(entry.Name(), ext)
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("helpers: read catalog %s: %w", entry.Name(), err)
		}
		if err := t.AddCatalog(locale, data); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddCatalog parses a YAML catalog for the given locale, merging over any
// existing entries.
func (t *Translator) AddCatalog(locale string, data []byte) error {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return errors.New("helpers: catalog locale is required")
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("helpers: parse catalog %s: %w", locale, err)
	}

	catalog := t.catalogs[locale]
	if catalog == nil {
		catalog = make(map[string]string)
		t.catalogs[locale] = catalog
	}
	flattenCatalog(raw, "", catalog)
	return nil
}

// Translate resolves key in locale, falling back to the fallback locale. A
// missing key returns an error wrapping ErrMissingTranslation.
func (t *Translator) Translate(locale, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrMissingTranslation)
	}
	if catalog, ok := t.catalogs[locale]; ok {
		if message, ok := catalog[key]; ok {
			return message, nil
		}
	}
	if t.fallback != "" && t.fallback != locale {
		if catalog, ok := t.catalogs[t.fallback]; ok {
			if message, ok := catalog[key]; ok {
				return message, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s (locale %s)", ErrMissingTranslation, key, locale)
}

// Missing produces the configured fallback value for a missing key.
func (t *Translator) Missing(locale, key string) string {
	return t.onMissing(locale, key)
}

// Locales reports the loaded locales, sorted.
func (t *Translator) Locales() []string {
	out := make([]string, 0, len(t.catalogs))
	for locale := range t.catalogs {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

func flattenCatalog(raw map[string]any, prefix string, dest map[string]string) {
	for key, value := range raw {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flattenCatalog(v, path, dest)
		case string:
			dest[path] = v
		case nil:
			// ignore empty entries
		default:
			dest[path] = fmt.Sprintf("%v", v)
		}
	}
}
