package helpers

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

const (
	linkSnippet       = `<a href="{{ href }}"{{ attrs|safe }}>{{ text }}</a>`
	contentTagSnippet = `<{{ tag|safe }}{{ attrs|safe }}>{{ content }}</{{ tag|safe }}>`
)

var tagNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// LinkTo renders an anchor tag with escaped text, href, and attributes.
func (p *Proxy) LinkTo(text, href string, attrs map[string]string) (string, error) {
	return p.markup.render("link_to", linkSnippet, pongo2.Context{
		"text":  text,
		"href":  href,
		"attrs": renderAttrs(attrs),
	})
}

// ContentTag renders an arbitrary element with escaped content and
// attributes. The tag name must be a plain element name.
func (p *Proxy) ContentTag(tag, content string, attrs map[string]string) (string, error) {
	if !tagNamePattern.MatchString(tag) {
		return "", fmt.Errorf("helpers: content_tag: invalid tag name %q", tag)
	}
	return p.markup.render("content_tag", contentTagSnippet, pongo2.Context{
		"tag":     tag,
		"content": content,
		"attrs":   renderAttrs(attrs),
	})
}

// markupEngine renders small template snippets, caching compiled templates by
// helper name.
type markupEngine struct {
	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
}

func newMarkupEngine() *markupEngine {
	return &markupEngine{
		set:   pongo2.NewSet("presenter-helpers", pongo2.MustNewLocalFileSystemLoader("")),
		cache: make(map[string]*pongo2.Template),
	}
}

func (e *markupEngine) render(name, snippet string, ctx pongo2.Context) (string, error) {
	tmpl, err := e.template(name, snippet)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("helpers: %s: execute snippet: %w", name, err)
	}
	return out, nil
}

func (e *markupEngine) template(name, snippet string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromString(snippet)
	if err != nil {
		return nil, fmt.Errorf("helpers: %s: parse snippet: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}

// renderAttrs serializes attributes in stable key order, escaping both keys
// and values.
func renderAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(" ")
		b.WriteString(html.EscapeString(key))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[key]))
		b.WriteString(`"`)
	}
	return b.String()
}
