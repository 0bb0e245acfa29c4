package helpers_test

import (
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-presenter/pkg/helpers"
)

func acmeSelection(variant string) *theme.Selection {
	return &theme.Selection{
		Theme:   "acme",
		Variant: variant,
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens: map[string]string{
				"brand":   "#123456",
				"spacing": "4px",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Tokens: map[string]string{
						"brand": "#654321",
					},
				},
			},
		},
	}
}

func TestProxy_InvokeBuiltins(t *testing.T) {
	translator := helpers.NewTranslator()
	if err := translator.AddCatalog("en", []byte("greeting: hello")); err != nil {
		t.Fatalf("add catalog: %v", err)
	}
	proxy := helpers.New(
		helpers.WithTranslator(translator),
		helpers.WithLocale("en"),
		helpers.WithTheme(acmeSelection("")),
	)

	for _, name := range []string{"translate", "sanitize", "link_to", "content_tag", "theme_token", "css_vars"} {
		if !proxy.Has(name) {
			t.Fatalf("built-in %s should be registered", name)
		}
	}

	translated, err := proxy.Invoke("translate", "greeting")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if translated != "hello" {
		t.Fatalf("translate mismatch: %v", translated)
	}

	token, err := proxy.Invoke("theme_token", "brand")
	if err != nil {
		t.Fatalf("theme_token: %v", err)
	}
	if token != "#123456" {
		t.Fatalf("theme_token mismatch: %v", token)
	}

	if _, err := proxy.Invoke("translate"); err == nil {
		t.Fatal("missing arguments should fail")
	}
	if _, err := proxy.Invoke("translate", 42); err == nil {
		t.Fatal("non-string arguments should fail")
	}
	if _, err := proxy.Invoke("nope"); err == nil {
		t.Fatal("unknown helpers should fail")
	}
}

func TestProxy_CustomHelperWinsOverBuiltin(t *testing.T) {
	proxy := helpers.New(helpers.WithHelper("translate", func(args ...any) (any, error) {
		return "custom", nil
	}))

	out, err := proxy.Invoke("translate", "anything")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if out != "custom" {
		t.Fatalf("custom helper should shadow the built-in, got %v", out)
	}
}

func TestProxy_RegisterRejectsDuplicates(t *testing.T) {
	proxy := helpers.New()

	if err := proxy.Register("shout", func(args ...any) (any, error) {
		s, _ := args[0].(string)
		return strings.ToUpper(s), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := proxy.Invoke("shout", "hi")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if out != "HI" {
		t.Fatalf("registered helper mismatch: %v", out)
	}

	if err := proxy.Register("shout", func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatal("duplicate registration should fail")
	}
	if err := proxy.Register("sanitize", func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatal("built-in names are taken")
	}
}

func TestProxy_Sanitize(t *testing.T) {
	proxy := helpers.New()

	out := proxy.Sanitize(`<p onclick="steal()">fine<script>alert(1)</script></p>`)
	if strings.Contains(out, "script") || strings.Contains(out, "onclick") {
		t.Fatalf("disallowed markup should be stripped, got %q", out)
	}
	if !strings.Contains(out, "fine") {
		t.Fatalf("allowed content should survive, got %q", out)
	}
}

func TestProxy_TranslateFallsBackToKey(t *testing.T) {
	proxy := helpers.New()
	if got := proxy.Translate("missing.key"); got != "missing.key" {
		t.Fatalf("without a translator the key should come back, got %q", got)
	}

	translator := helpers.NewTranslator(helpers.WithMissingHandler(func(locale, key string) string {
		return "?" + key + "?"
	}))
	proxy = helpers.New(helpers.WithTranslator(translator), helpers.WithLocale("en"))
	if got := proxy.Translate("missing.key"); got != "?missing.key?" {
		t.Fatalf("missing handler should produce the fallback, got %q", got)
	}
}

func TestProxy_ThemeTokenVariantOverride(t *testing.T) {
	base := helpers.New(helpers.WithTheme(acmeSelection("")))
	dark := helpers.New(helpers.WithTheme(acmeSelection("dark")))

	if got := base.ThemeToken("brand"); got != "#123456" {
		t.Fatalf("base token mismatch: %q", got)
	}
	if got := dark.ThemeToken("brand"); got != "#654321" {
		t.Fatalf("variant token should override: %q", got)
	}
	if got := dark.ThemeToken("spacing"); got != "4px" {
		t.Fatalf("tokens absent from the variant fall back to base: %q", got)
	}
	if got := helpers.New().ThemeToken("brand"); got != "" {
		t.Fatalf("no theme yields empty tokens: %q", got)
	}
}

func TestProxy_CSSVars(t *testing.T) {
	proxy := helpers.New(helpers.WithTheme(acmeSelection("dark")))

	want := map[string]string{
		"--brand":   "#654321",
		"--spacing": "4px",
	}
	if diff := cmp.Diff(want, proxy.CSSVars()); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}

	if vars := helpers.New().CSSVars(); vars != nil {
		t.Fatalf("no theme yields no vars, got %v", vars)
	}
}
