package helpers_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-presenter/pkg/helpers"
)

func TestLoadCatalogs(t *testing.T) {
	fsys := fstest.MapFS{
		"en.yaml": {Data: []byte(`
product:
  price: "Price"
  stock:
    low: "Almost gone"
greeting: "Hello"
count: 3
`)},
		"es.yml": {Data: []byte(`
greeting: "Hola"
`)},
		"notes.txt": {Data: []byte("ignored")},
	}

	translator, err := helpers.LoadCatalogs(fsys, helpers.WithFallbackLocale("en"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}

	if diff := cmp.Diff([]string{"en", "es"}, translator.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}

	// Nested maps flatten to dotted keys.
	got, err := translator.Translate("en", "product.stock.low")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Almost gone" {
		t.Fatalf("nested key mismatch: %q", got)
	}

	// Non-string scalars stringify.
	got, err = translator.Translate("en", "count")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "3" {
		t.Fatalf("scalar coercion mismatch: %q", got)
	}
}

func TestTranslator_FallbackLocale(t *testing.T) {
	translator := helpers.NewTranslator(helpers.WithFallbackLocale("en"))
	if err := translator.AddCatalog("en", []byte(`greeting: "Hello"`)); err != nil {
		t.Fatalf("add catalog: %v", err)
	}
	if err := translator.AddCatalog("es", []byte(`farewell: "Adios"`)); err != nil {
		t.Fatalf("add catalog: %v", err)
	}

	got, err := translator.Translate("es", "greeting")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Hello" {
		t.Fatalf("fallback locale should resolve, got %q", got)
	}

	got, err = translator.Translate("es", "farewell")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Adios" {
		t.Fatalf("requested locale should win, got %q", got)
	}
}

func TestTranslator_MissingKey(t *testing.T) {
	translator := helpers.NewTranslator()

	_, err := translator.Translate("en", "nope")
	if !errors.Is(err, helpers.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
	if _, err := translator.Translate("en", ""); !errors.Is(err, helpers.ErrMissingTranslation) {
		t.Fatal("empty keys are missing")
	}

	if got := translator.Missing("en", "nope"); got != "nope" {
		t.Fatalf("default missing handler returns the key, got %q", got)
	}
}

func TestTranslator_AddCatalogMerges(t *testing.T) {
	translator := helpers.NewTranslator()
	if err := translator.AddCatalog("en", []byte(`a: "1"`)); err != nil {
		t.Fatalf("add catalog: %v", err)
	}
	if err := translator.AddCatalog("en", []byte(`b: "2"`)); err != nil {
		t.Fatalf("add catalog: %v", err)
	}

	for key, want := range map[string]string{"a": "1", "b": "2"} {
		got, err := translator.Translate("en", key)
		if err != nil {
			t.Fatalf("translate %s: %v", key, err)
		}
		if got != want {
			t.Fatalf("merge mismatch for %s: %q", key, got)
		}
	}

	if err := translator.AddCatalog("", []byte(`a: "1"`)); err == nil {
		t.Fatal("empty locales should fail")
	}
	if err := translator.AddCatalog("en", []byte("a: [unclosed")); err == nil {
		t.Fatal("malformed YAML should fail")
	}
}
