package presenter_test

import (
	"testing"

	presenter "github.com/goliatone/go-presenter"
)

type account struct {
	Email string
}

func TestFacadeRoundTrip(t *testing.T) {
	registry := presenter.NewRegistry()
	def := presenter.MustNewDefinition("AccountDecorator", presenter.WithSourceType(&account{}))
	registry.MustRegister(def)

	source := &account{Email: "sam@example.com"}
	decorated, err := registry.Decorate(source, presenter.WithContext(presenter.Context{"role": "admin"}))
	if err != nil {
		t.Fatalf("decorate: %v", err)
	}

	if !presenter.IsDecorated(decorated) {
		t.Fatal("decorated values should report as decorated")
	}
	if presenter.IsDecorated(source) {
		t.Fatal("plain values should not report as decorated")
	}
	if !presenter.Equal(decorated, source) {
		t.Fatal("a decorator should equal its source")
	}

	email, err := decorated.Invoke("Email")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if email != "sam@example.com" {
		t.Fatalf("delegation mismatch: %v", email)
	}
}
