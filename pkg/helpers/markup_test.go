package helpers_test

import (
	"testing"

	"github.com/goliatone/go-presenter/pkg/helpers"
)

func TestLinkTo(t *testing.T) {
	proxy := helpers.New()

	out, err := proxy.LinkTo("Cafe", "/cafe", map[string]string{"class": "btn"})
	if err != nil {
		t.Fatalf("link_to: %v", err)
	}
	want := `<a href="/cafe" class="btn">Cafe</a>`
	if out != want {
		t.Fatalf("link mismatch:\nwant %s\ngot  %s", want, out)
	}
}

func TestLinkTo_EscapesText(t *testing.T) {
	proxy := helpers.New()

	out, err := proxy.LinkTo("<b>bold</b>", "/x", nil)
	if err != nil {
		t.Fatalf("link_to: %v", err)
	}
	want := `<a href="/x">&lt;b&gt;bold&lt;/b&gt;</a>`
	if out != want {
		t.Fatalf("text should be escaped:\nwant %s\ngot  %s", want, out)
	}
}

func TestContentTag(t *testing.T) {
	proxy := helpers.New()

	out, err := proxy.ContentTag("span", "sale", map[string]string{
		"class":     "badge",
		"data-kind": "promo",
	})
	if err != nil {
		t.Fatalf("content_tag: %v", err)
	}
	// Attributes serialize in sorted key order.
	want := `<span class="badge" data-kind="promo">sale</span>`
	if out != want {
		t.Fatalf("tag mismatch:\nwant %s\ngot  %s", want, out)
	}
}

func TestContentTag_RejectsInvalidTagNames(t *testing.T) {
	proxy := helpers.New()

	for _, tag := range []string{"", "scr ipt", "a<b", "1div"} {
		if _, err := proxy.ContentTag(tag, "x", nil); err == nil {
			t.Fatalf("tag %q should be rejected", tag)
		}
	}
}

func TestContentTag_EscapesAttributeValues(t *testing.T) {
	proxy := helpers.New()

	out, err := proxy.ContentTag("div", "x", map[string]string{
		"title": `say "hi" & bye`,
	})
	if err != nil {
		t.Fatalf("content_tag: %v", err)
	}
	want := `<div title="say &#34;hi&#34; &amp; bye">x</div>`
	if out != want {
		t.Fatalf("attribute escaping mismatch:\nwant %s\ngot  %s", want, out)
	}
}

func TestMarkupHelpers_ThroughInvoke(t *testing.T) {
	proxy := helpers.New()

	out, err := proxy.Invoke("link_to", "Home", "/")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if out != `<a href="/">Home</a>` {
		t.Fatalf("invoke mismatch: %v", out)
	}

	if _, err := proxy.Invoke("content_tag", "div", "x", map[string]any{"k": "v"}); err == nil {
		t.Fatal("attribute maps must be map[string]string")
	}
}
