package testsupport

import (
	"strings"

	"github.com/goliatone/go-presenter/pkg/decorator"
)

// Author is a singular association target.
type Author struct {
	Name string
}

// Review is a collection association target.
type Review struct {
	Body      string
	Rating    int
	Published bool
}

// Product is the primary fixture model. Its pointer methods exercise
// delegation through the pointer method set.
type Product struct {
	Name    string
	Price   float64
	Author  *Author
	Reviews []Review
}

// DisplayName is a presentation-free model method used to verify delegation.
func (p *Product) DisplayName() string {
	return strings.ToUpper(p.Name)
}

// PriceWithTax verifies argument forwarding through delegation.
func (p *Product) PriceWithTax(rate float64) float64 {
	return p.Price * (1 + rate)
}

// Writer is a second model so per-item inference has two distinct types to
// resolve.
type Writer struct {
	Name string
}

// Signature verifies delegation against a second source type.
func (w *Writer) Signature() string {
	return "by " + w.Name
}

// Fixture bundles a registry pre-populated with conventional definitions so
// contract tests across packages share one wiring.
type Fixture struct {
	Registry    *decorator.Registry
	ProductDef  *decorator.Definition
	AuthorDef   *decorator.Definition
	ReviewDef   *decorator.Definition
	WriterDef   *decorator.Definition
	ProductsDef *decorator.CollectionDefinition
}

// NewFixture builds the shared registry: ProductDecorator, AuthorDecorator,
// ReviewDecorator, WriterDecorator, and the ProductsDecorator collection.
func NewFixture(opts ...decorator.RegistryOption) *Fixture {
	registry := decorator.NewRegistry(opts...)

	productDef := decorator.MustNewDefinition("ProductDecorator", decorator.WithSourceType(&Product{}))
	authorDef := decorator.MustNewDefinition("AuthorDecorator", decorator.WithSourceType(&Author{}))
	reviewDef := decorator.MustNewDefinition("ReviewDecorator", decorator.WithSourceType(Review{}))
	writerDef := decorator.MustNewDefinition("WriterDecorator", decorator.WithSourceType(&Writer{}))
	productsDef := decorator.MustNewCollectionDefinition("ProductsDecorator", decorator.WithItem(productDef))

	registry.MustRegister(productDef)
	registry.MustRegister(authorDef)
	registry.MustRegister(reviewDef)
	registry.MustRegister(writerDef)
	registry.MustRegisterCollection(productsDef)

	return &Fixture{
		Registry:    registry,
		ProductDef:  productDef,
		AuthorDef:   authorDef,
		ReviewDef:   reviewDef,
		WriterDef:   writerDef,
		ProductsDef: productsDef,
	}
}
