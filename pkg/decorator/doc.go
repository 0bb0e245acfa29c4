// Package decorator implements the presentation-decorator core: definitions
// describe a decorator type (its own methods, attribute overrides, and
// decorated associations), a Registry maps source types to definitions, and
// Decorate wraps a source value so unrecognised calls fall through to it.
//
// Chains of decorators nest when the definitions differ and collapse when the
// same definition would wrap one of its own instances. Equality is preserved
// across wrapping: a decorator compares equal to its source and to any other
// decorator over an equal source.
package decorator
