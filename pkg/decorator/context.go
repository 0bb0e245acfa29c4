package decorator

// Context carries caller-supplied presentation parameters (viewer role,
// locale, feature flags) through a decoration chain. The decorator owns its
// context map; the source is only borrowed.
type Context map[string]any

// ContextFunc derives an association context from the owning decorator's
// context.
type ContextFunc func(owner Context) Context

// Clone returns a shallow copy so callers can derive a context without
// mutating the original.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}
	out := make(Context, len(c))
	for key, value := range c {
		out[key] = value
	}
	return out
}

// Merge returns a new context with other's entries layered over c.
func (c Context) Merge(other Context) Context {
	out := c.Clone()
	if out == nil {
		out = make(Context, len(other))
	}
	for key, value := range other {
		out[key] = value
	}
	return out
}

// Value looks up a key, reporting whether it was present.
func (c Context) Value(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, ok := c[key]
	return value, ok
}

// String returns the value under key when it is a string, otherwise "".
func (c Context) String(key string) string {
	if value, ok := c.Value(key); ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}
