package helpers

// ThemeToken resolves a design token from the proxy's theme selection.
// Variant tokens override the manifest's base tokens.
func (p *Proxy) ThemeToken(name string) string {
	if p.theme == nil || p.theme.Manifest == nil {
		return ""
	}
	manifest := p.theme.Manifest
	if p.theme.Variant != "" {
		if variant, ok := manifest.Variants[p.theme.Variant]; ok {
			if token, ok := variant.Tokens[name]; ok && token != "" {
				return token
			}
		}
	}
	return manifest.Tokens[name]
}

// CSSVars derives a CSS custom-property map from the resolved tokens, with
// variant overrides applied.
func (p *Proxy) CSSVars() map[string]string {
	if p.theme == nil || p.theme.Manifest == nil {
		return nil
	}
	manifest := p.theme.Manifest
	out := make(map[string]string, len(manifest.Tokens))
	for name, token := range manifest.Tokens {
		out["--"+name] = token
	}
	if p.theme.Variant != "" {
		if variant, ok := manifest.Variants[p.theme.Variant]; ok {
			for name, token := range variant.Tokens {
				out["--"+name] = token
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
