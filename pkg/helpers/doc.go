// Package helpers provides the view-helper proxy decorators expose to
// presentation code: localization backed by YAML catalogs, sanitized markup
// generation, and theme token resolution. A Proxy is constructed once per
// decorator instance and forwards named helper calls.
package helpers
