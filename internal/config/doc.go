// Package config loads, normalizes, and validates verid's TOML
// configuration. Defaults live in defaults.go; Load applies the file on top
// of Default and then runs normalization (path expansion, case folding) and
// validation so the rest of the system can trust every field.
package config
