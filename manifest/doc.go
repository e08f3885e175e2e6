// Package manifest declares fieldmap definitions in YAML.
// Transform and stringify functions are referenced by name and resolved from a Funcs registry.
package manifest
