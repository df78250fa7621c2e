//go:build !debug

// Package check holds assertions for invariants the monitor relies on
// but cannot express in types. They are active only under the debug
// build tag.
package check

// Assert is a no-op in release builds.
func Assert(_ bool, _ string) {}

// Assertf is a no-op in release builds.
func Assertf(_ bool, _ string, _ ...any) {}
