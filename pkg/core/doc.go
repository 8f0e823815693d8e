// Package core provides a small, stable facade over droidaudit's internal
// analysis for external integrations. It re-exports a narrow API surface so
// other tools can depend on a stable import path without importing internal
// packages.
//
// Example:
//
//	r, err := core.Analyze(ctx, core.Options{Engine: core.Config{Root: "decompiled_app"}})
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, r)
package core
