// Package core provides a small, stable facade over repoaudit's internal
// pipeline for external integrations. It deliberately re-exports a narrow
// API surface so other tools can depend on a stable import path without
// reaching into internal packages.
//
// Example:
//
//	cfg := core.Config{Root: ".", LocalOnly: true, Limits: core.DefaultLimits()}
//	result, err := core.Scan(context.Background(), cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, result.Report)
package core
