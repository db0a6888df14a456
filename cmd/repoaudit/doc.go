// Package repoaudit provides the command-line interface for the repoaudit
// tool. It configures subcommands (scan, patterns, history), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/repoaudit/repoaudit/cmd/repoaudit"
//	func main() { repoaudit.Execute() }
package repoaudit
