// Package droidaudit provides the command-line interface for droidaudit.
// It configures subcommands (analyze, baseline, detectors, etc.), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/droidaudit/droidaudit/cmd/droidaudit"
//	func main() { droidaudit.Execute() }
package droidaudit
