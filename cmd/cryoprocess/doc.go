// Package main hosts the cryoprocess CLI entrypoint and command graph.
//
// The Cobra-based command tree compiles job parameter files into cluster
// command lines, validates submissions, inspects the compile history,
// and scaffolds configuration. It centralizes configuration resolution,
// project root selection, and structured logging setup so subcommands
// can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands
// or flags here.
package main
