// Package compiler turns loosely-typed job submissions into fully
// deterministic command lines for the external processing programs.
//
// Each supported pipeline stage has a builder that validates the
// submitted parameters and then emits a command chain. Validation
// failures are returned as data so the portal can show them to the
// user; only programming errors surface as Go errors. Builders never
// execute anything: the output is an ordered token list a scheduler
// can hand to the cluster as-is.
package compiler
