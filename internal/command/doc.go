// Package command models external program invocations as ordered token
// sequences.
//
// A Spec is a single argv; a Chain is one or more Specs where each later
// step runs only if the previous one succeeded. Builders assemble Specs
// token by token so the emitted command is byte-for-byte reproducible,
// and rendering to shell syntax happens only at the execution boundary.
package command
