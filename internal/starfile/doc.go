// Package starfile is a minimal read-only reader for STAR metadata
// files produced by upstream processing stages.
//
// The compiler only ever asks two questions of a STAR file: does a
// label exist, and what scalar value does it carry. Full table parsing
// belongs to the processing binaries themselves and is deliberately out
// of scope here.
package starfile
