// Package params reads job submission parameters out of the loosely
// typed form bag.
//
// Form keys are unstable across portal revisions, so every accessor
// takes a precedence-ordered alias list and returns the first defined
// match. Numeric accessors fall back to their default on malformed
// input instead of failing; a stray non-numeric field must never abort
// a submission. The bag itself is read-only.
package params
