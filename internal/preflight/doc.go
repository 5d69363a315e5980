// Package preflight provides readiness checks for the filesystem paths
// and external processing programs the compiler depends on.
//
// The CLI "cryoprocess preflight" command runs RunAll plus the system
// dependency scan before a project is put into service, so missing
// binaries surface as a report instead of a failed cluster job hours
// later.
package preflight
