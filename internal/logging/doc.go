// Package logging builds slog loggers for the compiler and CLI.
//
// Two formats are supported: a compact console line for interactive use
// and JSON for ingestion. Loggers carry a "component" attribute that
// the console handler promotes to a message prefix. Logging is
// informational only; no behavior depends on it.
package logging
