// Package config loads, normalizes, and validates cryoprocess
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such
// as CRYOPROCESS_PROJECTS_DIR. The Config type centralizes every knob
// the compiler and CLI need: project locations, the MPI launcher used
// for parallel binaries, and the external tool executables.
//
// Always obtain settings through this package so downstream code
// receives sanitized paths, canonical log formats, and clear validation
// errors.
package config
