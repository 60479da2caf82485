// Package script loads and runs YAML edit scripts.
//
// A script is an ordered list of edit commands with optional expected
// outcomes. Scripts drive batch edits from the command line and double as
// executable regression cases: a step can assert that it applies cleanly
// or that the engine rejects it with a specific code.
package script
