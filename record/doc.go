// Package record persists integrity records: flat mappings from file path to
// hex digest, stored as a pretty-printed JSON object in a sidecar file. Read
// is strict and reports every failure; Load is lenient and falls back to an
// empty record so that a missing or damaged record never aborts a command.
package record
