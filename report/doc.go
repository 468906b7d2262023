// Package report renders checker reports as console text. Every line is a
// fasttemplate with single-brace placeholders, so the per-file status line
// can be reshaped from the config file without touching the checker.
package report
