// Package faults defines the error kinds shared by the integrity checker
// packages. Callers wrap them with context and test for them with errors.Is.
package faults
