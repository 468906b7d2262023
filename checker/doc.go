// Package checker implements the init, check and update operations of the
// integrity checker. Each operation is a one-shot read-transform-write over a
// single record file and returns a report describing every file it touched.
// Failures on individual files are recorded in the report and never abort
// the operation; failures that make the whole operation meaningless (an
// invalid path, an unwritable record) are returned as errors.
//
// Concurrent invocations against the same record file are not coordinated:
// the last writer wins.
package checker
