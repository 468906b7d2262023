package faults

import "errors"

var (
	// ErrNotFound reports a missing path or a path that is not a
	// readable regular file.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPath reports a path that is neither a file nor a
	// directory.
	ErrInvalidPath = errors.New("invalid path")

	// ErrIOFailure reports a read or write error.
	ErrIOFailure = errors.New("i/o failure")

	// ErrMalformedRecord reports a record file that cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)
