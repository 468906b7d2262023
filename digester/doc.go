// Package digester computes content digests of files. Files are streamed in
// fixed-size chunks so arbitrarily large files hash in constant memory. SHA256
// is the default algorithm; BLAKE3 is available for callers that opt in, and
// both yield 64 lowercase hex characters.
package digester
