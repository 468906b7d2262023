package digester

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/byte4ever/file_integrity/faults"
)

// ChunkSize is the read buffer size used while hashing.
const ChunkSize = 4096

// Algorithm names a 256-bit digest function.
type Algorithm string

const (
	// SHA256 is the default algorithm.
	SHA256 Algorithm = "sha256"

	// BLAKE3 is the 256-bit BLAKE3 hash.
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm maps a configuration value to an Algorithm.
// The empty string selects SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("unknown digest algorithm %q", name)
	}
}

func (al Algorithm) newHash() hash.Hash {
	if al == BLAKE3 {
		return blake3.New()
	}

	return sha256.New()
}

// CalculateDigest computes the SHA256 hex digest of the file at
// path.
func CalculateDigest(path string) (string, error) {
	return CalculateDigestWith(path, SHA256)
}

// CalculateDigestWith computes the hex digest of the file at path
// using alg. It fails with faults.ErrNotFound when path does not
// exist or is not a regular file.
func CalculateDigestWith(
	path string,
	alg Algorithm,
) (result string, retErr error) {
	const errCtx = "calculating digest"

	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf(
			"%s: %s: %w", errCtx, path, faults.ErrNotFound,
		)
	}

	if err != nil {
		return "", fmt.Errorf(
			"%s: %w: %w", errCtx, faults.ErrIOFailure, err,
		)
	}

	if !st.Mode().IsRegular() {
		return "", fmt.Errorf(
			"%s: %s is not a regular file: %w",
			errCtx, path, faults.ErrNotFound,
		)
	}

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w: %w", errCtx, faults.ErrIOFailure, err,
		)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf(
				"%s: %w: %w", errCtx, faults.ErrIOFailure, closeErr,
			)
		}
	}()

	ha := alg.newHash()
	buf := make([]byte, ChunkSize)

	if _, err := io.CopyBuffer(ha, fi, buf); err != nil {
		return "", fmt.Errorf(
			"%s: %w: %w", errCtx, faults.ErrIOFailure, err,
		)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}

// VerifyDigest recomputes the digest of the file at path and
// compares it against want.
func VerifyDigest(
	path string,
	want string,
	alg Algorithm,
) (bool, error) {
	const errCtx = "verifying digest"

	calc, err := CalculateDigestWith(path, alg)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return calc == want, nil
}
