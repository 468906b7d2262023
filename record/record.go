package record

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/byte4ever/file_integrity/faults"
)

const indent = "    "

// Record maps a file path to its hex digest.
type Record map[string]string

// Merge inserts or overwrites the digest for path and returns
// the value it replaced, if any.
func (rc Record) Merge(path, digest string) (string, bool) {
	prev, ok := rc[path]
	rc[path] = digest

	return prev, ok
}

// Paths returns the recorded paths in lexical order.
func (rc Record) Paths() []string {
	paths := make([]string, 0, len(rc))
	for pa := range rc {
		paths = append(paths, pa)
	}

	sort.Strings(paths)

	return paths
}

// Read parses the record file at path. A missing file yields an
// empty record and no error.
func Read(path string) (Record, error) {
	const errCtx = "reading record"

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided by design
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, nil
	}

	if err != nil {
		return Record{}, fmt.Errorf(
			"%s: %w: %w", errCtx, faults.ErrIOFailure, err,
		)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Record{}, fmt.Errorf(
			"%s: %s is empty: %w",
			errCtx, path, faults.ErrMalformedRecord,
		)
	}

	var rc Record
	if err := json.Unmarshal(data, &rc); err != nil {
		return Record{}, fmt.Errorf(
			"%s: %s: %w: %w",
			errCtx, path, faults.ErrMalformedRecord, err,
		)
	}

	if rc == nil {
		rc = Record{}
	}

	return rc, nil
}

// Load reads the record file at path, logging and returning an
// empty record when it cannot be read or parsed.
func Load(path string) Record {
	rc, err := Read(path)
	if err != nil {
		slog.Warn(
			"ignoring unreadable record",
			"path", path,
			"error", err,
		)

		return Record{}
	}

	return rc
}

// Save writes rc to path as indented JSON, replacing any
// existing file.
func Save(rc Record, path string) error {
	const errCtx = "saving record"

	if rc == nil {
		rc = Record{}
	}

	data, err := json.MarshalIndent(rc, "", indent)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	//nolint:gosec // record is meant to be readable alongside the files
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf(
			"%s: %w: %w", errCtx, faults.ErrIOFailure, err,
		)
	}

	return nil
}
