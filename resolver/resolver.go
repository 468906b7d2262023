package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/byte4ever/file_integrity/faults"
)

// DefaultRecordName is the well-known name of the record file.
const DefaultRecordName = ".file_hashes.json"

// Resolver maps target paths to files and record locations.
// The zero value uses DefaultRecordName.
type Resolver struct {
	// RecordName is the record file base name.
	RecordName string
}

func (re Resolver) recordName() string {
	if re.RecordName == "" {
		return DefaultRecordName
	}

	return re.RecordName
}

// Resolve returns the regular files denoted by path. A regular
// file yields itself. A directory yields its immediate entries
// that are regular files (symlinks are followed), excluding the
// record file. Order follows the directory listing and carries
// no guarantee. Anything else fails with faults.ErrInvalidPath.
func (re Resolver) Resolve(path string) ([]string, error) {
	const errCtx = "resolving path"

	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(
				"%s: %s: %w", errCtx, path, faults.ErrInvalidPath,
			)
		}

		return nil, fmt.Errorf(
			"%s: %w: %w", errCtx, faults.ErrIOFailure, err,
		)
	}

	switch {
	case st.Mode().IsRegular():
		return []string{filepath.Clean(path)}, nil
	case st.IsDir():
		files, err := re.listFiles(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		return files, nil
	default:
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, faults.ErrInvalidPath,
		)
	}
}

func (re Resolver) listFiles(dir string) ([]string, error) {
	const errCtx = "listing directory"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w: %w", errCtx, faults.ErrIOFailure, err,
		)
	}

	var files []string

	for _, en := range entries {
		if en.Name() == re.recordName() {
			continue
		}

		pa := filepath.Join(dir, en.Name())

		st, err := os.Stat(pa)
		if err != nil || !st.Mode().IsRegular() {
			continue
		}

		files = append(files, pa)
	}

	return files, nil
}

// RecordLocation returns the record file path for path: inside
// it when it is a directory, otherwise in its parent directory.
func (re Resolver) RecordLocation(path string) string {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return filepath.Join(path, re.recordName())
	}

	return filepath.Join(filepath.Dir(path), re.recordName())
}

// Resolve calls Resolver.Resolve with the default record name.
func Resolve(path string) ([]string, error) {
	return Resolver{}.Resolve(path)
}

// RecordLocation calls Resolver.RecordLocation with the default
// record name.
func RecordLocation(path string) string {
	return Resolver{}.RecordLocation(path)
}
