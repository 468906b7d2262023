package checker

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/byte4ever/file_integrity/config"
	"github.com/byte4ever/file_integrity/digester"
	"github.com/byte4ever/file_integrity/faults"
	"github.com/byte4ever/file_integrity/record"
	"github.com/byte4ever/file_integrity/resolver"
)

// Status classifies one file against the stored record.
type Status int

const (
	// StatusSkipped marks a file whose digest could not be
	// computed.
	StatusSkipped Status = iota

	// StatusHashed marks a file digested by init or update.
	StatusHashed

	// StatusUnmodified marks a file matching its stored digest.
	StatusUnmodified

	// StatusModified marks a file whose digest changed.
	StatusModified

	// StatusNew marks a file absent from the stored record.
	StatusNew
)

func (st Status) String() string {
	switch st {
	case StatusHashed:
		return "Hashed"
	case StatusUnmodified:
		return "Unmodified"
	case StatusModified:
		return "Modified (Hash mismatch)"
	case StatusNew:
		return "New file (Not in initial hash list)"
	default:
		return "Skipped"
	}
}

// FileResult is the outcome for one resolved file.
type FileResult struct {
	Path   string
	Status Status
	Digest string
	Err    error
}

// InitReport describes an init run.
type InitReport struct {
	RecordPath string
	Files      []FileResult
}

// Stored returns the number of files written to the record.
func (ir *InitReport) Stored() int {
	return countStatus(ir.Files, StatusHashed)
}

// Verdict summarizes a check run.
type Verdict int

const (
	// VerdictNone means nothing was classified.
	VerdictNone Verdict = iota

	// VerdictClean means no checked file is modified or new.
	VerdictClean

	// VerdictTampered means at least one file is modified or
	// new.
	VerdictTampered
)

// CheckReport describes a check run.
type CheckReport struct {
	RecordPath string

	// NoRecord is set when the record was missing, empty or
	// unreadable; Files is empty in that case.
	NoRecord bool

	Files []FileResult
}

// Tampered reports whether any file is modified or new.
func (cr *CheckReport) Tampered() bool {
	return countStatus(cr.Files, StatusModified) > 0 ||
		countStatus(cr.Files, StatusNew) > 0
}

// Verdict returns the overall outcome of the check.
func (cr *CheckReport) Verdict() Verdict {
	switch {
	case cr.NoRecord || len(cr.Files) == 0:
		return VerdictNone
	case cr.Tampered():
		return VerdictTampered
	default:
		return VerdictClean
	}
}

// Count returns how many files have status st.
func (cr *CheckReport) Count(st Status) int {
	return countStatus(cr.Files, st)
}

// UpdateReport describes an update run.
type UpdateReport struct {
	RecordPath string
	Path       string
	Digest     string

	// Previous is the digest replaced by the update, empty when
	// the file was not recorded before.
	Previous string
}

// Changed reports whether the stored digest differs from the
// one it replaced.
func (ur *UpdateReport) Changed() bool {
	return ur.Previous != ur.Digest
}

func countStatus(files []FileResult, st Status) int {
	n := 0

	for _, fr := range files {
		if fr.Status == st {
			n++
		}
	}

	return n
}

// Checker runs integrity operations. The zero value uses the
// default record name and SHA256.
type Checker struct {
	Resolver  resolver.Resolver
	Algorithm digester.Algorithm
}

// New builds a Checker from cfg.
func New(cfg config.Config) *Checker {
	return &Checker{
		Resolver:  resolver.Resolver{RecordName: cfg.RecordName},
		Algorithm: cfg.DigestAlgorithm(),
	}
}

func (ch *Checker) digest(path string) FileResult {
	dg, err := digester.CalculateDigestWith(path, ch.algorithm())
	if err != nil {
		slog.Debug("skipping file", "path", path, "error", err)

		return FileResult{Path: path, Status: StatusSkipped, Err: err}
	}

	return FileResult{Path: path, Status: StatusHashed, Digest: dg}
}

func (ch *Checker) algorithm() digester.Algorithm {
	if ch.Algorithm == "" {
		return digester.SHA256
	}

	return ch.Algorithm
}

func (ch *Checker) resolve(path string) ([]string, error) {
	files, err := ch.Resolver.Resolve(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller
	}

	if len(files) == 0 {
		return nil, fmt.Errorf(
			"no files in %s: %w", path, faults.ErrNotFound,
		)
	}

	return files, nil
}

// Init digests every file path resolves to and writes a fresh
// record holding exactly the files that hashed successfully,
// replacing any previous record.
func (ch *Checker) Init(path string) (*InitReport, error) {
	const errCtx = "initializing record"

	files, err := ch.resolve(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	rep := &InitReport{
		RecordPath: ch.Resolver.RecordLocation(path),
		Files:      make([]FileResult, 0, len(files)),
	}

	rc := make(record.Record, len(files))

	for _, fp := range files {
		fr := ch.digest(fp)
		if fr.Status == StatusHashed {
			rc[fp] = fr.Digest
		}

		rep.Files = append(rep.Files, fr)
	}

	if err := record.Save(rc, rep.RecordPath); err != nil {
		return rep, fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Debug(
		"record initialized",
		"record", rep.RecordPath,
		"files", len(rc),
	)

	return rep, nil
}

// Check recomputes the digest of every file path resolves to
// and classifies it against the stored record. When no usable
// record exists the report has NoRecord set and nothing is
// classified.
func (ch *Checker) Check(path string) (*CheckReport, error) {
	const errCtx = "checking files"

	files, err := ch.resolve(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	rep := &CheckReport{
		RecordPath: ch.Resolver.RecordLocation(path),
	}

	stored := record.Load(rep.RecordPath)
	if len(stored) == 0 {
		rep.NoRecord = true

		return rep, nil
	}

	rep.Files = make([]FileResult, 0, len(files))

	for _, fp := range files {
		fr := ch.digest(fp)

		if fr.Status == StatusHashed {
			fr.Status = classify(stored, fp, fr.Digest)
		}

		rep.Files = append(rep.Files, fr)
	}

	return rep, nil
}

func classify(stored record.Record, path, digest string) Status {
	want, ok := stored[path]

	switch {
	case !ok:
		return StatusNew
	case want == digest:
		return StatusUnmodified
	default:
		return StatusModified
	}
}

// Update recomputes the digest of the single file at path and
// merges it into the existing record, leaving every other entry
// untouched. Directories are rejected with faults.ErrNotFound.
func (ch *Checker) Update(path string) (*UpdateReport, error) {
	const errCtx = "updating record"

	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, faults.ErrNotFound,
		)
	}

	fp := filepath.Clean(path)

	rep := &UpdateReport{
		RecordPath: ch.Resolver.RecordLocation(fp),
		Path:       fp,
	}

	stored := record.Load(rep.RecordPath)

	fr := ch.digest(fp)
	if fr.Err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, fr.Err)
	}

	rep.Digest = fr.Digest
	rep.Previous, _ = stored.Merge(fp, fr.Digest)

	if err := record.Save(stored, rep.RecordPath); err != nil {
		return rep, fmt.Errorf("%s: %w", errCtx, err)
	}

	return rep, nil
}
