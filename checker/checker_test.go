package checker_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/file_integrity/checker"
	"github.com/byte4ever/file_integrity/config"
	"github.com/byte4ever/file_integrity/digester"
	"github.com/byte4ever/file_integrity/faults"
	"github.com/byte4ever/file_integrity/record"
	"github.com/byte4ever/file_integrity/resolver"
)

// writeFile creates a file with content under dir and
// returns its path.
func writeFile(
	tb testing.TB,
	dir string,
	name string,
	content string,
) string {
	tb.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(
		tb,
		os.WriteFile(pa, []byte(content), 0o600),
	)

	return pa
}

func sha256Hex(content string) string {
	sum := sha256.Sum256([]byte(content))

	return hex.EncodeToString(sum[:])
}

// statuses maps each reported path to its status so
// assertions do not depend on directory listing order.
func statuses(files []checker.FileResult) map[string]checker.Status {
	out := make(map[string]checker.Status, len(files))
	for _, fr := range files {
		out[fr.Path] = fr.Status
	}

	return out
}

func readRecord(tb testing.TB, dir string) record.Record {
	tb.Helper()

	rc, err := record.Read(
		filepath.Join(dir, resolver.DefaultRecordName),
	)
	require.NoError(tb, err)

	return rc
}

func TestInit_stores_digests_of_directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")
	bb := writeFile(t, dir, "b.log", "y")

	var ch checker.Checker

	rep, err := ch.Init(dir)

	require.NoError(t, err)
	assert.Equal(t, 2, rep.Stored())
	assert.Equal(
		t,
		filepath.Join(dir, resolver.DefaultRecordName),
		rep.RecordPath,
	)
	assert.Equal(
		t,
		record.Record{aa: sha256Hex("x"), bb: sha256Hex("y")},
		readRecord(t, dir),
	)
}

func TestInit_replaces_previous_record(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")

	require.NoError(t, record.Save(
		record.Record{"stale.log": sha256Hex("old")},
		filepath.Join(dir, resolver.DefaultRecordName),
	))

	var ch checker.Checker

	_, err := ch.Init(dir)

	require.NoError(t, err)
	assert.Equal(t, record.Record{aa: sha256Hex("x")}, readRecord(t, dir))
}

func TestInit_single_file_record_in_parent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")
	writeFile(t, dir, "b.log", "y")

	var ch checker.Checker

	rep, err := ch.Init(aa)

	require.NoError(t, err)
	assert.Equal(
		t,
		filepath.Join(dir, resolver.DefaultRecordName),
		rep.RecordPath,
	)
	assert.Equal(t, record.Record{aa: sha256Hex("x")}, readRecord(t, dir))
}

func TestInit_invalid_path(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var ch checker.Checker

	_, err := ch.Init(filepath.Join(dir, "missing"))

	require.ErrorIs(t, err, faults.ErrInvalidPath)
	assert.NoFileExists(
		t, filepath.Join(dir, resolver.DefaultRecordName),
	)
}

func TestInit_empty_directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var ch checker.Checker

	_, err := ch.Init(dir)

	require.ErrorIs(t, err, faults.ErrNotFound)
	assert.NoFileExists(
		t, filepath.Join(dir, resolver.DefaultRecordName),
	)
}

func TestInit_then_Check_all_unmodified(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")
	bb := writeFile(t, dir, "b.log", "y")

	var ch checker.Checker

	_, err := ch.Init(dir)
	require.NoError(t, err)

	rep, err := ch.Check(dir)

	require.NoError(t, err)
	assert.False(t, rep.NoRecord)
	assert.Equal(
		t,
		map[string]checker.Status{
			aa: checker.StatusUnmodified,
			bb: checker.StatusUnmodified,
		},
		statuses(rep.Files),
	)
	assert.False(t, rep.Tampered())
	assert.Equal(t, checker.VerdictClean, rep.Verdict())
}

func TestCheck_detects_modified_file(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")
	bb := writeFile(t, dir, "b.log", "y")

	var ch checker.Checker

	_, err := ch.Init(dir)
	require.NoError(t, err)

	writeFile(t, dir, "b.log", "z")

	rep, err := ch.Check(dir)

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]checker.Status{
			aa: checker.StatusUnmodified,
			bb: checker.StatusModified,
		},
		statuses(rep.Files),
	)
	assert.True(t, rep.Tampered())
	assert.Equal(t, checker.VerdictTampered, rep.Verdict())
	assert.Equal(t, 1, rep.Count(checker.StatusModified))
}

func TestCheck_detects_appended_byte(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "line\n")

	var ch checker.Checker

	_, err := ch.Init(dir)
	require.NoError(t, err)

	fi, err := os.OpenFile(aa, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = fi.WriteString("!")
	require.NoError(t, err)
	require.NoError(t, fi.Close())

	rep, err := ch.Check(aa)

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]checker.Status{aa: checker.StatusModified},
		statuses(rep.Files),
	)
}

func TestCheck_detects_new_file(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")

	var ch checker.Checker

	_, err := ch.Init(dir)
	require.NoError(t, err)

	cc := writeFile(t, dir, "c.log", "new")

	rep, err := ch.Check(dir)

	require.NoError(t, err)
	assert.Equal(
		t,
		map[string]checker.Status{
			aa: checker.StatusUnmodified,
			cc: checker.StatusNew,
		},
		statuses(rep.Files),
	)
	assert.Equal(t, checker.VerdictTampered, rep.Verdict())
}

func TestCheck_without_record_does_not_classify(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.log", "x")

	var ch checker.Checker

	rep, err := ch.Check(dir)

	require.NoError(t, err)
	assert.True(t, rep.NoRecord)
	assert.Empty(t, rep.Files)
	assert.Equal(t, checker.VerdictNone, rep.Verdict())
}

func TestCheck_malformed_record_treated_as_missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.log", "x")
	writeFile(t, dir, resolver.DefaultRecordName, "{broken")

	var ch checker.Checker

	rep, err := ch.Check(dir)

	require.NoError(t, err)
	assert.True(t, rep.NoRecord)
}

func TestCheck_invalid_path(t *testing.T) {
	t.Parallel()

	var ch checker.Checker

	_, err := ch.Check(filepath.Join(t.TempDir(), "missing"))

	require.ErrorIs(t, err, faults.ErrInvalidPath)
}

func TestUpdate_changes_only_target_entry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")
	bb := writeFile(t, dir, "b.log", "y")
	cc := writeFile(t, dir, "c.log", "z")

	var ch checker.Checker

	_, err := ch.Init(dir)
	require.NoError(t, err)

	before := readRecord(t, dir)

	writeFile(t, dir, "a.log", "changed")

	rep, err := ch.Update(aa)

	require.NoError(t, err)
	assert.Equal(t, aa, rep.Path)
	assert.Equal(t, sha256Hex("x"), rep.Previous)
	assert.Equal(t, sha256Hex("changed"), rep.Digest)
	assert.True(t, rep.Changed())

	after := readRecord(t, dir)
	assert.Len(t, after, 3)
	assert.Equal(t, sha256Hex("changed"), after[aa])
	assert.Equal(t, before[bb], after[bb])
	assert.Equal(t, before[cc], after[cc])

	check, err := ch.Check(dir)
	require.NoError(t, err)
	assert.Equal(t, checker.VerdictClean, check.Verdict())
}

func TestUpdate_without_record_creates_one(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")

	var ch checker.Checker

	rep, err := ch.Update(aa)

	require.NoError(t, err)
	assert.Empty(t, rep.Previous)
	assert.Equal(t, record.Record{aa: sha256Hex("x")}, readRecord(t, dir))
}

func TestUpdate_adds_new_file_to_record(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")

	var ch checker.Checker

	_, err := ch.Init(dir)
	require.NoError(t, err)

	bb := writeFile(t, dir, "b.log", "y")

	_, err = ch.Update(bb)
	require.NoError(t, err)

	assert.Equal(
		t,
		record.Record{aa: sha256Hex("x"), bb: sha256Hex("y")},
		readRecord(t, dir),
	)
}

func TestUpdate_rejects_directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.log", "x")

	var ch checker.Checker

	_, err := ch.Update(dir)

	require.ErrorIs(t, err, faults.ErrNotFound)
	assert.NoFileExists(
		t, filepath.Join(dir, resolver.DefaultRecordName),
	)
}

func TestUpdate_rejects_missing_file(t *testing.T) {
	t.Parallel()

	var ch checker.Checker

	_, err := ch.Update(filepath.Join(t.TempDir(), "gone.log"))

	require.ErrorIs(t, err, faults.ErrNotFound)
}

func TestNew_uses_config(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	aa := writeFile(t, dir, "a.log", "x")

	cfg := config.Default()
	cfg.RecordName = "sums.json"
	cfg.Algorithm = string(digester.BLAKE3)

	ch := checker.New(cfg)

	rep, err := ch.Init(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sums.json"), rep.RecordPath)

	want, err := digester.CalculateDigestWith(aa, digester.BLAKE3)
	require.NoError(t, err)

	rc, err := record.Read(rep.RecordPath)
	require.NoError(t, err)
	assert.Equal(t, record.Record{aa: want}, rc)

	check, err := ch.Check(dir)
	require.NoError(t, err)
	assert.Equal(t, checker.VerdictClean, check.Verdict())
}

func TestClassify(t *testing.T) {
	t.Parallel()

	stored := record.Record{"a": "111", "b": "222"}

	assert.Equal(
		t, checker.StatusUnmodified,
		checker.ClassifyForTest(stored, "a", "111"),
	)
	assert.Equal(
		t, checker.StatusModified,
		checker.ClassifyForTest(stored, "b", "999"),
	)
	assert.Equal(
		t, checker.StatusNew,
		checker.ClassifyForTest(stored, "c", "333"),
	)
}

func TestCheckReport_Verdict_skipped_only_is_clean(t *testing.T) {
	t.Parallel()

	rep := checker.CheckReport{
		Files: []checker.FileResult{
			{Path: "a", Status: checker.StatusSkipped},
		},
	}

	assert.False(t, rep.Tampered())
	assert.Equal(t, checker.VerdictClean, rep.Verdict())
}
