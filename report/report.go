package report

import (
	"fmt"
	"io"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/file_integrity/checker"
	"github.com/byte4ever/file_integrity/config"
)

// Formats holds the line templates. Placeholders: {path},
// {status}, {error}, {record}.
type Formats struct {
	Status   string
	Skipped  string
	Tampered string
	Clean    string
	NoRecord string
	Stored   string
	Updated  string
	Failure  string
}

// DefaultFormats returns the stock console texts.
func DefaultFormats() Formats {
	return Formats{
		Status:   config.DefaultStatusFormat,
		Skipped:  "Error: {error}",
		Tampered: "\nPossible file tampering detected.",
		Clean:    "\nAll checked files are unmodified.",
		NoRecord: "Warning: Hash file not found. Please run 'init' first.",
		Stored:   "Hashes stored successfully.",
		Updated:  "Hash updated successfully.",
		Failure:  "Error: {error}",
	}
}

// Printer writes reports to Out.
type Printer struct {
	Out     io.Writer
	Formats Formats
}

// NewPrinter returns a Printer using the default texts and
// statusFormat for per-file lines (default when empty).
func NewPrinter(out io.Writer, statusFormat string) *Printer {
	fm := DefaultFormats()
	if statusFormat != "" {
		fm.Status = statusFormat
	}

	return &Printer{Out: out, Formats: fm}
}

func (pr *Printer) line(
	format string,
	vals map[string]interface{},
) error {
	const errCtx = "printing report"

	if _, err := fasttemplate.ExecuteStd(
		format+"\n", "{", "}", pr.Out, vals,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func (pr *Printer) skipped(fr checker.FileResult) error {
	return pr.line(pr.Formats.Skipped, map[string]interface{}{
		"path":  fr.Path,
		"error": errText(fr.Err),
	})
}

// Init prints per-file failures followed by the success line.
func (pr *Printer) Init(rep *checker.InitReport) error {
	for _, fr := range rep.Files {
		if fr.Status != checker.StatusSkipped {
			continue
		}

		if err := pr.skipped(fr); err != nil {
			return err
		}
	}

	return pr.line(pr.Formats.Stored, map[string]interface{}{
		"record": rep.RecordPath,
	})
}

// Check prints one status line per classified file and a
// summary.
func (pr *Printer) Check(rep *checker.CheckReport) error {
	if rep.NoRecord {
		return pr.line(pr.Formats.NoRecord, map[string]interface{}{
			"record": rep.RecordPath,
		})
	}

	for _, fr := range rep.Files {
		var err error

		if fr.Status == checker.StatusSkipped {
			err = pr.skipped(fr)
		} else {
			err = pr.line(pr.Formats.Status, map[string]interface{}{
				"path":   fr.Path,
				"status": fr.Status.String(),
			})
		}

		if err != nil {
			return err
		}
	}

	vals := map[string]interface{}{"record": rep.RecordPath}

	switch rep.Verdict() {
	case checker.VerdictTampered:
		return pr.line(pr.Formats.Tampered, vals)
	case checker.VerdictClean:
		return pr.line(pr.Formats.Clean, vals)
	default:
		return nil
	}
}

// Update prints the success line.
func (pr *Printer) Update(rep *checker.UpdateReport) error {
	return pr.line(pr.Formats.Updated, map[string]interface{}{
		"path":   rep.Path,
		"record": rep.RecordPath,
	})
}

// Failure prints a command-level error.
func (pr *Printer) Failure(err error) error {
	return pr.line(pr.Formats.Failure, map[string]interface{}{
		"error": errText(err),
	})
}

func errText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
