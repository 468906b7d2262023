// Package main provides the integrity-check CLI that
// records file digests in a sidecar record and later
// reports files that were modified or added.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/byte4ever/file_integrity/checker"
	"github.com/byte4ever/file_integrity/config"
	"github.com/byte4ever/file_integrity/report"
)

// command binds a subcommand name to its handler.
type command struct {
	name string
	args string
	help string
	run  func(*checker.Checker, *report.Printer, string) error
}

var commands = []command{
	{
		name: "init",
		args: "<path>",
		help: "Initialize and store hashes",
		run:  runInit,
	},
	{
		name: "check",
		args: "<path>",
		help: "Check file integrity",
		run:  runCheck,
	},
	{
		name: "-check",
		args: "<path>",
		help: "Check file integrity (alternative)",
		run:  runCheck,
	},
	{
		name: "update",
		args: "<file>",
		help: "Update hash for a file",
		run:  runUpdate,
	},
}

func lookup(name string) (command, bool) {
	for _, cm := range commands {
		if cm.name == name {
			return cm, true
		}
	}

	return command{}, false
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "File Integrity Checker")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "usage: integrity-check <command> [-config file] <path>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")

	for _, cm := range commands {
		fmt.Fprintf(out, "  %-7s %-7s %s\n", cm.name, cm.args, cm.help)
	}
}

// run dispatches args to a subcommand. Command failures
// are printed and do not produce an error; only usage
// problems do.
func run(args []string, out io.Writer) error {
	const errCtx = "integrity-check"

	if len(args) == 0 {
		usage(out)

		return nil
	}

	switch args[0] {
	case "help", "-h", "-help", "--help":
		usage(out)

		return nil
	}

	cm, ok := lookup(args[0])
	if !ok {
		usage(out)

		return fmt.Errorf(
			"%s: unknown command %q", errCtx, args[0],
		)
	}

	fset := flag.NewFlagSet(cm.name, flag.ContinueOnError)
	fset.SetOutput(out)

	cfgPath := fset.String(
		"config", "",
		"path to YAML settings file",
	)

	if err := fset.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return fmt.Errorf("%s: %s: %w", errCtx, cm.name, err)
	}

	if fset.NArg() != 1 {
		return fmt.Errorf(
			"%s: %s expects exactly one %s argument",
			errCtx, cm.name, cm.args,
		)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	pr := report.NewPrinter(out, cfg.StatusFormat)

	if err := cm.run(checker.New(cfg), pr, fset.Arg(0)); err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, cm.name, err)
	}

	return nil
}

func runInit(
	ch *checker.Checker,
	pr *report.Printer,
	path string,
) error {
	rep, err := ch.Init(path)
	if err != nil {
		if rep != nil {
			for _, fr := range rep.Files {
				if fr.Status != checker.StatusSkipped {
					continue
				}

				if perr := pr.Failure(fr.Err); perr != nil {
					return perr
				}
			}
		}

		return pr.Failure(err)
	}

	return pr.Init(rep)
}

func runCheck(
	ch *checker.Checker,
	pr *report.Printer,
	path string,
) error {
	rep, err := ch.Check(path)
	if err != nil {
		return pr.Failure(err)
	}

	if rep.NoRecord {
		slog.Debug("no usable record", "record", rep.RecordPath)
	}

	return pr.Check(rep)
}

func runUpdate(
	ch *checker.Checker,
	pr *report.Printer,
	path string,
) error {
	rep, err := ch.Update(path)
	if err != nil {
		return pr.Failure(err)
	}

	return pr.Update(rep)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error(err.Error())
		os.Exit(2)
	}
}
