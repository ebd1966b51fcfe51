// Package seed drives a seed translation run: it walks the source message
// tree, mirrors its directories into the destination tree and writes a
// machine-translated counterpart of every message file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/diceweaver/seedtr/msgfile"
	"github.com/diceweaver/seedtr/msgtree"
	"github.com/diceweaver/seedtr/report"
	"github.com/diceweaver/seedtr/translate"
)

// Options configures a run.
type Options struct {
	// Source is the root of the source message tree.
	Source string
	// Dest is the root of the destination tree for the target language.
	Dest string
	// Translate holds the per-file transformation options. Its language
	// is the target language of the run.
	Translate translate.Options
	// DryRun parses and counts but neither translates nor writes.
	DryRun bool
	// Report, when set, receives the per-message results of every file.
	Report *report.Report

	// OnLog emits progress messages.
	OnLog func(format string, args ...any)
	// OnWarn emits per-message and per-file problems.
	OnWarn func(format string, args ...any)
	// OnDetail emits per-file and per-message detail (verbose mode).
	OnDetail func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) warn(format string, args ...any) {
	if o.OnWarn != nil {
		o.OnWarn(format, args...)
	}
}

func (o *Options) detail(format string, args ...any) {
	if o.OnDetail != nil {
		o.OnDetail(format, args...)
	}
}

// Summary counts what a run did.
type Summary struct {
	// Files is the number of message files processed.
	Files int
	// Skipped is the number of non-message files ignored.
	Skipped int
	// Messages is the number of translatable messages seen.
	Messages int
	// Failed is the number of messages left out of the output.
	Failed int
	// Mismatched is the number of translations whose arguments changed.
	Mismatched int
}

// Translated returns the number of messages written to the output.
func (s Summary) Translated() int {
	return s.Messages - s.Failed
}

// Run performs a seed translation. tr may be nil in dry-run mode.
//
// A missing source root returns msgtree.ErrSourceNotFound before anything
// is created. Per-message failures are reported through OnWarn and counted
// in the summary; they do not make Run fail. Malformed files, file-system
// errors and cancellation of ctx abort the run.
func Run(ctx context.Context, tr translate.Translator, opts Options) (Summary, error) {
	var sum Summary

	opts.log("Creating seed translation for %s", opts.Translate.Language)
	opts.log("Reading source message files from %s", opts.Source)
	opts.log("Writing output translations to %s", opts.Dest)

	if err := msgtree.CheckRoot(opts.Source); err != nil {
		return sum, err
	}
	if tr == nil && !opts.DryRun {
		return sum, errors.New("no translator configured")
	}

	pair := msgtree.Pair{Src: opts.Source, Dest: opts.Dest}
	if !opts.DryRun {
		created, err := pair.Prepare()
		if err != nil {
			return sum, err
		}
		if created {
			opts.log("Creating message destination directory")
		}
	}

	topts := opts.Translate
	if topts.OnWarn == nil {
		topts.OnWarn = opts.OnWarn
	}
	if topts.OnLog == nil {
		topts.OnLog = opts.OnDetail
	}

	for d, err := range msgtree.Walk(opts.Source) {
		if err != nil {
			return sum, err
		}
		if !opts.DryRun {
			if err := pair.Mirror(d); err != nil {
				return sum, err
			}
		}

		for _, name := range d.Files {
			rel := filepath.Join(d.Rel, name)
			if !msgtree.IsMessageFile(name) {
				opts.detail("Skipping %s: not a message file", rel)
				sum.Skipped++
				continue
			}
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			if err := runFile(ctx, tr, pair, d, name, topts, &opts, &sum); err != nil {
				return sum, err
			}
		}
	}

	return sum, nil
}

func runFile(ctx context.Context, tr translate.Translator, pair msgtree.Pair, d msgtree.Dir, name string,
	topts translate.Options, opts *Options, sum *Summary) error {
	srcPath := filepath.Join(d.Path, name)
	rel := filepath.Join(d.Rel, name)

	src, err := msgfile.ParseFile(srcPath)
	if err != nil {
		return err
	}
	sum.Files++

	if opts.DryRun {
		if _, err := src.Metadata(); err != nil {
			return fmt.Errorf("%s: %w", srcPath, err)
		}
		n := len(src.Keys())
		sum.Messages += n
		opts.detail("%s: %d messages", rel, n)
		return nil
	}

	opts.detail("Translating %s", rel)
	dst, results, err := translate.TransformFile(ctx, tr, src, topts)
	if err != nil {
		return fmt.Errorf("%s: %w", srcPath, err)
	}

	for _, res := range results {
		sum.Messages++
		if !res.OK() {
			sum.Failed++
		} else if res.PlaceholderMismatch {
			sum.Mismatched++
		}
	}
	if opts.Report != nil {
		opts.Report.Record(rel, results)
	}

	return dst.WriteFile(pair.DestFile(d, name))
}
