// Package msgtree walks a source tree of message files and mirrors its
// directory structure into a destination tree.
package msgtree

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrSourceNotFound is returned when the source root is missing or is not
// a directory.
var ErrSourceNotFound = errors.New("source message files not found")

// Dir is one directory visited by Walk.
type Dir struct {
	// Path is the directory path (the root joined with Rel).
	Path string
	// Rel is Path relative to the walk root ("." for the root itself).
	Rel string
	// Subdirs are the names of the immediate subdirectories, sorted.
	Subdirs []string
	// Files are the names of the immediate non-directory entries, sorted.
	Files []string
	// Links are the Subdirs that are symbolic links. They are mirrored but
	// not descended into.
	Links []string
}

// CheckRoot returns ErrSourceNotFound (wrapped with the path) unless root
// is an existing directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", root, ErrSourceNotFound)
		}
		return fmt.Errorf("checking %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", root, ErrSourceNotFound)
	}
	return nil
}

// Walk returns a lazy, top-down sequence of every directory under root,
// root included. A directory is yielded before any of its subdirectories,
// so the consumer can prepare for Subdirs before they are visited. Empty
// directories are yielded too.
//
// Symbolic links to directories are listed in Subdirs and Links but are not
// followed.
//
// A missing root yields a single ErrSourceNotFound error. A directory that
// cannot be read yields its error and the walk stops.
func Walk(root string) iter.Seq2[Dir, error] {
	return func(yield func(Dir, error) bool) {
		if err := CheckRoot(root); err != nil {
			yield(Dir{}, err)
			return
		}
		walkDir(root, ".", yield)
	}
}

// walkDir visits dir and its descendants. It returns false once the
// consumer stops or an error was yielded.
func walkDir(root, rel string, yield func(Dir, error) bool) bool {
	path := filepath.Join(root, rel)
	entries, err := os.ReadDir(path)
	if err != nil {
		yield(Dir{}, fmt.Errorf("reading %s: %w", path, err))
		return false
	}

	d := Dir{Path: path, Rel: rel}
	for _, e := range entries {
		switch {
		case e.IsDir():
			d.Subdirs = append(d.Subdirs, e.Name())
		case e.Type()&fs.ModeSymlink != 0 && isDir(filepath.Join(path, e.Name())):
			d.Subdirs = append(d.Subdirs, e.Name())
			d.Links = append(d.Links, e.Name())
		default:
			d.Files = append(d.Files, e.Name())
		}
	}

	if !yield(d, nil) {
		return false
	}

	for _, sub := range d.Subdirs {
		if slices.Contains(d.Links, sub) {
			continue
		}
		if !walkDir(root, filepath.Join(rel, sub), yield) {
			return false
		}
	}
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsMessageFile reports whether name looks like a message file.
func IsMessageFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json") && !strings.HasPrefix(name, ".")
}

// ---------------------------------------------------------------------------
// Mirroring
// ---------------------------------------------------------------------------

// Pair is a source tree and the destination tree that mirrors it.
type Pair struct {
	Src  string
	Dest string
}

// DestDir returns the destination directory for a visited source directory.
func (p Pair) DestDir(d Dir) string {
	return filepath.Join(p.Dest, d.Rel)
}

// DestFile returns the destination path for a file in a visited directory.
func (p Pair) DestFile(d Dir, name string) string {
	return filepath.Join(p.Dest, d.Rel, name)
}

// Prepare creates the destination root if it does not exist. An existing
// Dest that is not a directory is an error.
func (p Pair) Prepare() (created bool, err error) {
	if info, err := os.Stat(p.Dest); err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", p.Dest)
		}
		return false, nil
	}
	if err := os.MkdirAll(p.Dest, 0755); err != nil {
		return false, fmt.Errorf("creating %s: %w", p.Dest, err)
	}
	return true, nil
}

// Mirror ensures the destination counterpart of every subdirectory of d
// exists. Call it for each Dir before the walk descends.
func (p Pair) Mirror(d Dir) error {
	for _, sub := range d.Subdirs {
		dest := filepath.Join(p.Dest, d.Rel, sub)
		if err := os.Mkdir(dest, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("creating %s: %w", dest, err)
		}
	}
	return nil
}
