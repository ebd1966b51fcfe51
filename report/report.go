// Package report implements the seed translation report: a YAML file that
// lists, per translated file, the messages that could not be translated
// and those whose positional arguments changed. It is the worklist for the
// human review that follows a seed translation.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/diceweaver/seedtr/translate"
)

// Version is the report format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Report is the top-level report document.
type Report struct {
	Version  int    `yaml:"version"`
	Language string `yaml:"language"`
	Date     string `yaml:"date"`
	// Files maps a destination file (slash-separated, relative to the
	// destination root) to its findings. Clean files are not listed.
	Files map[string]*File `yaml:"files"`

	path string `yaml:"-"`
}

// File holds the findings for one translated file.
type File struct {
	// Failed maps a message key to the reason it was left out.
	Failed map[string]string `yaml:"failed,omitempty"`
	// Placeholders lists messages whose arguments changed in translation.
	Placeholders map[string]Mismatch `yaml:"placeholders,omitempty"`
}

// Mismatch is a message whose translation carries different arguments.
type Mismatch struct {
	Source      string `yaml:"source"`
	Translation string `yaml:"translation"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// New returns an empty report that Save writes to path.
func New(path, language, date string) *Report {
	return &Report{
		Version:  Version,
		Language: language,
		Date:     date,
		Files:    make(map[string]*File),
		path:     path,
	}
}

// Load reads a report from path.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	r := &Report{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if r.Files == nil {
		r.Files = make(map[string]*File)
	}
	r.path = path
	return r, nil
}

// Save writes the report to disk.
func (r *Report) Save() error {
	if r.path == "" {
		return fmt.Errorf("report path not set")
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(r.path), err)
	}
	if err := os.WriteFile(r.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", r.path, err)
	}
	return nil
}

// Path returns the report file path.
func (r *Report) Path() string {
	return r.path
}

// ---------------------------------------------------------------------------
// Recording
// ---------------------------------------------------------------------------

// Record adds the results of one file. Files without findings are skipped.
func (r *Report) Record(file string, results []translate.Result) {
	file = filepath.ToSlash(file)
	for _, res := range results {
		switch {
		case !res.OK():
			fr := r.file(file)
			if fr.Failed == nil {
				fr.Failed = make(map[string]string)
			}
			fr.Failed[res.Key] = res.Err.Error()
		case res.PlaceholderMismatch:
			fr := r.file(file)
			if fr.Placeholders == nil {
				fr.Placeholders = make(map[string]Mismatch)
			}
			fr.Placeholders[res.Key] = Mismatch{Source: res.Source, Translation: res.Text}
		}
	}
}

func (r *Report) file(name string) *File {
	fr, ok := r.Files[name]
	if !ok {
		fr = &File{}
		r.Files[name] = fr
	}
	return fr
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats returns the number of listed files, failed messages and messages
// with changed arguments.
func (r *Report) Stats() (files, failed, mismatched int) {
	files = len(r.Files)
	for _, fr := range r.Files {
		failed += len(fr.Failed)
		mismatched += len(fr.Placeholders)
	}
	return
}

// FileNames returns the listed files, sorted.
func (r *Report) FileNames() []string {
	names := make([]string, 0, len(r.Files))
	for n := range r.Files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
