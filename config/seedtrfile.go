// Package config handles the optional .seedtr.yaml (or .seedtr.toml)
// configuration file.
//
// Every field it sets can be overridden by the matching command-line flag,
// and every field it leaves out falls back to a built-in default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/diceweaver/seedtr/translate"
)

// FileName is the default config file name.
const FileName = ".seedtr.yaml"

// TOMLFileName is looked up when FileName does not exist.
const TOMLFileName = ".seedtr.toml"

// Built-in defaults.
const (
	DefaultMessages   = "messages"
	DefaultSourceDir  = "src/en-US"
	DefaultProvider   = translate.ProviderGoogle
	DefaultSourceLang = translate.DefaultSourceLang
)

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// File is the top-level config file structure.
type File struct {
	// Messages is the root of the message tree.
	Messages string `yaml:"messages,omitempty" toml:"messages,omitempty"`
	// SourceDir holds the source message files, relative to Messages.
	SourceDir string `yaml:"source_dir,omitempty" toml:"source_dir,omitempty"`
	// SourceLang is the language code passed to the service as the source.
	SourceLang string `yaml:"source_lang,omitempty" toml:"source_lang,omitempty"`
	// Provider is the translation backend: "google" or "libretranslate".
	Provider string `yaml:"provider,omitempty" toml:"provider,omitempty"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	// Timeout bounds each translation request. Zero means no limit.
	Timeout Duration `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	// StrictPlaceholders drops translations whose arguments changed.
	StrictPlaceholders bool `yaml:"strict_placeholders,omitempty" toml:"strict_placeholders,omitempty"`

	path string
}

// Duration is a time.Duration written as "30s", "2m" or "0".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := parseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = v
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used for TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func parseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative timeout %q", s)
	}
	return Duration(v), nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns a File holding the built-in defaults.
func Default() *File {
	return &File{
		Messages:   DefaultMessages,
		SourceDir:  DefaultSourceDir,
		SourceLang: DefaultSourceLang,
		Provider:   DefaultProvider,
	}
}

// LoadDir loads .seedtr.yaml, or failing that .seedtr.toml, from dir.
// Returns nil if neither exists.
func LoadDir(dir string) (*File, error) {
	for _, name := range []string{FileName, TOMLFileName} {
		f, err := Load(filepath.Join(dir, name))
		if f != nil || err != nil {
			return f, err
		}
	}
	return nil, nil
}

// Load loads and validates the config file at path. Files ending in .toml
// are read as TOML, everything else as YAML.
// Returns nil if the file does not exist.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.path = path
	f.applyDefaults()

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *File) applyDefaults() {
	def := Default()
	if f.Messages == "" {
		f.Messages = def.Messages
	}
	if f.SourceDir == "" {
		f.SourceDir = def.SourceDir
	}
	if f.SourceLang == "" {
		f.SourceLang = def.SourceLang
	}
	if f.Provider == "" {
		f.Provider = def.Provider
	}
}

// Validate checks the provider and source directory.
func (f *File) Validate() error {
	if _, err := translate.LookupProvider(f.Provider); err != nil {
		return err
	}
	if filepath.IsAbs(f.SourceDir) {
		return fmt.Errorf("source_dir %q must be relative to messages", f.SourceDir)
	}
	if f.SourceDir == ".." || strings.HasPrefix(filepath.ToSlash(filepath.Clean(f.SourceDir)), "../") {
		return fmt.Errorf("source_dir %q points outside messages", f.SourceDir)
	}
	return nil
}

// Path returns the file the config was loaded from, or "" for defaults.
func (f *File) Path() string {
	return f.path
}

// TimeoutDuration returns Timeout as a time.Duration.
func (f *File) TimeoutDuration() time.Duration {
	return time.Duration(f.Timeout)
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

// TranslatedDir is the directory under Messages that holds one output tree
// per target language.
const TranslatedDir = "translated"

// SourceRoot returns the source tree root.
func (f *File) SourceRoot() string {
	return filepath.Join(f.Messages, filepath.FromSlash(f.SourceDir))
}

// DestRoot returns the output tree root for language.
func (f *File) DestRoot(language string) string {
	return filepath.Join(f.Messages, TranslatedDir, language)
}
