package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDirMissingReturnsNil(t *testing.T) {
	f, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if f != nil {
		t.Fatalf("LoadDir() = %#v, want nil", f)
	}
}

func TestLoadDefaultsAndValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
messages: game/messages
provider: libretranslate
base_url: http://translate.local:5000
timeout: 45s
strict_placeholders: true
`)

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Path() != path {
		t.Errorf("Path() = %q", f.Path())
	}
	if f.Messages != "game/messages" || f.Provider != "libretranslate" || f.BaseURL != "http://translate.local:5000" {
		t.Errorf("values = %#v", f)
	}
	if f.SourceDir != DefaultSourceDir || f.SourceLang != DefaultSourceLang {
		t.Errorf("defaults not applied: %#v", f)
	}
	if f.TimeoutDuration() != 45*time.Second || !f.StrictPlaceholders {
		t.Errorf("timeout=%v strict=%v", f.TimeoutDuration(), f.StrictPlaceholders)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown provider", "provider: babelfish\n", "babelfish"},
		{"absolute source dir", "source_dir: /etc\n", "must be relative"},
		{"escaping source dir", "source_dir: ../other\n", "outside messages"},
		{"bad timeout", "timeout: soon\n", "invalid timeout"},
		{"timeout without unit", "timeout: 60\n", "invalid timeout"},
		{"malformed yaml", "messages: [\n", "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestZeroTimeout(t *testing.T) {
	f, err := Load(writeConfig(t, t.TempDir(), "timeout: 0\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.TimeoutDuration() != 0 {
		t.Fatalf("timeout = %v, want 0", f.TimeoutDuration())
	}
}

func TestRoots(t *testing.T) {
	f := Default()
	if got, want := f.SourceRoot(), filepath.Join("messages", "src", "en-US"); got != want {
		t.Errorf("SourceRoot() = %q, want %q", got, want)
	}
	if got, want := f.DestRoot("fr"), filepath.Join("messages", "translated", "fr"); got != want {
		t.Errorf("DestRoot() = %q, want %q", got, want)
	}
}

func TestLoadDirFallsBackToTOML(t *testing.T) {
	dir := t.TempDir()
	content := `
messages = "assets/messages"
provider = "libretranslate"
timeout = "90s"
strict_placeholders = true
`
	if err := os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if f == nil || f.Path() != filepath.Join(dir, TOMLFileName) {
		t.Fatalf("LoadDir() = %#v", f)
	}
	if f.Messages != "assets/messages" || f.Provider != "libretranslate" || !f.StrictPlaceholders {
		t.Errorf("values = %#v", f)
	}
	if f.TimeoutDuration() != 90*time.Second {
		t.Errorf("timeout = %v", f.TimeoutDuration())
	}
	if f.SourceDir != DefaultSourceDir {
		t.Errorf("defaults not applied: %#v", f)
	}

	// YAML wins when both exist.
	writeConfig(t, dir, "messages: from-yaml\n")
	f, err = LoadDir(dir)
	if err != nil || f.Messages != "from-yaml" {
		t.Fatalf("LoadDir() = %#v, %v", f, err)
	}
}
