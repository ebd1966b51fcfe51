package report

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/diceweaver/seedtr/translate"
)

func sampleResults() []translate.Result {
	return []translate.Result{
		{Key: "ok", Source: "Fine", Text: "Bien"},
		{Key: "broken", Source: "Oops", Err: errors.New("service unavailable")},
		{Key: "args", Source: "$1 and $2", Text: "$1 et $1", PlaceholderMismatch: true},
	}
}

func TestRecordAndStats(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "report.yaml"), "fr", "2024-02-03")
	r.Record(filepath.Join("game", "dice.json"), sampleResults())
	r.Record("clean.json", []translate.Result{{Key: "a", Text: "A"}})

	files, failed, mismatched := r.Stats()
	if files != 1 || failed != 1 || mismatched != 1 {
		t.Fatalf("Stats() = %d, %d, %d; want 1, 1, 1", files, failed, mismatched)
	}
	if got := r.FileNames(); !reflect.DeepEqual(got, []string{"game/dice.json"}) {
		t.Fatalf("FileNames() = %v", got)
	}

	fr := r.Files["game/dice.json"]
	if fr.Failed["broken"] != "service unavailable" {
		t.Errorf("failed = %#v", fr.Failed)
	}
	if m := fr.Placeholders["args"]; m.Source != "$1 and $2" || m.Translation != "$1 et $1" {
		t.Errorf("placeholders = %#v", fr.Placeholders)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.yaml")
	r := New(path, "de", "2024-02-03")
	r.Record("common.json", sampleResults())

	if err := r.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"language: de", "common.json:", "broken: service unavailable", "translation: $1 et $1"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %q:\n%s", want, data)
		}
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Path() != path || loaded.Version != Version {
		t.Errorf("loaded = %#v", loaded)
	}
	if _, failed, _ := loaded.Stats(); failed != 1 {
		t.Errorf("loaded failed = %d, want 1", failed)
	}
}

func TestSaveWithoutPath(t *testing.T) {
	r := New("", "fr", "2024-02-03")
	if err := r.Save(); err == nil {
		t.Fatal("Save without path should fail")
	}
}
