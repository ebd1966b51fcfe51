package msgtree

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func mkTree(t *testing.T, root string, dirs []string, files []string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWalk_TopDownIncludingEmptyDirs(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root,
		[]string{"empty", "game/rules/deep"},
		[]string{"common.json", "game/dice.json", "game/rules/combat.json"},
	)

	var rels []string
	byRel := map[string]Dir{}
	for d, err := range Walk(root) {
		if err != nil {
			t.Fatalf("Walk error: %v", err)
		}
		rels = append(rels, d.Rel)
		byRel[d.Rel] = d
	}

	want := []string{".", "empty", "game", filepath.Join("game", "rules"), filepath.Join("game", "rules", "deep")}
	if !reflect.DeepEqual(rels, want) {
		t.Fatalf("visit order = %v, want %v", rels, want)
	}

	top := byRel["."]
	if !reflect.DeepEqual(top.Subdirs, []string{"empty", "game"}) {
		t.Errorf("root subdirs = %v", top.Subdirs)
	}
	if !reflect.DeepEqual(top.Files, []string{"common.json"}) {
		t.Errorf("root files = %v", top.Files)
	}
	if top.Path != root {
		t.Errorf("root path = %q, want %q", top.Path, root)
	}
	if d := byRel["empty"]; len(d.Files) != 0 || len(d.Subdirs) != 0 {
		t.Errorf("empty dir = %#v", d)
	}
}

func TestWalk_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	n := 0
	for _, err := range Walk(root) {
		n++
		if !errors.Is(err, ErrSourceNotFound) {
			t.Fatalf("err = %v, want ErrSourceNotFound", err)
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly one yield, got %d", n)
	}
}

func TestCheckRoot_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "file.json")
	if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := CheckRoot(p); !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("CheckRoot(file) = %v, want ErrSourceNotFound", err)
	}
}

func TestWalk_StopsWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, []string{"a", "b", "c"}, nil)

	n := 0
	for range Walk(root) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("visited %d, want 2", n)
	}
}

func TestMirror_CreatesEveryDirectory(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src", "en-US")
	dest := filepath.Join(base, "translated", "fr")
	mkTree(t, src, []string{"empty", "game/rules"}, []string{"game/dice.json"})

	p := Pair{Src: src, Dest: dest}
	created, err := p.Prepare()
	if err != nil || !created {
		t.Fatalf("Prepare() = %v, %v", created, err)
	}
	for d, err := range Walk(src) {
		if err != nil {
			t.Fatal(err)
		}
		if err := p.Mirror(d); err != nil {
			t.Fatalf("Mirror(%s): %v", d.Rel, err)
		}
	}

	for _, rel := range []string{"empty", "game", filepath.Join("game", "rules")} {
		info, err := os.Stat(filepath.Join(dest, rel))
		if err != nil || !info.IsDir() {
			t.Errorf("destination %s not mirrored: %v", rel, err)
		}
	}

	// A second run finds everything in place.
	if created, err := p.Prepare(); err != nil || created {
		t.Fatalf("second Prepare() = %v, %v", created, err)
	}
	for d := range Walk(src) {
		if err := p.Mirror(d); err != nil {
			t.Fatalf("second Mirror(%s): %v", d.Rel, err)
		}
	}
}

func TestPairPaths(t *testing.T) {
	p := Pair{Src: "/m/src/en-US", Dest: "/m/translated/de"}
	d := Dir{Rel: filepath.Join("game", "rules")}
	if got, want := p.DestDir(d), filepath.Join("/m/translated/de", "game", "rules"); got != want {
		t.Errorf("DestDir = %q, want %q", got, want)
	}
	if got, want := p.DestFile(Dir{Rel: "."}, "common.json"), filepath.Join("/m/translated/de", "common.json"); got != want {
		t.Errorf("DestFile = %q, want %q", got, want)
	}
}

func TestIsMessageFile(t *testing.T) {
	cases := map[string]bool{
		"common.json":  true,
		"UPPER.JSON":   true,
		"notes.txt":    false,
		".hidden.json": false,
		"json":         false,
	}
	for name, want := range cases {
		if got := IsMessageFile(name); got != want {
			t.Errorf("IsMessageFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestWalk_SymlinkedDirIsMirroredNotFollowed(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "src")
	shared := filepath.Join(base, "shared")
	mkTree(t, src, []string{"game"}, nil)
	mkTree(t, shared, nil, []string{"extra.json"})
	if err := os.Symlink(shared, filepath.Join(src, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	var rels []string
	var top Dir
	for d, err := range Walk(src) {
		if err != nil {
			t.Fatal(err)
		}
		rels = append(rels, d.Rel)
		if d.Rel == "." {
			top = d
		}
	}
	if !reflect.DeepEqual(rels, []string{".", "game"}) {
		t.Fatalf("visit order = %v", rels)
	}
	if !reflect.DeepEqual(top.Subdirs, []string{"game", "linked"}) || !reflect.DeepEqual(top.Links, []string{"linked"}) {
		t.Fatalf("root = %#v", top)
	}
	if len(top.Files) != 0 {
		t.Errorf("symlinked dir counted as file: %v", top.Files)
	}

	dest := filepath.Join(base, "dest")
	p := Pair{Src: src, Dest: dest}
	if _, err := p.Prepare(); err != nil {
		t.Fatal(err)
	}
	if err := p.Mirror(top); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(filepath.Join(dest, "linked")); err != nil || !info.IsDir() {
		t.Fatalf("linked dir not mirrored: %v", err)
	}
}

func TestPrepare_DestIsFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "fr")
	if err := os.WriteFile(dest, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	created, err := Pair{Dest: dest}.Prepare()
	if err == nil || created {
		t.Fatalf("Prepare() = %v, %v, want error", created, err)
	}
}
