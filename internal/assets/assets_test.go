package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mechanicchickendev/froggi/pkg/pack"
)

func writePack(t *testing.T, files map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.fpak")
	w, err := pack.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for name, data := range files {
		if err := w.Add(name, data); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestLoadFromLooseDir(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "models"), 0o755)
	want := []byte("v 0 0 0\n")
	os.WriteFile(filepath.Join(dir, "models", "cube.obj"), want, 0o644)

	lib := NewLibrary(dir)
	defer lib.Close()

	got, err := lib.Load("models/cube.obj")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("loose file content mismatch")
	}
	if !lib.Exists("models/cube.obj") {
		t.Error("Exists should see the loose file")
	}
	if lib.Exists("models/missing.obj") {
		t.Error("Exists should not see a missing file")
	}
}

func TestLoadFromPack(t *testing.T) {
	packPath := writePack(t, map[string][]byte{"sounds/jump.wav": []byte("RIFF")})

	lib := NewLibrary("")
	defer lib.Close()
	if err := lib.AddPack(packPath); err != nil {
		t.Fatalf("AddPack: %v", err)
	}

	got, err := lib.Load("sounds/jump.wav")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "RIFF" {
		t.Errorf("pack content = %q", got)
	}
}

func TestLooseFilesShadowPacks(t *testing.T) {
	packPath := writePack(t, map[string][]byte{"a.txt": []byte("packed")})
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("loose"), 0o644)

	lib := NewLibrary(dir)
	defer lib.Close()
	if err := lib.AddPack(packPath); err != nil {
		t.Fatalf("AddPack: %v", err)
	}

	got, err := lib.Load("a.txt")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "loose" {
		t.Errorf("got %q, loose file should win", got)
	}
}

func TestLoadCaches(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("1"), 0o644)

	lib := NewLibrary(dir)
	defer lib.Close()

	if _, err := lib.Load("a.txt"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	// A second load must not touch the disk again.
	os.Remove(filepath.Join(dir, "a.txt"))
	if _, err := lib.Load("a.txt"); err != nil {
		t.Errorf("cached load failed: %v", err)
	}

	hits, misses := lib.cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits %d misses, want 1 and 1", hits, misses)
	}
}

func TestParseManifest(t *testing.T) {
	data := []byte(`
models:
  - name: cube
    file: models/cube.obj
textures:
  - name: grid
    file: textures/grid.png
sounds:
  - name: jump
    file: sounds/jump.wav
music: sounds/theme.wav
`)
	m, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(m.Models) != 1 || m.Models[0].Name != "cube" {
		t.Errorf("models = %+v", m.Models)
	}
	if m.Music != "sounds/theme.wav" {
		t.Errorf("music = %q", m.Music)
	}
}

func TestParseManifestRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"missing file":   "models:\n  - name: cube\n",
		"missing name":   "sounds:\n  - file: a.wav\n",
		"duplicate name": "models:\n  - {name: a, file: x}\n  - {name: a, file: y}\n",
		"bad yaml":       ":\n  - not yaml",
	}
	for label, src := range cases {
		if _, err := ParseManifest([]byte(src)); err == nil {
			t.Errorf("%s: want error", label)
		}
	}
}
