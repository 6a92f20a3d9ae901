package pack

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func buildPack(t *testing.T, files map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.fpak")

	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for name, data := range files {
		if err := w.Add(name, data); err != nil {
			t.Fatalf("Add %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestRoundTrip(t *testing.T) {
	files := map[string][]byte{
		"models/cube.obj":   []byte(strings.Repeat("v 0 0 0\n", 100)),
		"textures/grid.png": []byte("fake png bytes"),
		"manifest.yaml":     []byte("models: []\n"),
	}
	path := buildPack(t, files)

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if got := len(a.List()); got != len(files) {
		t.Errorf("List length = %d, want %d", got, len(files))
	}
	for name, want := range files {
		if !a.Contains(name) {
			t.Errorf("Contains(%s) = false", name)
		}
		got, err := a.Read(name)
		if err != nil {
			t.Fatalf("Read %s: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Read %s returned wrong data", name)
		}
	}
}

func TestCompressibleDataShrinks(t *testing.T) {
	data := bytes.Repeat([]byte("froggi "), 1000)
	path := buildPack(t, map[string][]byte{"big.txt": data})

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	e, ok := a.Stat("big.txt")
	if !ok {
		t.Fatal("Stat: entry missing")
	}
	if e.CompressedSize >= e.RawSize {
		t.Errorf("compressed %d >= raw %d", e.CompressedSize, e.RawSize)
	}
}

func TestIncompressibleDataStoredRaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]byte, 4096)
	rng.Read(data)
	path := buildPack(t, map[string][]byte{"noise.bin": data})

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	e, _ := a.Stat("noise.bin")
	if e.CompressedSize != e.RawSize {
		t.Errorf("random data should be stored, got %d vs %d", e.CompressedSize, e.RawSize)
	}
	got, err := a.Read("noise.bin")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("stored data came back wrong")
	}
}

func TestPathNormalization(t *testing.T) {
	path := buildPack(t, map[string][]byte{`models\cube.obj`: []byte("x")})

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if !a.Contains("models/cube.obj") {
		t.Error("backslash path should normalize to forward slashes")
	}
	if !a.Contains("/models/cube.obj") {
		t.Error("leading slash should be stripped on lookup")
	}
}

func TestDuplicateAndEmptyNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.fpak")
	w, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer w.Close()

	if err := w.Add("a.txt", []byte("1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := w.Add("a.txt", []byte("2")); err == nil {
		t.Error("duplicate name should be rejected")
	}
	if err := w.Add("", []byte("x")); err == nil {
		t.Error("empty name should be rejected")
	}
}

func TestReadMissingFile(t *testing.T) {
	path := buildPack(t, map[string][]byte{"a.txt": []byte("1")})

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if _, err := a.Read("missing.txt"); err == nil {
		t.Error("reading a missing file should fail")
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.fpak")
	if err := os.WriteFile(path, []byte("this is not a pack file at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("garbage file should not open")
	}
}

func TestEmptyArchive(t *testing.T) {
	path := buildPack(t, nil)

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()

	if len(a.List()) != 0 {
		t.Errorf("empty archive lists %d files", len(a.List()))
	}
}
