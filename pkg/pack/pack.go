// Package pack reads and writes froggi asset pack archives.
//
// A pack is a flat archive of zlib-compressed files with an index at
// the end. Layout:
//
//	header:  magic "FPAK", version uint32, indexOffset uint32, count uint32
//	entries: compressed (or stored) file bodies, back to back
//	index:   compressedSize uint32, rawSize uint32, zlib index records
//
// Each index record is nameLen uint16, name bytes, offset uint32,
// compressedSize uint32, rawSize uint32. All integers little endian.
package pack

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

const (
	magic      = "FPAK"
	version    = 1
	headerSize = 16
)

// Entry describes one file in the archive.
type Entry struct {
	Name           string
	Offset         uint32
	CompressedSize uint32
	RawSize        uint32
}

// Archive is an opened pack, safe for reads from one goroutine.
type Archive struct {
	file    *os.File
	entries map[string]*Entry
}

// Open reads the header and index of a pack file.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pack: %w", err)
	}

	a := &Archive{
		file:    file,
		entries: make(map[string]*Entry),
	}
	if err := a.readIndex(); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading pack index: %w", err)
	}
	return a, nil
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}

func (a *Archive) readIndex() error {
	var header struct {
		Magic       [4]byte
		Version     uint32
		IndexOffset uint32
		Count       uint32
	}
	if _, err := a.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Read(a.file, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	if string(header.Magic[:]) != magic {
		return fmt.Errorf("not a pack file")
	}
	if header.Version != version {
		return fmt.Errorf("unsupported pack version %d", header.Version)
	}

	if _, err := a.file.Seek(int64(header.IndexOffset), io.SeekStart); err != nil {
		return err
	}
	var compressedSize, rawSize uint32
	if err := binary.Read(a.file, binary.LittleEndian, &compressedSize); err != nil {
		return err
	}
	if err := binary.Read(a.file, binary.LittleEndian, &rawSize); err != nil {
		return err
	}

	compressed := make([]byte, compressedSize)
	if _, err := io.ReadFull(a.file, compressed); err != nil {
		return err
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return err
	}
	defer zr.Close()
	index := make([]byte, rawSize)
	if _, err := io.ReadFull(zr, index); err != nil {
		return err
	}

	offset := 0
	for i := uint32(0); i < header.Count; i++ {
		if offset+2 > len(index) {
			return fmt.Errorf("truncated index")
		}
		nameLen := int(binary.LittleEndian.Uint16(index[offset:]))
		offset += 2
		if offset+nameLen+12 > len(index) {
			return fmt.Errorf("truncated index")
		}
		e := &Entry{
			Name:           string(index[offset : offset+nameLen]),
			Offset:         binary.LittleEndian.Uint32(index[offset+nameLen:]),
			CompressedSize: binary.LittleEndian.Uint32(index[offset+nameLen+4:]),
			RawSize:        binary.LittleEndian.Uint32(index[offset+nameLen+8:]),
		}
		offset += nameLen + 12
		a.entries[e.Name] = e
	}
	return nil
}

// List returns every file path in the archive, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.entries))
	for name := range a.entries {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Contains reports whether the archive holds the given file.
func (a *Archive) Contains(path string) bool {
	_, ok := a.entries[NormalizePath(path)]
	return ok
}

// Stat returns the entry for a file.
func (a *Archive) Stat(path string) (Entry, bool) {
	e, ok := a.entries[NormalizePath(path)]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Read extracts one file from the archive.
func (a *Archive) Read(path string) ([]byte, error) {
	e, ok := a.entries[NormalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	if _, err := a.file.Seek(int64(e.Offset), io.SeekStart); err != nil {
		return nil, err
	}
	body := make([]byte, e.CompressedSize)
	if _, err := io.ReadFull(a.file, body); err != nil {
		return nil, err
	}

	// Incompressible files are stored raw.
	if e.CompressedSize == e.RawSize {
		return body, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	result := make([]byte, e.RawSize)
	if _, err := io.ReadFull(zr, result); err != nil {
		return nil, err
	}
	return result, nil
}

// NormalizePath maps a file path onto the archive key form: forward
// slashes, no leading slash.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimPrefix(path, "/")
}

// Writer builds a pack file. Add every file, then Close to write the
// index.
type Writer struct {
	file    *os.File
	offset  uint32
	entries []*Entry
	names   map[string]bool
}

// Create starts a new pack file at path, truncating any existing one.
func Create(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating pack: %w", err)
	}
	// Header placeholder, patched on Close.
	if _, err := file.Write(make([]byte, headerSize)); err != nil {
		file.Close()
		return nil, err
	}
	return &Writer{
		file:   file,
		offset: headerSize,
		names:  make(map[string]bool),
	}, nil
}

// Add compresses and appends one file.
func (w *Writer) Add(name string, data []byte) error {
	name = NormalizePath(name)
	if name == "" {
		return fmt.Errorf("empty file name")
	}
	if len(name) > 0xffff {
		return fmt.Errorf("file name too long: %s", name)
	}
	if w.names[name] {
		return fmt.Errorf("duplicate file: %s", name)
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	// Store raw when compression does not pay off. The reader tells
	// the cases apart by comparing the sizes, so a compressed body
	// must be strictly smaller.
	body := buf.Bytes()
	if len(body) >= len(data) {
		body = data
	}

	if _, err := w.file.Write(body); err != nil {
		return err
	}
	w.entries = append(w.entries, &Entry{
		Name:           name,
		Offset:         w.offset,
		CompressedSize: uint32(len(body)),
		RawSize:        uint32(len(data)),
	})
	w.names[name] = true
	w.offset += uint32(len(body))
	return nil
}

// AddFile reads a file from disk and adds it under name.
func (w *Writer) AddFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return w.Add(name, data)
}

// Close writes the index and header and closes the file.
func (w *Writer) Close() error {
	var index bytes.Buffer
	for _, e := range w.entries {
		var rec [2]byte
		binary.LittleEndian.PutUint16(rec[:], uint16(len(e.Name)))
		index.Write(rec[:])
		index.WriteString(e.Name)
		var nums [12]byte
		binary.LittleEndian.PutUint32(nums[0:], e.Offset)
		binary.LittleEndian.PutUint32(nums[4:], e.CompressedSize)
		binary.LittleEndian.PutUint32(nums[8:], e.RawSize)
		index.Write(nums[:])
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(index.Bytes()); err != nil {
		w.file.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		w.file.Close()
		return err
	}

	var sizes [8]byte
	binary.LittleEndian.PutUint32(sizes[0:], uint32(compressed.Len()))
	binary.LittleEndian.PutUint32(sizes[4:], uint32(index.Len()))
	if _, err := w.file.Write(sizes[:]); err != nil {
		w.file.Close()
		return err
	}
	if _, err := w.file.Write(compressed.Bytes()); err != nil {
		w.file.Close()
		return err
	}

	var header [headerSize]byte
	copy(header[0:], magic)
	binary.LittleEndian.PutUint32(header[4:], version)
	binary.LittleEndian.PutUint32(header[8:], w.offset)
	binary.LittleEndian.PutUint32(header[12:], uint32(len(w.entries)))
	if _, err := w.file.WriteAt(header[:], 0); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
