package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"testing"
)

func TestMemoryFileSystemRoundTrip(t *testing.T) {
	m := NewMemoryFileSystem()

	if m.Exists("run01.svg") {
		t.Fatal("file should not exist before write")
	}

	if err := m.WriteFile("run01.svg", []byte("<svg/>"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := m.ReadFile("run01.svg")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("unexpected contents: %q", data)
	}

	info, err := m.Stat("run01.svg")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != int64(len(data)) {
		t.Errorf("size = %d, want %d", info.Size(), len(data))
	}
}

func TestMemoryFileSystemCreateVisibleOnClose(t *testing.T) {
	m := NewMemoryFileSystem()

	w, err := m.Create("figure.png")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.Exists("figure.png") {
		t.Error("file visible before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !m.Exists("figure.png") {
		t.Error("file missing after Close")
	}
}

func TestMemoryFileSystemOpenReader(t *testing.T) {
	m := NewMemoryFileSystem()
	if err := m.WriteFile("export.csv", []byte("a,b,c"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := m.Open("export.csv")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "a,b,c" {
		t.Errorf("unexpected contents: %q", data)
	}
}

func TestMemoryFileSystemMissingFile(t *testing.T) {
	m := NewMemoryFileSystem()

	if _, err := m.Open("absent.asc"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open error = %v, want fs.ErrNotExist", err)
	}
	if _, err := m.ReadFile("absent.asc"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
	if _, err := m.Stat("absent.asc"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat error = %v, want fs.ErrNotExist", err)
	}
}
