package images

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://example.com/a.jpg") || !IsURL("http://example.com/a.jpg") {
		t.Error("http(s) paths should be URLs")
	}
	if IsURL("images/1/2.jpg") || IsURL("/abs/path.png") {
		t.Error("file paths should not be URLs")
	}
}

func TestSaveLocal(t *testing.T) {
	dataDir := t.TempDir()
	s := NewStorage(dataDir)

	t.Run("stores a png under the vault dir", func(t *testing.T) {
		src := writeTemp(t, "cover.png", pngHeader)
		rel, err := s.SaveLocal(1, 2, src)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(rel, "images/") || !strings.HasSuffix(rel, ".png") {
			t.Errorf("unexpected relative path %q", rel)
		}
		if _, err := os.Stat(s.FullPath(rel)); err != nil {
			t.Errorf("stored file missing: %v", err)
		}
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		src := writeTemp(t, "notes.txt", []byte("plain text, not an image"))
		if _, err := s.SaveLocal(1, 2, src); err == nil {
			t.Error("expected format error")
		}
	})

	t.Run("rejects missing source", func(t *testing.T) {
		if _, err := s.SaveLocal(1, 2, filepath.Join(dataDir, "nope.png")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("replacing a cover yields a distinct name", func(t *testing.T) {
		src := writeTemp(t, "cover.png", pngHeader)
		first, err := s.SaveLocal(1, 2, src)
		if err != nil {
			t.Fatal(err)
		}
		second, err := s.SaveLocal(1, 2, src)
		if err != nil {
			t.Fatal(err)
		}
		if first == second {
			t.Errorf("expected unique names, both %q", first)
		}
	})
}

func TestDelete(t *testing.T) {
	s := NewStorage(t.TempDir())

	t.Run("removes a stored file", func(t *testing.T) {
		src := writeTemp(t, "cover.png", pngHeader)
		rel, err := s.SaveLocal(1, 2, src)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(rel); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(s.FullPath(rel)); !os.IsNotExist(err) {
			t.Error("file should be gone")
		}
	})

	t.Run("urls and missing files are no-ops", func(t *testing.T) {
		if err := s.Delete("https://example.com/a.jpg"); err != nil {
			t.Error(err)
		}
		if err := s.Delete("images/1/never-there.png"); err != nil {
			t.Error(err)
		}
		if err := s.Delete(""); err != nil {
			t.Error(err)
		}
	})
}
