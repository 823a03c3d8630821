package archive

import (
	"archive/zip"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func createZip(t *testing.T, entries ...string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, name := range entries {
		if strings.HasSuffix(name, "/") {
			hdr := &zip.FileHeader{Name: name}
			hdr.SetMode(os.ModeDir | 0755)
			if _, err := w.CreateHeader(hdr); err != nil {
				t.Fatalf("Failed to create directory %s: %v", name, err)
			}
			continue
		}
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte("content of " + name)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return zipPath
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml")
}

func TestWalk(t *testing.T) {
	zipPath := createZip(t,
		"cards/p10.yaml",
		"cards/p2.yaml",
		"cards/",
		"cards/main.css",
		"readme.txt",
	)

	tests := []struct {
		name  string
		match func(string) bool
		want  []string
	}{
		{"descriptions", isYAML, []string{"cards/p2.yaml", "cards/p10.yaml"}},
		{"everything", nil, []string{"cards/main.css", "cards/p2.yaml", "cards/p10.yaml", "readme.txt"}},
		{"nothing", func(string) bool { return false }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.match, func(archive string, fsys fs.FS, file *zip.File) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if strings.Join(visited, ",") != strings.Join(tt.want, ",") {
				t.Errorf("visited %v, want %v", visited, tt.want)
			}
		})
	}
}

func TestWalk_ArchiveFS(t *testing.T) {
	zipPath := createZip(t, "cards/page.yaml", "cards/styles/main.css")

	err := Walk(zipPath, isYAML, func(_ string, fsys fs.FS, _ *zip.File) error {
		data, err := fs.ReadFile(fsys, "cards/styles/main.css")
		if err != nil {
			return err
		}
		if string(data) != "content of cards/styles/main.css" {
			t.Errorf("content = %q", data)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := createZip(t, "a.yaml", "b.yaml", "c.yaml")

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, isYAML, func(string, fs.FS, *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	noop := func(string, fs.FS, *zip.File) error { return nil }

	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk("/nonexistent/file.zip", nil, noop); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		if err := Walk(invalidZip, nil, noop); err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		zipPath := createZip(t, "ok.yaml", "../evil.yaml")
		var visited int
		err := Walk(zipPath, nil, func(string, fs.FS, *zip.File) error {
			visited++
			return nil
		})
		if err == nil {
			t.Error("Expected error for unsafe entry")
		}
		if visited != 0 {
			t.Errorf("visited %d files of unsafe archive", visited)
		}
	})
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"cards/page.yaml", true},
		{"page..yaml", true},
		{"/etc/passwd", false},
		{`\windows\system32`, false},
		{"cards/../../page.yaml", false},
		{`cards\..\page.yaml`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
