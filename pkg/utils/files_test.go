package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "C.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := ListFiles(dir, []string{".png", ".jpg"})
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	want := []string{"a.jpg", "b.PNG", "C.png"}
	if len(got) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), got)
	}
	for i, w := range want {
		if filepath.Base(got[i]) != w {
			t.Errorf("file %d: expected %s, got %s", i, w, filepath.Base(got[i]))
		}
	}
}

func TestListFilesMissingDir(t *testing.T) {
	if _, err := ListFiles(filepath.Join(t.TempDir(), "missing"), []string{".png"}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestTempPathIsUniqueSibling(t *testing.T) {
	p := filepath.Join("out", "final.wav")
	a, b := TempPath(p), TempPath(p)
	if a == b {
		t.Errorf("temp paths should differ, both %s", a)
	}
	if filepath.Dir(a) != "out" {
		t.Errorf("temp path should live next to target, got %s", a)
	}
	if !strings.HasSuffix(a, ".wav") {
		t.Errorf("temp path should keep extension, got %s", a)
	}
}

func TestGenerateUUID(t *testing.T) {
	id := GenerateUUID()
	if len(id) != 36 || id[14] != '4' {
		t.Errorf("expected version 4 UUID, got %s", id)
	}
}
