package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSave(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	url, err := store.Save("proof.PNG", strings.NewReader("fake image bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("Unexpected upload URL %q", url)
	}

	// The stored file carries a random name, never the client's.
	name := strings.TrimPrefix(url, "/uploads/")
	if name == "proof.png" {
		t.Error("Expected randomized filename")
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("Failed to read stored file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("Stored content mismatch: %q", string(data))
	}
}

func TestSave_RejectsUnsupportedExtension(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore failed: %v", err)
	}

	if _, err := store.Save("malware.exe", strings.NewReader("nope")); err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
	if _, err := store.Save("../../etc/passwd", strings.NewReader("nope")); err == nil {
		t.Fatal("Expected error for extensionless traversal name")
	}
}
