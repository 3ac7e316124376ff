package checksum

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSumMatchesKnownDigest(t *testing.T) {
	got, err := Sum(strings.NewReader("The quick brown fox jumps over the lazy dog"))
	if err != nil {
		t.Fatalf("Sum returned error: %v", err)
	}
	want := "9e107d9d372bb6826bd81d3542a419d6"
	if got != want {
		t.Fatalf("Sum = %s, want %s", got, want)
	}
}

func TestSumEmptyInput(t *testing.T) {
	got, err := Sum(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Sum returned error: %v", err)
	}
	if got != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Fatalf("unexpected digest for empty input: %s", got)
	}
}

func TestFileReadsContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recording.bin")
	if err := os.WriteFile(path, []byte("The quick brown fox jumps over the lazy dog"), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	got, err := File(path)
	if err != nil {
		t.Fatalf("File returned error: %v", err)
	}
	if got != "9e107d9d372bb6826bd81d3542a419d6" {
		t.Fatalf("unexpected file digest: %s", got)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
