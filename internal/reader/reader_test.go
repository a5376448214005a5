package reader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeDataFile writes raw bytes to a temp file and returns its path.
func writeDataFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales_data.txt")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

var defaultEncodings = []string{"utf-8", "latin-1", "cp1252"}

func TestReadLines(t *testing.T) {
	header := strings.Join(HeaderFields, "|")

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "header is stripped",
			content: header + "\nT1|2024-01-15|P101|Laptop|2|45000|C001|North\n",
			want:    []string{"T1|2024-01-15|P101|Laptop|2|45000|C001|North"},
		},
		{
			name: "blank lines are dropped",
			content: header + "\n\nT1|2024-01-15|P101|Laptop|2|45000|C001|North\n   \n" +
				"T2|2024-01-16|P102|Mouse|5|200|C002|South\n\n",
			want: []string{
				"T1|2024-01-15|P101|Laptop|2|45000|C001|North",
				"T2|2024-01-16|P102|Mouse|5|200|C002|South",
			},
		},
		{
			name:    "windows line endings",
			content: header + "\r\nT1|2024-01-15|P101|Laptop|2|45000|C001|North\r\n",
			want:    []string{"T1|2024-01-15|P101|Laptop|2|45000|C001|North"},
		},
		{
			name:    "utf-8 byte order mark",
			content: "\uFEFF" + header + "\nT1|2024-01-15|P101|Laptop|2|45000|C001|North\n",
			want:    []string{"T1|2024-01-15|P101|Laptop|2|45000|C001|North"},
		},
		{
			name:    "header only",
			content: header + "\n",
			want:    []string{},
		},
		{
			name:    "empty file",
			content: "",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDataFile(t, []byte(tt.content))

			got, err := ReadLines(path, defaultEncodings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ReadLines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadLinesLatin1Fallback(t *testing.T) {
	// "Café" in ISO 8859-1: é is 0xE9, invalid as UTF-8.
	content := []byte("Header\nT1|2024-01-15|P101|Caf\xe9|2|45000|C001|North\n")
	path := writeDataFile(t, content)

	got, err := ReadLines(path, defaultEncodings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d lines, want 1", len(got))
	}
	if !strings.Contains(got[0], "Café") {
		t.Errorf("latin-1 content not decoded: %q", got[0])
	}
}

func TestReadLinesCP1252(t *testing.T) {
	// 0x93/0x94 are curly quotes in Windows-1252.
	content := []byte("Header\nT1|2024-01-15|P101|\x93Pro\x94 Stand|1|700|C001|East\n")
	path := writeDataFile(t, content)

	got, err := ReadLines(path, []string{"utf-8", "cp1252"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got[0], "“Pro” Stand") {
		t.Errorf("cp1252 content not decoded: %q", got[0])
	}
}

func TestReadLinesUndecodable(t *testing.T) {
	path := writeDataFile(t, []byte("Header\nT1|bad \xff byte\n"))

	_, err := ReadLines(path, []string{"utf-8"})
	if !errors.Is(err, ErrUndecodable) {
		t.Errorf("error = %v, want ErrUndecodable", err)
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "missing.txt"), defaultEncodings)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
