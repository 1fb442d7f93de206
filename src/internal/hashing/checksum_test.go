package hashing

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sha256("hello world")
const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

type errorReader struct {
	err error
}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, e.err
}

func TestChecksumReaderProxy_ReadAll(t *testing.T) {
	proxy := NewSHA256ReaderProxy(strings.NewReader("hello world"))

	data, err := io.ReadAll(proxy)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("Expected data to pass through unchanged, got %q", string(data))
	}
	if got := proxy.GetChecksum(); got != helloWorldSHA256 {
		t.Errorf("Expected checksum %s, got %s", helloWorldSHA256, got)
	}
	if proxy.Size() != 11 {
		t.Errorf("Expected size 11, got %d", proxy.Size())
	}
}

func TestChecksumReaderProxy_PartialReads(t *testing.T) {
	proxy := NewSHA256ReaderProxy(strings.NewReader("hello world"))

	buf := make([]byte, 3)
	for {
		_, err := proxy.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if got := proxy.GetChecksum(); got != helloWorldSHA256 {
		t.Errorf("Expected checksum %s after partial reads, got %s", helloWorldSHA256, got)
	}
}

func TestChecksumReaderProxy_Error(t *testing.T) {
	wantErr := errors.New("read failed")
	proxy := NewSHA256ReaderProxy(&errorReader{err: wantErr})

	_, err := proxy.Read(make([]byte, 4))
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected read error to propagate, got %v", err)
	}
	if proxy.Size() != 0 {
		t.Errorf("Expected size 0, got %d", proxy.Size())
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocklist.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	content, sum, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(content) != "hello world" {
		t.Errorf("Unexpected content %q", string(content))
	}
	if sum != helloWorldSHA256 || Sum(content) != sum {
		t.Errorf("Unexpected checksum %s", sum)
	}

	if _, _, err := ReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}
