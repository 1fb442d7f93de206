package lists

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maksimkurb/blocklist-attest/src/internal/hashing"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
)

func TestDownload(t *testing.T) {
	log.DisableLogs()
	defer log.EnableLogs()

	content := "0.0.0.0 a.com\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blocklist.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()

	data, sum, err := Download(context.Background(), server.URL+"/blocklist.txt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != content {
		t.Errorf("Content = %q", data)
	}
	if sum != hashing.Sum([]byte(content)) {
		t.Errorf("Checksum = %s, want %s", sum, hashing.Sum([]byte(content)))
	}

	if _, _, err := Download(context.Background(), server.URL+"/missing"); err == nil {
		t.Errorf("Expected error for 404 response")
	}
}
