package lists

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/hashing"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
)

const (
	downloadTimeout = 30 * time.Second
	maxDownloadSize = 64 << 20
)

// Download fetches a published blocklist or signature and returns its bytes
// with their SHA-256. Bodies larger than 64 MiB are rejected.
func Download(ctx context.Context, url string) ([]byte, string, error) {
	log.Infof("Downloading %s", url)

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download %s: %s", url, resp.Status)
	}

	bodyProxy := hashing.NewSHA256ReaderProxy(io.LimitReader(resp.Body, maxDownloadSize+1))
	content, err := io.ReadAll(bodyProxy)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if bodyProxy.Size() > maxDownloadSize {
		return nil, "", fmt.Errorf("response from %s exceeds %d bytes", url, maxDownloadSize)
	}

	log.Debugf("Downloaded %d bytes from %s (sha256 %s)", bodyProxy.Size(), url, bodyProxy.GetChecksum())
	return content, bodyProxy.GetChecksum(), nil
}
