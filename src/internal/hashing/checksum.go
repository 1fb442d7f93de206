package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
)

type ChecksumProvider interface {
	GetChecksum() string
}

// ChecksumReaderProxy calculates the SHA-256 digest of data as it is read.
type ChecksumReaderProxy struct {
	reader   io.Reader
	checksum hash.Hash
	size     int64
}

// NewSHA256ReaderProxy wraps reader so every byte read is also hashed.
func NewSHA256ReaderProxy(reader io.Reader) *ChecksumReaderProxy {
	return &ChecksumReaderProxy{
		reader:   reader,
		checksum: sha256.New(),
	}
}

// Read reads from the underlying reader and feeds the bytes into the digest.
func (p *ChecksumReaderProxy) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 {
		// hash.Hash.Write never returns an error
		_, _ = p.checksum.Write(buf[:n])
		p.size += int64(n)
	}
	return n, err
}

// GetChecksum returns the hex-encoded SHA-256 of everything read so far.
func (p *ChecksumReaderProxy) GetChecksum() string {
	return hex.EncodeToString(p.checksum.Sum(nil))
}

// Size returns the number of bytes read so far.
func (p *ChecksumReaderProxy) Size() int64 {
	return p.size
}

// ReadFile reads a whole file and returns its content with its SHA-256.
func ReadFile(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	proxy := NewSHA256ReaderProxy(f)
	content, err := io.ReadAll(proxy)
	if err != nil {
		return nil, "", err
	}
	return content, proxy.GetChecksum(), nil
}

// Sum returns the hex-encoded SHA-256 of data.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
