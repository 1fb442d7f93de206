package signing

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/utils"
)

// Artifact is the content of a detached signature file.
type Artifact struct {
	Algorithm string
	Signature []byte
}

// NewArtifact wraps an Ed25519 signature.
func NewArtifact(sig []byte) *Artifact {
	return &Artifact{Algorithm: Algorithm, Signature: sig}
}

// Marshal renders the two-line text form.
func (a *Artifact) Marshal() []byte {
	return []byte(fmt.Sprintf("algorithm: %s\nsignature: %s\n", a.Algorithm, EncodeBase64(a.Signature)))
}

// ParseArtifact reads "key: value" lines. Lines without a colon and unknown
// keys are ignored. An algorithm other than ed25519 is a configuration
// error; a missing or undecodable signature is a verification failure.
func ParseArtifact(data []byte) (*Artifact, error) {
	fields := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	alg := fields["algorithm"]
	if alg != Algorithm {
		return nil, errors.NewConfigError(fmt.Sprintf(
			"unsupported algorithm %q in signature file; only %q is supported", alg, Algorithm), nil)
	}

	encoded, ok := fields["signature"]
	if !ok || encoded == "" {
		return nil, errors.NewVerificationError("signature file has no signature field")
	}
	sig, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.NewVerificationError("signature field is not valid base64")
	}
	return &Artifact{Algorithm: alg, Signature: sig}, nil
}

// ReadArtifact loads and parses the signature file at path.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError(fmt.Sprintf(
				"signature file not found at %s; sign the blocklist first with: blocklist sign", path), err)
		}
		return nil, errors.NewSignatureError("failed to read signature file", err)
	}
	return ParseArtifact(data)
}

// WriteArtifact atomically writes a to path.
func WriteArtifact(path string, a *Artifact) error {
	if err := utils.WriteFileAtomic(path, a.Marshal(), 0644); err != nil {
		return errors.NewSignatureError(fmt.Sprintf("failed to write signature file %s", path), err)
	}
	return nil
}
