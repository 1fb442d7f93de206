package signing

import (
	"crypto/ed25519"
	"fmt"
	"os"

	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/hashing"
)

// InvalidSignatureMessage describes a failed verification.
const InvalidSignatureMessage = "signature is INVALID; the blocklist may have been tampered with"

// VerifyResult describes a successful verification.
type VerifyResult struct {
	Checksum string
	Size     int
}

// VerifyBytes checks data against a serialized artifact. It returns a
// verification error when the signature does not match.
func VerifyBytes(data, artifact []byte, pub ed25519.PublicKey) error {
	a, err := ParseArtifact(artifact)
	if err != nil {
		return err
	}
	return verifyArtifact(data, a, pub)
}

// VerifyFile checks the blocklist at blocklistPath against the signature file
// at sigPath. Missing files are configuration errors.
func VerifyFile(blocklistPath, sigPath string, pub ed25519.PublicKey) (*VerifyResult, error) {
	data, sum, err := hashing.ReadFile(blocklistPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError(fmt.Sprintf("blocklist not found at %s", blocklistPath), err)
		}
		return nil, errors.NewSignatureError("failed to read blocklist", err)
	}

	a, err := ReadArtifact(sigPath)
	if err != nil {
		return nil, err
	}
	if err := verifyArtifact(data, a, pub); err != nil {
		return nil, err
	}
	return &VerifyResult{Checksum: sum, Size: len(data)}, nil
}

func verifyArtifact(data []byte, a *Artifact, pub ed25519.PublicKey) error {
	if !Verify(data, a.Signature, pub) {
		return errors.NewVerificationError(InvalidSignatureMessage)
	}
	return nil
}
