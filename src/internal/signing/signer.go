package signing

import (
	"crypto/ed25519"
	"fmt"
	"os"

	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/hashing"
)

// Signer signs with one seed and refuses to publish a signature that does not
// verify against its own public key.
type Signer struct {
	pub  ed25519.PublicKey
	sign func(data []byte) []byte
}

// SignResult describes a signature written by SignFile.
type SignResult struct {
	Signature []byte
	PublicKey ed25519.PublicKey
	// Checksum is the hex SHA-256 of the signed bytes.
	Checksum string
	Size     int
}

// NewSigner validates seed and prepares a signer.
func NewSigner(seed []byte) (*Signer, error) {
	pub, err := PublicKey(seed)
	if err != nil {
		return nil, err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &Signer{
		pub: pub,
		sign: func(data []byte) []byte {
			return ed25519.Sign(priv, data)
		},
	}, nil
}

// PublicKey returns the key that verifies this signer's signatures.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.pub
}

// Sign signs data and checks the result against the derived public key.
func (s *Signer) Sign(data []byte) ([]byte, error) {
	sig := s.sign(data)
	if !Verify(data, sig, s.pub) {
		return nil, errors.NewInternalError(
			"self-verification failed: the new signature does not verify against the derived public key", nil)
	}
	return sig, nil
}

// SignFile signs the bytes of blocklistPath and writes the artifact to
// sigPath. Nothing is written when self-verification fails.
func (s *Signer) SignFile(blocklistPath, sigPath string) (*SignResult, error) {
	data, sum, err := hashing.ReadFile(blocklistPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError(fmt.Sprintf("blocklist not found at %s", blocklistPath), err)
		}
		return nil, errors.NewSignatureError("failed to read blocklist", err)
	}

	sig, err := s.Sign(data)
	if err != nil {
		return nil, err
	}
	if err := WriteArtifact(sigPath, NewArtifact(sig)); err != nil {
		return nil, err
	}

	return &SignResult{
		Signature: sig,
		PublicKey: s.pub,
		Checksum:  sum,
		Size:      len(data),
	}, nil
}
