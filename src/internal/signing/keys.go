package signing

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/utils"
)

const (
	// Algorithm is the only supported signature algorithm identifier.
	Algorithm = "ed25519"

	// SeedSize is the length of an Ed25519 private key seed.
	SeedSize = ed25519.SeedSize

	generateKeyHint = "generate one with: blocklist generate-key"
)

// DecodeSeed decodes a base64 seed and checks it is exactly 32 bytes.
func DecodeSeed(raw string) ([]byte, error) {
	return decodeSeed("signing key", raw)
}

func decodeSeed(name, raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.NewConfigError(fmt.Sprintf("%s is empty; %s", name, generateKeyHint), nil)
	}

	seed, err := base64.StdEncoding.Strict().DecodeString(raw)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf(
			"%s could not be base64-decoded; expected a base64-encoded %d-byte Ed25519 seed, %s",
			name, SeedSize, generateKeyHint), err)
	}
	if len(seed) != SeedSize {
		return nil, errors.NewConfigError(fmt.Sprintf(
			"%s decoded to %d bytes; expected %d (Ed25519 seeds are exactly %d bytes), %s",
			name, len(seed), SeedSize, SeedSize, generateKeyHint), nil)
	}
	return seed, nil
}

// LoadSeedFromEnv reads the seed from the environment variable name. When the
// variable is unset and envFile exists, the value is read from that dotenv
// file instead. The process environment is never modified.
func LoadSeedFromEnv(name, envFile string) ([]byte, error) {
	raw, ok := os.LookupEnv(name)
	if (!ok || strings.TrimSpace(raw) == "") && envFile != "" && utils.FileExists(envFile) {
		values, err := godotenv.Read(envFile)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to parse env file %s", envFile), err)
		}
		if v, found := values[name]; found {
			log.Debugf("Using %s from %s", name, envFile)
			raw = v
		}
	}

	if strings.TrimSpace(raw) == "" {
		return nil, errors.NewConfigError(fmt.Sprintf(
			"%s environment variable is not set; generate a keypair with: blocklist generate-key, "+
				"then export %s=<your-base64-encoded-seed>", name, name), nil)
	}
	return decodeSeed(name, raw)
}

// PublicKey derives the public key from a 32-byte seed.
func PublicKey(seed []byte) (ed25519.PublicKey, error) {
	if len(seed) != SeedSize {
		return nil, errors.NewConfigError(fmt.Sprintf("seed is %d bytes; expected %d", len(seed), SeedSize), nil)
	}
	return ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey), nil
}

// Sign signs data with the key derived from seed.
func Sign(data, seed []byte) ([]byte, error) {
	if len(seed) != SeedSize {
		return nil, errors.NewConfigError(fmt.Sprintf("seed is %d bytes; expected %d", len(seed), SeedSize), nil)
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(seed), data), nil
}

// Verify reports whether sig is a valid signature of data by pub. Keys and
// signatures of the wrong length are simply invalid.
func Verify(data, sig []byte, pub ed25519.PublicKey) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, data, sig)
}

// GenerateKey creates a new seed and its public key using entropy from rand.
func GenerateKey(rand io.Reader) ([]byte, ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, nil, errors.NewInternalError("failed to generate keypair", err)
	}
	return priv.Seed(), pub, nil
}

// ParsePublicKey accepts a 32-byte public key in hex or base64.
func ParsePublicKey(s string) (ed25519.PublicKey, error) {
	s = strings.TrimSpace(s)
	if b, err := hex.DecodeString(s); err == nil && len(b) == ed25519.PublicKeySize {
		return ed25519.PublicKey(b), nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.NewConfigError("public key is neither hex nor base64", err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, errors.NewConfigError(fmt.Sprintf(
			"public key decoded to %d bytes; expected %d", len(b), ed25519.PublicKeySize), nil)
	}
	return ed25519.PublicKey(b), nil
}

// EncodeBase64 returns the standard base64 form of b.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// EncodeHex returns the lowercase hex form of b.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}
