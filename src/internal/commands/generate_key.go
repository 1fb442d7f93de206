package commands

import (
	"crypto/rand"
	"flag"
	"io"
	"strings"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/signing"
)

func CreateGenerateKeyCommand() *GenerateKeyCommand {
	return &GenerateKeyCommand{
		fs:      flag.NewFlagSet("generate-key", flag.ExitOnError),
		entropy: rand.Reader,
	}
}

// GenerateKeyCommand prints a fresh Ed25519 seed and its public key. It
// reads and writes no files.
type GenerateKeyCommand struct {
	fs      *flag.FlagSet
	entropy io.Reader
	keyEnv  string
}

func (c *GenerateKeyCommand) Name() string {
	return c.fs.Name()
}

func (c *GenerateKeyCommand) Init(args []string, ctx *AppContext) error {
	c.fs.StringVar(&c.keyEnv, "key-env", config.DefaultKeyEnv, "Variable name used in the printed export line")
	return c.fs.Parse(args)
}

func (c *GenerateKeyCommand) Run() error {
	seed, pub, err := signing.GenerateKey(c.entropy)
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", 72)
	log.Printf("%s\n", rule)
	log.Printf("NEW Ed25519 KEYPAIR GENERATED\n")
	log.Printf("%s\n\n", rule)
	log.Printf("PRIVATE KEY SEED (keep secret, set as environment variable):\n")
	log.Printf("  export %s=%s\n\n", c.keyEnv, signing.EncodeBase64(seed))
	log.Printf("PUBLIC KEY (embed in clients for verification):\n")
	log.Printf("  Hex:    %s\n", signing.EncodeHex(pub))
	log.Printf("  Base64: %s\n\n", signing.EncodeBase64(pub))
	log.Printf("Store the private key seed in your CI secrets or a password manager.\n")
	log.Printf("Never commit it to the repository.\n")
	log.Printf("%s\n", rule)
	return nil
}
