package commands

import (
	"crypto/ed25519"
	"flag"
	"strings"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/lists"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/signing"
	"github.com/maksimkurb/blocklist-attest/src/internal/utils"
)

func CreateVerifyCommand() *VerifyCommand {
	return &VerifyCommand{
		fs: flag.NewFlagSet("verify", flag.ExitOnError),
	}
}

// VerifyCommand checks the blocklist against its detached signature.
type VerifyCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config

	listPath  string
	sigPath   string
	publicKey string
	url       string
}

func (c *VerifyCommand) Name() string {
	return c.fs.Name()
}

func (c *VerifyCommand) Init(args []string, ctx *AppContext) error {
	c.fs.StringVar(&c.listPath, "blocklist", "", "Blocklist file (overrides config)")
	c.fs.StringVar(&c.sigPath, "signature", "", "Signature file (overrides config)")
	c.fs.StringVar(&c.publicKey, "public-key", "", "Public key, base64 or hex (default: derived from the signing seed)")
	c.fs.StringVar(&c.url, "url", "", "Verify a published blocklist; the signature is fetched from <url>.sig")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfigOrFail(ctx)
	if err != nil {
		return err
	}
	if err := applyPathFlags(cfg, c.listPath, c.sigPath); err != nil {
		return err
	}
	if c.publicKey != "" {
		cfg.Signing.PublicKey = c.publicKey
	}
	if c.url != "" && !strings.HasPrefix(c.url, "http://") && !strings.HasPrefix(c.url, "https://") {
		return errors.NewConfigError("-url must be an http:// or https:// URL", nil)
	}
	if err := validateConfigOrFail(cfg); err != nil {
		return err
	}

	c.cfg = cfg
	return nil
}

func (c *VerifyCommand) Run() error {
	pub, err := resolvePublicKey(c.cfg)
	if err != nil {
		return err
	}

	if c.url != "" {
		return c.verifyRemote(pub)
	}

	listPath := c.cfg.GetAbsBlocklistFile()
	sigPath := c.cfg.GetAbsSignatureFile()
	res, err := signing.VerifyFile(listPath, sigPath, pub)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeVerification) {
			log.Errorf("✗ Signature is INVALID. The blocklist may have been tampered with.")
		}
		return err
	}

	baseDir := c.cfg.GetConfigDir()
	log.Printf("Blocklist: %s\n", utils.DisplayPath(listPath, baseDir))
	log.Printf("SHA-256  : %s (%d bytes)\n", res.Checksum, res.Size)
	log.Printf("✓ Signature is valid.\n")
	return nil
}

func (c *VerifyCommand) verifyRemote(pub ed25519.PublicKey) error {
	ctx, cancel := signalContext()
	defer cancel()

	data, sum, err := lists.Download(ctx, c.url)
	if err != nil {
		return errors.NewListError("failed to fetch blocklist", err)
	}
	artifact, _, err := lists.Download(ctx, c.url+config.DefaultSignatureExt)
	if err != nil {
		return errors.NewListError("failed to fetch signature", err)
	}

	if err := signing.VerifyBytes(data, artifact, pub); err != nil {
		if errors.HasCode(err, errors.ErrCodeVerification) {
			log.Errorf("✗ Signature is INVALID. The blocklist may have been tampered with.")
		}
		return err
	}

	log.Printf("Blocklist: %s\n", c.url)
	log.Printf("SHA-256  : %s (%d bytes)\n", sum, len(data))
	log.Printf("✓ Signature is valid.\n")
	return nil
}

// resolvePublicKey returns the configured public key, or derives it from the
// signing seed when none is configured.
func resolvePublicKey(cfg *config.Config) (ed25519.PublicKey, error) {
	if cfg.Signing.PublicKey != "" {
		return signing.ParsePublicKey(cfg.Signing.PublicKey)
	}
	seed, err := signing.LoadSeedFromEnv(cfg.Signing.KeyEnv, cfg.GetAbsEnvFile())
	if err != nil {
		return nil, err
	}
	return signing.PublicKey(seed)
}
