package commands

import (
	"flag"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/signing"
	"github.com/maksimkurb/blocklist-attest/src/internal/utils"
)

func CreateSignCommand() *SignCommand {
	return &SignCommand{
		fs: flag.NewFlagSet("sign", flag.ExitOnError),
	}
}

// SignCommand writes a detached Ed25519 signature for the blocklist.
type SignCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config

	listPath string
	sigPath  string
}

func (c *SignCommand) Name() string {
	return c.fs.Name()
}

func (c *SignCommand) Init(args []string, ctx *AppContext) error {
	c.fs.StringVar(&c.listPath, "blocklist", "", "Blocklist file (overrides config)")
	c.fs.StringVar(&c.sigPath, "signature", "", "Signature file (overrides config)")

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
	if err := validateConfigOrFail(cfg); err != nil {
		return err
	}

	c.cfg = cfg
	return nil
}

func (c *SignCommand) Run() error {
	seed, err := signing.LoadSeedFromEnv(c.cfg.Signing.KeyEnv, c.cfg.GetAbsEnvFile())
	if err != nil {
		return err
	}
	signer, err := signing.NewSigner(seed)
	if err != nil {
		return err
	}

	listPath := c.cfg.GetAbsBlocklistFile()
	sigPath := c.cfg.GetAbsSignatureFile()
	res, err := signer.SignFile(listPath, sigPath)
	if err != nil {
		return err
	}

	baseDir := c.cfg.GetConfigDir()
	log.Printf("Signed   : %s\n", utils.DisplayPath(listPath, baseDir))
	log.Printf("Signature: %s\n", utils.DisplayPath(sigPath, baseDir))
	log.Printf("Algorithm: Ed25519\n")
	log.Printf("SHA-256  : %s (%d bytes)\n", res.Checksum, res.Size)
	log.Printf("Public key (hex):    %s\n", signing.EncodeHex(res.PublicKey))
	log.Printf("Public key (base64): %s\n", signing.EncodeBase64(res.PublicKey))
	log.Printf("\n")
	log.Printf("Commit both files together.\n")
	log.Printf("Clients must verify the list against this public key before using it.\n")
	return nil
}

// applyPathFlags overrides the blocklist and signature paths when set.
// A blocklist override without a signature override moves the default
// signature next to the new blocklist.
func applyPathFlags(cfg *config.Config, listPath, sigPath string) error {
	list, err := absFlagPath(listPath)
	if err != nil {
		return err
	}
	sig, err := absFlagPath(sigPath)
	if err != nil {
		return err
	}
	if list != "" {
		cfg.Paths.BlocklistFile = list
		if sig == "" {
			cfg.Paths.SignatureFile = ""
		}
	}
	if sig != "" {
		cfg.Paths.SignatureFile = sig
	}
	return nil
}
