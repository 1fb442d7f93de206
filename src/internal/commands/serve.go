package commands

import (
	"context"
	"flag"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maksimkurb/blocklist-attest/src/internal/api"
	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/signing"
)

const shutdownTimeout = 10 * time.Second

func CreateServeCommand() *ServeCommand {
	return &ServeCommand{
		fs: flag.NewFlagSet("serve", flag.ExitOnError),
	}
}

// ServeCommand publishes the blocklist and its signature over HTTP.
type ServeCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config

	listen string
}

func (c *ServeCommand) Name() string {
	return c.fs.Name()
}

func (c *ServeCommand) Init(args []string, ctx *AppContext) error {
	c.fs.StringVar(&c.listen, "listen", "", "Address to listen on (overrides config)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfigOrFail(ctx)
	if err != nil {
		return err
	}
	if c.listen != "" {
		cfg.Server.ListenAddr = c.listen
	}
	if err := validateConfigOrFail(cfg); err != nil {
		return err
	}

	c.cfg = cfg
	return nil
}

func (c *ServeCommand) Run() error {
	ctx, cancel := signalContext()
	defer cancel()
	return c.serve(ctx)
}

func (c *ServeCommand) serve(ctx context.Context) error {
	pub, err := resolvePublicKey(c.cfg)
	if err != nil {
		return err
	}

	handler := api.NewHandler(c.cfg.GetAbsBlocklistFile(), c.cfg.GetAbsSignatureFile(), pub)
	server := api.NewServer(c.cfg.Server.ListenAddr, api.NewRouter(handler))

	log.Infof("Public key: %s", signing.EncodeBase64(pub))
	log.Infof("Status and metrics are restricted to private subnets; list files are public.")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Stop(shutdownCtx)
	})
	return g.Wait()
}
