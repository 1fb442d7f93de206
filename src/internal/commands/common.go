package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/resolver"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	// ConfigRequired is set when -config was passed explicitly.
	ConfigRequired bool
	Verbose        bool
}

// Overridden in tests.
var (
	newResolver = resolver.New
	now         = time.Now
)

// loadConfigOrFail loads configuration from file without validating it, so
// that command-line overrides can be applied first.
func loadConfigOrFail(ctx *AppContext) (*config.Config, error) {
	cfg, err := config.LoadConfig(ctx.ConfigPath, ctx.ConfigRequired)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// validateConfigOrFail validates the effective configuration, overrides included.
func validateConfigOrFail(cfg *config.Config) error {
	if err := cfg.ValidateConfig(); err != nil {
		return errors.NewConfigError("configuration validation failed", err)
	}
	return nil
}

// absFlagPath resolves a path given on the command line against the
// working directory. Empty means the flag was not set.
func absFlagPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.NewConfigError(fmt.Sprintf("invalid path %q", p), err)
	}
	return abs, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
