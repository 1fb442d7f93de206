package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maksimkurb/blocklist-attest/src/internal/commands"
	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	ctx := &commands.AppContext{}

	// Define flags
	flag.StringVar(&ctx.ConfigPath, "config", config.DefaultConfigFile, "Path to configuration file (optional)")
	flag.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Blocklist discovery and attestation\n")
		fmt.Fprintf(os.Stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [command options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  discover                Find live vendor subdomains and merge them into the blocklist\n")
		fmt.Fprintf(os.Stderr, "  sign                    Sign the blocklist with the Ed25519 seed from the environment\n")
		fmt.Fprintf(os.Stderr, "  verify                  Verify the blocklist signature (exit 2 when invalid)\n")
		fmt.Fprintf(os.Stderr, "  generate-key            Print a new signing seed and public key\n")
		fmt.Fprintf(os.Stderr, "  serve                   Serve the blocklist and signature over HTTP\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	// An explicit -config must exist; the default one is optional.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			ctx.ConfigRequired = true
		}
	})

	cmds := []commands.Runner{
		commands.CreateDiscoverCommand(),
		commands.CreateSignCommand(),
		commands.CreateVerifyCommand(),
		commands.CreateGenerateKeyCommand(),
		commands.CreateServeCommand(),
	}

	args := flag.Args()

	if len(args) < 1 {
		flag.Usage()
		os.Exit(errors.ExitFailure)
	}

	subcommand := args[0]
	for _, cmd := range cmds {
		if cmd.Name() == subcommand {
			if err := cmd.Init(args[1:], ctx); err != nil {
				log.Errorf("Failed to initialize command: %v", err)
				os.Exit(errors.ExitCode(err))
			}

			if err := cmd.Run(); err != nil {
				log.Errorf("%v", err)
				os.Exit(errors.ExitCode(err))
			}

			os.Exit(0)
		}
	}

	log.Fatalf("Unknown subcommand: %s", subcommand)
}
