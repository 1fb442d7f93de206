package commands

import (
	"flag"
	"io"
	"strings"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/discovery"
	"github.com/maksimkurb/blocklist-attest/src/internal/lists"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/metrics"
	"github.com/maksimkurb/blocklist-attest/src/internal/resolver"
	"github.com/maksimkurb/blocklist-attest/src/internal/utils"
)

func CreateDiscoverCommand() *DiscoverCommand {
	return &DiscoverCommand{
		fs: flag.NewFlagSet("discover", flag.ExitOnError),
	}
}

// DiscoverCommand probes subdomains of the seed vendors and merges the live
// ones into the blocklist's generated section.
type DiscoverCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config

	dryRun       bool
	verbose      bool
	keepPrevious bool
	workers      int
	timeout      float64
	seedsPath    string
	listPath     string
}

func (c *DiscoverCommand) Name() string {
	return c.fs.Name()
}

func (c *DiscoverCommand) Init(args []string, ctx *AppContext) error {
	c.fs.BoolVar(&c.dryRun, "dry-run", false, "Discover and print, but do not write the blocklist")
	c.fs.BoolVar(&c.verbose, "verbose", false, "Log every probe outcome, not just hits")
	c.fs.BoolVar(&c.keepPrevious, "keep-previous", false, "Keep hostnames of the previous generated section")
	c.fs.IntVar(&c.workers, "workers", config.DefaultWorkers, "Number of concurrent DNS probes")
	c.fs.Float64Var(&c.timeout, "timeout", config.DefaultTimeoutSeconds, "Per-query DNS timeout in seconds")
	c.fs.StringVar(&c.seedsPath, "seeds", "", "Seed vendor list (overrides config)")
	c.fs.StringVar(&c.listPath, "blocklist", "", "Blocklist file (overrides config)")

	if err := c.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfigOrFail(ctx)
	if err != nil {
		return err
	}

	// Flags that were set explicitly win over the config file.
	var flagErr error
	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Discovery.Workers = c.workers
		case "timeout":
			cfg.Discovery.TimeoutSeconds = c.timeout
		case "keep-previous":
			cfg.Discovery.KeepPrevious = c.keepPrevious
		case "seeds":
			if p, err := absFlagPath(c.seedsPath); err != nil {
				flagErr = err
			} else {
				cfg.Paths.SeedsFile = p
			}
		case "blocklist":
			if p, err := absFlagPath(c.listPath); err != nil {
				flagErr = err
			} else {
				cfg.Paths.BlocklistFile = p
			}
		}
	})
	if flagErr != nil {
		return flagErr
	}
	if err := validateConfigOrFail(cfg); err != nil {
		return err
	}

	if c.verbose || ctx.Verbose {
		log.SetVerbose(true)
	}

	c.cfg = cfg
	return nil
}

func (c *DiscoverCommand) Run() error {
	seedsPath := c.cfg.GetAbsSeedsFile()
	listPath := c.cfg.GetAbsBlocklistFile()
	baseDir := c.cfg.GetConfigDir()

	log.Infof("Reading seeds from       %s", utils.DisplayPath(seedsPath, baseDir))
	seeds, err := lists.LoadSeeds(seedsPath)
	if err != nil {
		return err
	}
	log.Infof("  %d seed domains loaded.", len(seeds))

	log.Infof("Reading blocklist from   %s", utils.DisplayPath(listPath, baseDir))
	doc, err := lists.ParseFile(listPath)
	if err != nil {
		return err
	}
	log.Infof("  %d domains already in blocklist.", doc.Count())

	r, err := newResolver(c.cfg)
	if err != nil {
		return err
	}
	if closer, ok := r.(io.Closer); ok {
		defer utils.CloseOrWarn(closer)
	}
	if d, ok := r.(*resolver.DNSResolver); ok {
		log.Infof("Nameservers: %s", strings.Join(d.Upstreams(), ", "))
	}

	ctx, cancel := signalContext()
	defer cancel()

	log.Infof("Starting DNS discovery...")
	engine := discovery.NewEngine(r, c.cfg.Discovery)
	report, err := engine.Discover(ctx, seeds, doc.Known)
	if err != nil {
		return err
	}
	log.Infof("Discovery complete: %d new domain(s) found in %s (%d live, %d absent, %d errors).",
		len(report.New), report.Duration.Round(time.Millisecond), report.Live, report.Absent, report.Errors)

	if len(report.New) == 0 {
		metrics.Entries.Set(float64(doc.Count()))
		log.Infof("Nothing new to add. Blocklist is up to date.")
		return nil
	}

	if c.dryRun {
		log.Infof("[dry-run] Would append the following domains:")
		for _, host := range report.New {
			log.Printf("  %s%s\n", lists.EntryPrefix, host)
		}
		log.Infof("[dry-run] Blocklist NOT modified.")
		return nil
	}

	out := doc.Render(report.New, now(), lists.RenderOptions{
		KeepPrevious: c.cfg.Discovery.KeepPrevious,
		SeedsLabel:   utils.DisplayPath(seedsPath, baseDir),
	})
	if err := lists.WriteFile(listPath, out); err != nil {
		return err
	}

	total := lists.Parse(out).Count()
	metrics.Entries.Set(float64(total))
	log.Infof("Blocklist updated: %s", utils.DisplayPath(listPath, baseDir))
	log.Infof("  Total domains now: %d", total)
	log.Infof("Next step: run \"blocklist sign\" to re-sign the blocklist.")
	return nil
}
