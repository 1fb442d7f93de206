// Package probe expands seed domains into the candidate hostnames that
// discovery resolves.
package probe

import (
	"strings"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
)

// DefaultPrefixes are subdomain labels commonly used by tracking, analytics,
// advertising and CDN infrastructure.
var DefaultPrefixes = []string{
	// CDN and static assets
	"cdn", "static", "assets", "js", "script", "scripts", "img", "images",
	"media", "files", "s", "a",
	// API and app endpoints
	"api", "app", "apps", "v1", "v2", "v3", "platform", "service", "services",
	"gateway", "edge", "proxy",
	// Tracking and collection
	"track", "tracking", "t", "tr", "collect", "collector", "ingest", "pixel",
	"px", "p", "imp", "beacon", "hit", "hits",
	// Analytics and telemetry
	"analytics", "stats", "metrics", "log", "logs", "event", "events", "e",
	"telemetry", "report", "reports",
	// Identity and sync
	"id", "ids", "sync", "match", "uid", "user",
	// Tag managers and SDKs
	"tag", "tags", "gtm", "container", "sdk", "mobile", "web", "push",
	// Data and realtime
	"data", "rt", "realtime", "stream",
	// Advertising
	"ads", "ad", "rtb", "bid", "ssp", "dsp", "exchange",
	// Recommendation and personalization
	"rec", "recs", "recommend", "recommendation", "engine", "personalize",
	"personalise", "segment",
	// Misc
	"dashboard", "admin", "auth", "login", "app", "www", "mail",
	// Regional
	"us", "eu", "uk", "de", "fr", "au", "us1", "us2", "eu1", "eu2",
}

// Build returns every seed followed by prefix.seed for each prefix, in order.
// A candidate that recurs anywhere in the output is emitted only once.
func Build(seeds, prefixes []string) []string {
	seen := make(map[string]struct{}, len(seeds)*(len(prefixes)+1))
	candidates := make([]string, 0, len(seeds)*(len(prefixes)+1))

	add := func(host string) {
		if _, ok := seen[host]; ok {
			return
		}
		seen[host] = struct{}{}
		candidates = append(candidates, host)
	}

	for _, seed := range seeds {
		add(seed)
		for _, prefix := range prefixes {
			add(prefix + "." + seed)
		}
	}
	return candidates
}

// Prefixes returns the effective prefix list: the configured override or
// DefaultPrefixes, followed by any extra prefixes. Labels are lowercased and
// duplicates are dropped.
func Prefixes(cfg *config.DiscoveryConfig) []string {
	base := DefaultPrefixes
	var extra []string
	if cfg != nil {
		if len(cfg.Prefixes) > 0 {
			base = cfg.Prefixes
		}
		extra = cfg.ExtraPrefixes
	}

	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, p := range list {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
