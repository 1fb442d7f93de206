// Package discovery probes candidate hostnames under bounded concurrency and
// reports the ones that resolve and are not yet in the blocklist.
package discovery

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/metrics"
	"github.com/maksimkurb/blocklist-attest/src/internal/probe"
	"github.com/maksimkurb/blocklist-attest/src/internal/resolver"
)

// DefaultProgressEvery is the number of completed probes between progress lines.
const DefaultProgressEvery = 500

// Engine runs discovery. Workers must be at least 1.
type Engine struct {
	Resolver resolver.Resolver
	Prefixes []string
	Workers  int
	// Limiter caps the probe rate across all workers. Nil means unlimited.
	Limiter *rate.Limiter
	// ProgressEvery defaults to DefaultProgressEvery when zero.
	ProgressEvery int
}

// Report summarizes one discovery run.
type Report struct {
	// New holds the live, previously unknown hostnames, sorted.
	New        []string
	Candidates int
	Skipped    int
	Live       int
	Absent     int
	Errors     int
	Duration   time.Duration
}

// NewEngine builds an engine from the discovery configuration.
func NewEngine(r resolver.Resolver, cfg *config.DiscoveryConfig) *Engine {
	e := &Engine{
		Resolver: r,
		Prefixes: probe.Prefixes(cfg),
		Workers:  cfg.Workers,
	}
	if cfg.MaxQPS > 0 {
		e.Limiter = rate.NewLimiter(rate.Limit(cfg.MaxQPS), int(math.Max(1, math.Ceil(cfg.MaxQPS))))
	}
	return e
}

// Discover probes every candidate built from seeds that is not in known and
// returns the ones that resolved. known keys must be lowercased; the map is
// only read before workers start. A single probe failure never fails the
// run; a canceled ctx does.
func (e *Engine) Discover(ctx context.Context, seeds []string, known map[string]struct{}) (*Report, error) {
	if e.Workers < 1 {
		return nil, errors.NewDiscoveryError(
			fmt.Sprintf("cannot start worker pool with %d workers; use at least 1", e.Workers), nil)
	}
	if e.Resolver == nil {
		return nil, errors.NewDiscoveryError("no resolver configured", nil)
	}

	start := time.Now()
	all := probe.Build(seeds, e.Prefixes)
	candidates := Filter(all, known)
	report := &Report{
		Candidates: len(candidates),
		Skipped:    len(all) - len(candidates),
	}

	log.Infof("Probing %d candidates with %d workers using the %s resolver", len(candidates), e.Workers, e.Resolver.Name())

	results := make(chan resolver.Result, e.Workers)
	go e.dispatch(ctx, candidates, results)

	progressEvery := e.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = DefaultProgressEvery
	}

	done := 0
	for res := range results {
		done++
		metrics.ProbeResults.WithLabelValues(res.Outcome.String()).Inc()

		switch {
		case res.IsLive():
			report.Live++
			report.New = append(report.New, res.Host)
			metrics.Discovered.Inc()
			log.Infof("[new]   %s", res.Host)
		case res.Outcome == resolver.Absent:
			report.Absent++
			log.Debugf("[miss]  %s", res.Host)
		default:
			report.Errors++
			log.Debugf("[error] %s: %s: %v", res.Host, res.Kind, res.Err)
		}

		if done%progressEvery == 0 {
			log.Infof("… %d/%d probed, %d new so far", done, len(candidates), len(report.New))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewDiscoveryError("discovery aborted before all candidates were probed", err)
	}

	sort.Strings(report.New)
	report.Duration = time.Since(start)
	return report, nil
}

// dispatch feeds candidates to a bounded pool and closes results when every
// submitted probe has finished.
func (e *Engine) dispatch(ctx context.Context, candidates []string, results chan<- resolver.Result) {
	p := pool.New().WithMaxGoroutines(e.Workers)
	for _, host := range candidates {
		if ctx.Err() != nil {
			break
		}
		host := host
		p.Go(func() {
			results <- e.probe(ctx, host)
		})
	}
	p.Wait()
	close(results)
}

// probe runs one resolution and converts a panic into an error result.
func (e *Engine) probe(ctx context.Context, host string) (res resolver.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = resolver.Result{
				Host:    host,
				Outcome: resolver.Indeterminate,
				Kind:    resolver.KindInternal,
				Err:     fmt.Errorf("resolver panic: %v", r),
			}
		}
	}()

	if e.Limiter != nil {
		if err := e.Limiter.Wait(ctx); err != nil {
			return resolver.Result{Host: host, Outcome: resolver.Indeterminate, Kind: resolver.KindCanceled, Err: err}
		}
	}
	return e.Resolver.Probe(ctx, host)
}

// Filter drops candidates present in known, comparing case-insensitively.
func Filter(candidates []string, known map[string]struct{}) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := known[strings.ToLower(c)]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}
