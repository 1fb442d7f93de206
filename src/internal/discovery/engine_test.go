package discovery

import (
	"bytes"
	"context"
	"errors"
	"hash/fnv"
	"os"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	apperrors "github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/resolver"
)

// fakeResolver answers from a fixed table. Unknown hosts are absent.
// Each probe sleeps a host-dependent amount to shuffle completion order.
type fakeResolver struct {
	outcomes map[string]resolver.Outcome
	panics   map[string]bool
	calls    atomic.Int32
}

func (f *fakeResolver) Name() string { return "fake" }

func (f *fakeResolver) Probe(ctx context.Context, host string) resolver.Result {
	f.calls.Add(1)
	if f.panics[host] {
		panic("boom")
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	time.Sleep(time.Duration(h.Sum32()%5) * time.Millisecond)

	out, ok := f.outcomes[host]
	if !ok {
		return resolver.Result{Host: host, Outcome: resolver.Absent}
	}
	if out == resolver.Indeterminate {
		return resolver.Result{Host: host, Outcome: out, Kind: resolver.KindTimeout, Err: errors.New("i/o timeout")}
	}
	return resolver.Result{Host: host, Outcome: out}
}

func quiet(t *testing.T) {
	log.DisableLogs()
	t.Cleanup(log.EnableLogs)
}

func TestDiscover_Scenario(t *testing.T) {
	quiet(t)

	r := &fakeResolver{outcomes: map[string]resolver.Outcome{
		"cdn.example.com": resolver.Live,
	}}
	e := &Engine{Resolver: r, Prefixes: []string{"cdn", "api"}, Workers: 4}

	report, err := e.Discover(context.Background(), []string{"example.com"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(report.New, []string{"cdn.example.com"}) {
		t.Errorf("New = %v, want [cdn.example.com]", report.New)
	}
	if report.Candidates != 3 || report.Live != 1 || report.Absent != 2 || report.Errors != 0 {
		t.Errorf("Unexpected report: %+v", report)
	}
}

func TestDiscover_DeterministicAcrossWorkerCounts(t *testing.T) {
	quiet(t)

	seeds := []string{"alpha.com", "beta.net", "gamma.org"}
	prefixes := []string{"cdn", "api", "t", "px", "events", "sdk"}
	outcomes := map[string]resolver.Outcome{
		"gamma.org":       resolver.Live,
		"px.beta.net":     resolver.Live,
		"cdn.alpha.com":   resolver.Live,
		"sdk.gamma.org":   resolver.Live,
		"api.alpha.com":   resolver.Indeterminate,
		"events.beta.net": resolver.Live,
	}
	want := []string{"cdn.alpha.com", "events.beta.net", "gamma.org", "px.beta.net", "sdk.gamma.org"}

	for _, workers := range []int{1, 2, 7, 50} {
		e := &Engine{Resolver: &fakeResolver{outcomes: outcomes}, Prefixes: prefixes, Workers: workers}
		report, err := e.Discover(context.Background(), seeds, nil)
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		if !reflect.DeepEqual(report.New, want) {
			t.Errorf("workers=%d: New = %v, want %v", workers, report.New, want)
		}
		if report.Errors != 1 {
			t.Errorf("workers=%d: Errors = %d, want 1", workers, report.Errors)
		}
	}
}

func TestDiscover_SkipsKnownHosts(t *testing.T) {
	quiet(t)

	r := &fakeResolver{outcomes: map[string]resolver.Outcome{
		"cdn.example.com": resolver.Live,
		"api.example.com": resolver.Live,
	}}
	e := &Engine{Resolver: r, Prefixes: []string{"cdn", "api"}, Workers: 2}
	known := map[string]struct{}{"cdn.example.com": {}, "example.com": {}}

	report, err := e.Discover(context.Background(), []string{"example.com"}, known)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(report.New, []string{"api.example.com"}) {
		t.Errorf("New = %v, want [api.example.com]", report.New)
	}
	if report.Skipped != 2 || report.Candidates != 1 {
		t.Errorf("Expected 2 skipped and 1 candidate, got %+v", report)
	}
	if got := r.calls.Load(); got != 1 {
		t.Errorf("Known hosts must not be probed, got %d probes", got)
	}
}

func TestDiscover_PanicIsCountedAsError(t *testing.T) {
	quiet(t)

	r := &fakeResolver{
		outcomes: map[string]resolver.Outcome{"cdn.example.com": resolver.Live},
		panics:   map[string]bool{"api.example.com": true},
	}
	e := &Engine{Resolver: r, Prefixes: []string{"cdn", "api"}, Workers: 3}

	report, err := e.Discover(context.Background(), []string{"example.com"}, nil)
	if err != nil {
		t.Fatalf("A single probe failure must not fail the run: %v", err)
	}
	if report.Errors != 1 || !reflect.DeepEqual(report.New, []string{"cdn.example.com"}) {
		t.Errorf("Unexpected report: %+v", report)
	}
}

func TestDiscover_InvalidWorkers(t *testing.T) {
	for _, workers := range []int{0, -1} {
		e := &Engine{Resolver: &fakeResolver{}, Workers: workers}
		_, err := e.Discover(context.Background(), []string{"example.com"}, nil)
		if !apperrors.HasCode(err, apperrors.ErrCodeDiscovery) {
			t.Errorf("workers=%d: expected discovery error, got %v", workers, err)
		}
	}
}

func TestDiscover_Canceled(t *testing.T) {
	quiet(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &Engine{Resolver: &fakeResolver{}, Prefixes: []string{"cdn"}, Workers: 2}
	report, err := e.Discover(ctx, []string{"example.com"}, nil)
	if err == nil {
		t.Fatalf("Expected error for canceled run, got report %+v", report)
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeDiscovery) {
		t.Errorf("Expected discovery error code, got %v", err)
	}
}

func TestDiscover_ProgressAndVerboseLogging(t *testing.T) {
	var out bytes.Buffer
	log.SetOutput(&out, &out)
	log.SetColors(false)
	log.SetVerbose(true)
	defer func() {
		log.SetOutput(os.Stdout, os.Stderr)
		log.SetColors(true)
		log.SetVerbose(false)
	}()

	r := &fakeResolver{outcomes: map[string]resolver.Outcome{
		"cdn.example.com": resolver.Live,
		"api.example.com": resolver.Indeterminate,
	}}
	e := &Engine{Resolver: r, Prefixes: []string{"cdn", "api"}, Workers: 1, ProgressEvery: 1}

	if _, err := e.Discover(context.Background(), []string{"example.com"}, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	logs := out.String()
	for _, want := range []string{
		"[new]   cdn.example.com",
		"[miss]  example.com",
		"[error] api.example.com: timeout",
		"3/3 probed, 1 new so far",
	} {
		if !strings.Contains(logs, want) {
			t.Errorf("Expected log to contain %q, got:\n%s", want, logs)
		}
	}
}

func TestDiscover_RateLimited(t *testing.T) {
	quiet(t)

	r := &fakeResolver{outcomes: map[string]resolver.Outcome{"api.example.com": resolver.Live}}
	e := &Engine{
		Resolver: r,
		Prefixes: []string{"cdn", "api"},
		Workers:  3,
		Limiter:  rate.NewLimiter(rate.Limit(1000), 1),
	}

	report, err := e.Discover(context.Background(), []string{"example.com"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(report.New, []string{"api.example.com"}) {
		t.Errorf("New = %v", report.New)
	}
}

func TestNewEngine(t *testing.T) {
	cfg := &config.DiscoveryConfig{Workers: 8, MaxQPS: 2.5, Prefixes: []string{"cdn"}}
	e := NewEngine(&fakeResolver{}, cfg)

	if e.Workers != 8 || !reflect.DeepEqual(e.Prefixes, []string{"cdn"}) {
		t.Errorf("Unexpected engine: %+v", e)
	}
	if e.Limiter == nil || e.Limiter.Limit() != rate.Limit(2.5) || e.Limiter.Burst() != 3 {
		t.Errorf("Unexpected limiter: %+v", e.Limiter)
	}

	if NewEngine(&fakeResolver{}, &config.DiscoveryConfig{Workers: 1}).Limiter != nil {
		t.Errorf("Expected no limiter when max_qps is 0")
	}
}

func TestFilter(t *testing.T) {
	got := Filter([]string{"a.com", "B.com", "c.com"}, map[string]struct{}{"b.com": {}})
	if !reflect.DeepEqual(got, []string{"a.com", "c.com"}) {
		t.Errorf("Filter() = %v", got)
	}
}
