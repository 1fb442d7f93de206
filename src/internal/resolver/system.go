package resolver

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/metrics"
)

// SystemResolver is the fallback backend built on the platform resolver.
// Only success is meaningful: any failure means "not live". The outcome is
// split into Absent and Indeterminate for logging, but a not-found answer
// from the platform may still hide a transient failure.
type SystemResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewSystemResolver creates the fallback resolver.
func NewSystemResolver(timeout time.Duration) *SystemResolver {
	return &SystemResolver{resolver: net.DefaultResolver, timeout: timeout}
}

func (s *SystemResolver) Name() string {
	return "system"
}

// Probe performs a single address lookup.
func (s *SystemResolver) Probe(ctx context.Context, host string) Result {
	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	addrs, err := s.resolver.LookupHost(qctx, host)
	metrics.QueryDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())

	if err == nil && len(addrs) > 0 {
		return Result{Host: host, Outcome: Live}
	}
	if err == nil {
		return Result{Host: host, Outcome: Absent}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return Result{Host: host, Outcome: Absent, Err: err}
	}
	return Result{Host: host, Outcome: Indeterminate, Kind: classifyError(ctx, err), Err: err}
}

func (s *SystemResolver) Close() error {
	return nil
}
