// Package resolver answers one question for the discovery engine: does a
// hostname currently resolve.
//
// Two backends implement Resolver. DNSResolver talks to nameservers directly
// with github.com/miekg/dns and can tell an authoritative NXDOMAIN apart from
// a transient failure. SystemResolver goes through the platform resolver and
// cannot. New picks one of them once at startup.
package resolver

import (
	"context"
	"errors"
	"net"

	"github.com/miekg/dns"
)

// Outcome is the tri-state result of probing a hostname.
type Outcome int

const (
	// Absent means the name is confirmed not to exist or has no usable records.
	Absent Outcome = iota
	// Live means at least one answer was received.
	Live
	// Indeterminate means every attempt failed without a definitive answer.
	Indeterminate
)

func (o Outcome) String() string {
	switch o {
	case Absent:
		return "absent"
	case Live:
		return "live"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// ErrorKind classifies why a probe did not produce a definitive answer.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindTimeout       ErrorKind = "timeout"
	KindTransport     ErrorKind = "transport"
	KindMalformed     ErrorKind = "malformed"
	KindServerFailure ErrorKind = "server_failure"
	KindCanceled      ErrorKind = "canceled"
	KindInternal      ErrorKind = "internal"
)

// Result is the outcome of probing one host. Kind and Err describe the last
// failure seen and are set for Indeterminate results; the system backend
// also keeps Err on Absent results for logging.
type Result struct {
	Host    string
	Outcome Outcome
	Kind    ErrorKind
	Err     error
}

// IsLive reports whether the host resolved. Absent and Indeterminate both
// count as not live.
func (r Result) IsLive() bool {
	return r.Outcome == Live
}

// Resolver probes hostnames. Implementations must be safe for concurrent use
// and must never panic or block past their configured per-query timeout.
type Resolver interface {
	Probe(ctx context.Context, host string) Result
	Name() string
}

func classifyError(ctx context.Context, err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	var dnsErr *dns.Error
	if errors.As(err, &dnsErr) || errors.Is(err, errMalformed) {
		return KindMalformed
	}
	return KindTransport
}
