package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/metrics"
	"github.com/miekg/dns"
)

// queryTypes are tried in order until one yields an answer or NXDOMAIN.
var queryTypes = []uint16{dns.TypeA, dns.TypeAAAA, dns.TypeCNAME}

// DNSResolver is the precise backend. Upstreams are tried in order for each
// query; the first one that answers wins.
type DNSResolver struct {
	upstreams []Upstream
	timeout   time.Duration
}

// NewDNSResolver creates a precise resolver. timeout bounds every single
// query sent to an upstream.
func NewDNSResolver(upstreams []Upstream, timeout time.Duration) *DNSResolver {
	return &DNSResolver{upstreams: upstreams, timeout: timeout}
}

func (r *DNSResolver) Name() string {
	return "dns"
}

// Upstreams returns the upstreams in URL form.
func (r *DNSResolver) Upstreams() []string {
	out := make([]string, 0, len(r.upstreams))
	for _, u := range r.upstreams {
		out = append(out, u.String())
	}
	return out
}

// Probe queries A, AAAA and CNAME in turn. NXDOMAIN ends the probe as Absent,
// any answer ends it as Live. Empty answers, server failures and transport
// errors move on to the next type. When every type is exhausted the result is
// Absent if nothing failed, else Indeterminate with the last failure.
func (r *DNSResolver) Probe(ctx context.Context, host string) Result {
	res := Result{Host: host, Outcome: Absent}
	fqdn := dns.Fqdn(host)

	for _, qtype := range queryTypes {
		if err := ctx.Err(); err != nil {
			return Result{Host: host, Outcome: Indeterminate, Kind: KindCanceled, Err: err}
		}

		resp, err := r.exchange(ctx, fqdn, qtype)
		if err != nil {
			res.Outcome = Indeterminate
			res.Kind = classifyError(ctx, err)
			res.Err = err
			continue
		}

		switch resp.Rcode {
		case dns.RcodeNameError:
			return Result{Host: host, Outcome: Absent}
		case dns.RcodeSuccess:
			if len(resp.Answer) > 0 {
				return Result{Host: host, Outcome: Live}
			}
		default:
			res.Outcome = Indeterminate
			res.Kind = KindServerFailure
			res.Err = fmt.Errorf("%s %s: %s", strings.TrimSuffix(fqdn, "."), dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
		}
	}
	return res
}

// exchange sends one question to each upstream in order until one responds.
func (r *DNSResolver) exchange(ctx context.Context, fqdn string, qtype uint16) (*dns.Msg, error) {
	if len(r.upstreams) == 0 {
		return nil, fmt.Errorf("no upstreams configured")
	}

	req := new(dns.Msg)
	req.SetQuestion(fqdn, qtype)

	var lastErr error
	for _, upstream := range r.upstreams {
		resp, err := r.queryOnce(ctx, upstream, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (r *DNSResolver) queryOnce(ctx context.Context, upstream Upstream, req *dns.Msg) (*dns.Msg, error) {
	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	resp, err := upstream.Query(qctx, req)
	metrics.QueryDuration.WithLabelValues(r.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errMalformed
	}
	return resp, nil
}

// Close releases resources held by the upstreams.
func (r *DNSResolver) Close() error {
	for _, u := range r.upstreams {
		_ = u.Close()
	}
	return nil
}
