package resolver

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	defaultDNSPort = "53"

	dohScheme             = "doh://"
	httpsScheme           = "https://"
	dnsMessageContentType = "application/dns-message"
	dohMaxIdleConns       = 10
	dohIdleConnTimeout    = 30 * time.Second
	dohMaxResponseSize    = 64 * 1024
)

var errMalformed = errors.New("malformed DNS response")

// Upstream is a single nameserver the precise backend can query.
type Upstream interface {
	// Query sends req and returns the response. The caller bounds ctx.
	Query(ctx context.Context, req *dns.Msg) (*dns.Msg, error)
	// String returns the upstream in URL form.
	String() string
	// Close releases idle connections.
	Close() error
}

// ParseUpstream parses a nameserver specification.
// Supported formats:
//   - udp://ip[:port] - plain DNS over UDP, retried over TCP when truncated
//   - tcp://ip[:port] - plain DNS over TCP
//   - doh://host/path or https://host/path - DNS-over-HTTPS
//   - ip or ip:port - same as udp://
func ParseUpstream(raw string, timeout time.Duration) (Upstream, error) {
	u, err := url.Parse(raw)
	// "8.8.8.8:53" fails to parse or yields an empty scheme
	if err != nil || u.Scheme == "" {
		return NewPlainUpstream("udp", raw, timeout)
	}

	switch u.Scheme {
	case "udp", "tcp":
		return NewPlainUpstream(u.Scheme, u.Host, timeout)
	case "doh", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("missing host in DoH upstream %q", raw)
		}
		return NewDoHUpstream(raw, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported upstream scheme: %s", u.Scheme)
	}
}

// PlainUpstream queries a nameserver over UDP or TCP.
type PlainUpstream struct {
	network string
	address string
	client  *dns.Client
	tcp     *dns.Client
}

// NewPlainUpstream creates an upstream for address, adding port 53 when absent.
func NewPlainUpstream(network, address string, timeout time.Duration) (*PlainUpstream, error) {
	host := address
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(strings.Trim(host, "[]"), defaultDNSPort)
	}
	ipStr, _, err := net.SplitHostPort(host)
	if err != nil {
		return nil, fmt.Errorf("invalid %s address: %w", network, err)
	}
	if net.ParseIP(ipStr) == nil {
		return nil, fmt.Errorf("invalid %s address %q: nameserver must be an IP address", network, address)
	}

	return &PlainUpstream{
		network: network,
		address: host,
		client:  &dns.Client{Net: network, Timeout: timeout},
		tcp:     &dns.Client{Net: "tcp", Timeout: timeout},
	}, nil
}

// Query sends req and falls back to TCP when a UDP answer is truncated.
func (p *PlainUpstream) Query(ctx context.Context, req *dns.Msg) (*dns.Msg, error) {
	resp, _, err := p.client.ExchangeContext(ctx, req, p.address)
	if err != nil {
		return nil, err
	}
	if resp.Truncated && p.network == "udp" {
		resp, _, err = p.tcp.ExchangeContext(ctx, req, p.address)
		if err != nil {
			return nil, fmt.Errorf("TCP retry after truncated answer: %w", err)
		}
	}
	return resp, nil
}

func (p *PlainUpstream) String() string {
	return fmt.Sprintf("%s://%s", p.network, p.address)
}

func (p *PlainUpstream) Close() error {
	return nil
}

// DoHUpstream implements Upstream using DNS-over-HTTPS (RFC 8484 POST).
type DoHUpstream struct {
	url    string
	client *http.Client
}

// NewDoHUpstream creates a DNS-over-HTTPS upstream. A doh:// scheme is
// rewritten to https://.
func NewDoHUpstream(urlStr string, timeout time.Duration) *DoHUpstream {
	if strings.HasPrefix(urlStr, dohScheme) {
		urlStr = httpsScheme + strings.TrimPrefix(urlStr, dohScheme)
	}

	return &DoHUpstream{
		url: urlStr,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
				MaxIdleConns:        dohMaxIdleConns,
				MaxIdleConnsPerHost: dohMaxIdleConns,
				IdleConnTimeout:     dohIdleConnTimeout,
				DisableCompression:  true,
			},
		},
	}
}

// Query posts req in wire format and unpacks the answer.
func (d *DoHUpstream) Query(ctx context.Context, req *dns.Msg) (*dns.Msg, error) {
	packed, err := req.Pack()
	if err != nil {
		return nil, fmt.Errorf("failed to pack DNS message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(packed))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", dnsMessageContentType)
	httpReq.Header.Set("Accept", dnsMessageContentType)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("DoH request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DoH request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, dohMaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read DoH response: %w", err)
	}

	msg := new(dns.Msg)
	if err := msg.Unpack(body); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return msg, nil
}

func (d *DoHUpstream) String() string {
	return "doh://" + strings.TrimPrefix(d.url, httpsScheme)
}

func (d *DoHUpstream) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
