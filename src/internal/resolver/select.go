package resolver

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/miekg/dns"
)

// resolvConfPath is read when no nameservers are configured.
var resolvConfPath = "/etc/resolv.conf"

// fallbackWarning is replaced by tests to re-arm the one-time warning.
var fallbackWarning = new(sync.Once)

// New selects the resolver backend once, from configuration:
//   - "dns" requires nameservers, from the config or resolv.conf
//   - "system" always uses the platform resolver
//   - "auto" uses "dns" when nameservers can be determined and falls back
//     to "system" with a one-time warning otherwise
func New(cfg *config.Config) (Resolver, error) {
	timeout := cfg.Timeout()

	switch cfg.Discovery.Backend {
	case config.BackendSystem:
		return NewSystemResolver(timeout), nil
	case config.BackendDNS:
		upstreams, err := buildUpstreams(cfg.Discovery.Nameservers, timeout)
		if err != nil {
			return nil, errors.NewResolverError(
				"dns backend has no usable nameservers; set [discovery] nameservers or fix "+resolvConfPath, err)
		}
		return NewDNSResolver(upstreams, timeout), nil
	default:
		if len(cfg.Discovery.Nameservers) > 0 {
			upstreams, err := buildUpstreams(cfg.Discovery.Nameservers, timeout)
			if err != nil {
				return nil, errors.NewResolverError("invalid [discovery] nameservers", err)
			}
			return NewDNSResolver(upstreams, timeout), nil
		}
		upstreams, err := buildUpstreams(nil, timeout)
		if err != nil {
			warnFallback(err)
			return NewSystemResolver(timeout), nil
		}
		return NewDNSResolver(upstreams, timeout), nil
	}
}

func warnFallback(cause error) {
	fallbackWarning.Do(func() {
		log.Warnf("Precise DNS backend unavailable (%v), using the system resolver.", cause)
		log.Warnf("The system resolver cannot tell NXDOMAIN from transient failures; some live hosts may be missed.")
		log.Warnf("Set [discovery] nameservers (e.g. \"udp://1.1.1.1\") or backend = \"dns\" for precise results.")
	})
}

func buildUpstreams(nameservers []string, timeout time.Duration) ([]Upstream, error) {
	if len(nameservers) == 0 {
		var err error
		nameservers, err = systemNameservers()
		if err != nil {
			return nil, err
		}
	}

	upstreams := make([]Upstream, 0, len(nameservers))
	for _, ns := range nameservers {
		u, err := ParseUpstream(ns, timeout)
		if err != nil {
			return nil, fmt.Errorf("nameserver %q: %w", ns, err)
		}
		upstreams = append(upstreams, u)
	}
	return upstreams, nil
}

func systemNameservers() ([]string, error) {
	cc, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", resolvConfPath, err)
	}
	if len(cc.Servers) == 0 {
		return nil, fmt.Errorf("no nameservers in %s", resolvConfPath)
	}

	out := make([]string, 0, len(cc.Servers))
	for _, s := range cc.Servers {
		out = append(out, net.JoinHostPort(s, cc.Port))
	}
	return out, nil
}
