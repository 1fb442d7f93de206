package resolver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/config"
	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
)

func withResolvConf(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resolv.conf")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write resolv.conf: %v", err)
		}
	}
	orig := resolvConfPath
	resolvConfPath = path
	t.Cleanup(func() { resolvConfPath = orig })
}

func TestNew(t *testing.T) {
	log.DisableLogs()
	defer log.EnableLogs()

	tests := []struct {
		name        string
		backend     string
		nameservers []string
		resolvConf  string
		wantName    string
		wantCode    errors.ErrorCode
	}{
		{name: "system forced", backend: config.BackendSystem, wantName: "system"},
		{name: "dns with nameservers", backend: config.BackendDNS, nameservers: []string{"udp://127.0.0.1:5353"}, wantName: "dns"},
		{name: "dns from resolv.conf", backend: config.BackendDNS, resolvConf: "nameserver 10.0.0.1\n", wantName: "dns"},
		{name: "dns without nameservers", backend: config.BackendDNS, wantCode: errors.ErrCodeResolver},
		{name: "auto from resolv.conf", backend: config.BackendAuto, resolvConf: "nameserver 10.0.0.1\n", wantName: "dns"},
		{name: "auto falls back", backend: config.BackendAuto, wantName: "system"},
		{name: "auto with bad nameserver", backend: config.BackendAuto, nameservers: []string{"tls://1.1.1.1"}, wantCode: errors.ErrCodeResolver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withResolvConf(t, tt.resolvConf)

			cfg := config.Defaults(t.TempDir())
			cfg.Discovery.Backend = tt.backend
			cfg.Discovery.Nameservers = tt.nameservers

			r, err := New(cfg)
			if tt.wantCode != "" {
				if !errors.HasCode(err, tt.wantCode) {
					t.Fatalf("Expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if r.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", r.Name(), tt.wantName)
			}
		})
	}
}

func TestNew_FallbackWarnsOnce(t *testing.T) {
	withResolvConf(t, "")
	origOnce := fallbackWarning
	fallbackWarning = new(sync.Once)
	t.Cleanup(func() { fallbackWarning = origOnce })

	var buf bytes.Buffer
	log.SetOutput(&buf, &buf)
	log.SetColors(false)
	defer func() {
		log.SetOutput(os.Stdout, os.Stderr)
		log.SetColors(true)
	}()

	cfg := config.Defaults(t.TempDir())
	cfg.Discovery.Backend = config.BackendAuto
	for i := 0; i < 2; i++ {
		r, err := New(cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if r.Name() != "system" {
			t.Fatalf("Name() = %q, want system", r.Name())
		}
	}

	out := buf.String()
	if n := strings.Count(out, "[WRN] Precise DNS backend unavailable"); n != 1 {
		t.Errorf("Expected the fallback warning exactly once, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "cannot tell NXDOMAIN from transient failures") {
		t.Errorf("Expected the warning to explain the lost precision, got:\n%s", out)
	}
}

func TestSystemNameservers(t *testing.T) {
	withResolvConf(t, "nameserver 10.0.0.1\nnameserver ::1\noptions ndots:1\n")

	got, err := systemNameservers()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := []string{"10.0.0.1:53", "[::1]:53"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("systemNameservers() = %v, want %v", got, want)
	}
}

func TestSystemResolver_NeverLiveForInvalid(t *testing.T) {
	r := NewSystemResolver(500 * time.Millisecond)
	res := r.Probe(context.Background(), "nothing.invalid")
	if res.Outcome == Live {
		t.Errorf("Expected .invalid host to be not live, got %v", res.Outcome)
	}
	if res.Err == nil {
		t.Errorf("Expected the lookup error to be kept for logging")
	}
}
