package resolver

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miekg/dns"
)

func TestParseUpstream(t *testing.T) {
	tests := []struct {
		input    string
		wantStr  string
		wantErr  bool
		wantType string
	}{
		{input: "8.8.8.8", wantStr: "udp://8.8.8.8:53", wantType: "plain"},
		{input: "8.8.8.8:5353", wantStr: "udp://8.8.8.8:5353", wantType: "plain"},
		{input: "udp://1.1.1.1", wantStr: "udp://1.1.1.1:53", wantType: "plain"},
		{input: "tcp://1.1.1.1:53", wantStr: "tcp://1.1.1.1:53", wantType: "plain"},
		{input: "udp://[2606:4700:4700::1111]:53", wantStr: "udp://[2606:4700:4700::1111]:53", wantType: "plain"},
		{input: "doh://cloudflare-dns.com/dns-query", wantStr: "doh://cloudflare-dns.com/dns-query", wantType: "doh"},
		{input: "https://dns.google/dns-query", wantStr: "doh://dns.google/dns-query", wantType: "doh"},
		{input: "udp://dns.google", wantErr: true},
		{input: "tls://1.1.1.1", wantErr: true},
		{input: "doh:///dns-query", wantErr: true},
		{input: "not an address", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			u, err := ParseUpstream(tt.input, time.Second)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got upstream %v", tt.input, u)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if u.String() != tt.wantStr {
				t.Errorf("String() = %q, want %q", u.String(), tt.wantStr)
			}
			switch u.(type) {
			case *PlainUpstream:
				if tt.wantType != "plain" {
					t.Errorf("Expected %s upstream, got plain", tt.wantType)
				}
			case *DoHUpstream:
				if tt.wantType != "doh" {
					t.Errorf("Expected %s upstream, got doh", tt.wantType)
				}
			}
		})
	}
}

func TestDoHUpstream_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != dnsMessageContentType {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(r.Body)
		req := new(dns.Msg)
		if err := req.Unpack(body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := new(dns.Msg)
		resp.SetReply(req)
		resp.Answer = append(resp.Answer, &dns.A{
			Hdr: dns.RR_Header{Name: req.Question[0].Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
			A:   net.ParseIP("9.9.9.9"),
		})
		packed, _ := resp.Pack()
		w.Header().Set("Content-Type", dnsMessageContentType)
		_, _ = w.Write(packed)
	}))
	defer srv.Close()

	up := NewDoHUpstream(srv.URL, time.Second)
	defer up.Close()

	r := NewDNSResolver([]Upstream{up}, time.Second)
	if res := r.Probe(context.Background(), "api.example.com"); res.Outcome != Live {
		t.Errorf("Expected live over DoH, got %v (err: %v)", res.Outcome, res.Err)
	}
}

func TestDoHUpstream_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind ErrorKind
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantKind: KindTransport,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte{0x01})
			},
			wantKind: KindMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			r := NewDNSResolver([]Upstream{NewDoHUpstream(srv.URL, time.Second)}, time.Second)
			res := r.Probe(context.Background(), "api.example.com")
			if res.Outcome != Indeterminate {
				t.Fatalf("Outcome = %v, want indeterminate", res.Outcome)
			}
			if res.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q (err: %v)", res.Kind, tt.wantKind, res.Err)
			}
		})
	}
}
