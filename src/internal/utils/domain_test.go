package utils

import "testing"

func TestNormalizeHostname(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already normal", in: "example.com", want: "example.com"},
		{name: "uppercase", in: "CDN.Example.COM", want: "cdn.example.com"},
		{name: "trailing dot", in: "example.com.", want: "example.com"},
		{name: "surrounding spaces", in: "  example.com \t", want: "example.com"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeHostname(tt.in); got != tt.want {
				t.Errorf("NormalizeHostname(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsCommentOrBlank(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{line: "", want: true},
		{line: "   ", want: true},
		{line: "# comment", want: true},
		{line: "   # indented comment", want: true},
		{line: "0.0.0.0 example.com", want: false},
		{line: "example.com # trailing", want: false},
	}

	for _, tt := range tests {
		if got := IsCommentOrBlank(tt.line); got != tt.want {
			t.Errorf("IsCommentOrBlank(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestHostnameField(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "bare hostname", line: "example.com", want: "example.com"},
		{name: "hosts format", line: "0.0.0.0 Tracker.Example.com", want: "tracker.example.com"},
		{name: "other marker", line: "127.0.0.1\tads.example.com", want: "ads.example.com"},
		{name: "several spaces", line: "  0.0.0.0    a.example.com  ", want: "a.example.com"},
		{name: "empty", line: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HostnameField(tt.line); got != tt.want {
				t.Errorf("HostnameField(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsDNSName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "example.com", want: true},
		{in: "cdn.example.co.uk", want: true},
		{in: "under_score.example.com", want: true},
		{in: "1.2.3.4", want: false},
		{in: "::1", want: false},
		{in: "", want: false},
		{in: "bad host.com", want: false},
		{in: "-leading.example.com", want: false},
	}

	for _, tt := range tests {
		if got := IsDNSName(tt.in); got != tt.want {
			t.Errorf("IsDNSName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
