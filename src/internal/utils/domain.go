package utils

import "strings"

// NormalizeHostname lowercases a hostname and strips surrounding whitespace
// and a single trailing root dot.
func NormalizeHostname(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimSuffix(host, ".")
}

// IsCommentOrBlank reports whether a list line carries no entry: it is
// empty, whitespace only, or starts with '#' after leading whitespace.
func IsCommentOrBlank(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// HostnameField extracts the hostname from a hosts-style entry. Both
// "example.com" and "0.0.0.0 example.com" forms are accepted; only the last
// whitespace-delimited token is significant. The result is normalized.
func HostnameField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return NormalizeHostname(fields[len(fields)-1])
}
