package lists

import (
	"sort"
	"strings"
	"time"

	"github.com/valyala/fasttemplate"
)

const (
	// SectionMarker identifies the first line of the generated section.
	SectionMarker = "DISCOVERED DOMAINS — generated"

	// DefaultSeedsLabel names the seed list in the section header.
	DefaultSeedsLabel = "scripts/vendors.txt"

	// EntryPrefix is prepended to every generated hostname.
	EntryPrefix = "0.0.0.0 "

	headerRuleChar = "═"
	sectionWidth   = 80
)

var (
	headerRule = "# " + strings.Repeat(headerRuleChar, sectionWidth-2)

	headerTemplate = fasttemplate.New(`# `+SectionMarker+` {{date}}
`+headerRule+`
# These entries were found via DNS subdomain enumeration of the seed domains
# listed in {{seeds}}. Re-run "blocklist discover" to refresh.
`+headerRule, "{{", "}}")

	footerLine = footerText()
)

func footerText() string {
	s := "# ── End of discovered domains "
	return s + strings.Repeat("─", sectionWidth-len([]rune(s)))
}

// RenderOptions tunes the generated section.
type RenderOptions struct {
	// KeepPrevious carries hostnames of the existing generated section into
	// the new one. Without it a refresh lists only newHosts.
	KeepPrevious bool
	// SeedsLabel names the seed list in the header. Defaults to DefaultSeedsLabel.
	SeedsLabel string
}

// Render returns the document with its generated section replaced by one
// listing newHosts, dated now. With no new hosts Raw is returned unchanged.
func (d *Document) Render(newHosts []string, now time.Time, opts RenderOptions) []byte {
	if len(newHosts) == 0 {
		return d.Raw
	}

	hosts := newHosts
	if opts.KeepPrevious {
		hosts = union(d.Previous(), newHosts)
	}
	seeds := opts.SeedsLabel
	if seeds == "" {
		seeds = DefaultSeedsLabel
	}

	base := d.base()
	lines := make([]string, 0, len(base)+len(hosts)+8)
	lines = append(lines, base...)
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, strings.Split(Header(now, seeds), "\n")...)
	for _, h := range hosts {
		lines = append(lines, EntryPrefix+h)
	}
	lines = append(lines, footerLine)

	return []byte(strings.Join(lines, "\n") + "\n")
}

// Header renders the section header for the given date, without a trailing newline.
func Header(now time.Time, seedsLabel string) string {
	return headerTemplate.ExecuteString(map[string]interface{}{
		"date":  now.Format(time.DateOnly),
		"seeds": seedsLabel,
	})
}

// Footer returns the closing line of the generated section.
func Footer() string {
	return footerLine
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, h := range list {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	sort.Strings(out)
	return out
}
