package lists

import (
	"fmt"
	"os"
	"strings"

	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/utils"
)

// Document is a parsed blocklist.
type Document struct {
	// Lines holds the kept lines without their trailing newline.
	Lines []string
	// Known holds every lowercased hostname in Lines.
	Known map[string]struct{}
	// Raw is the exact content that was parsed.
	Raw []byte
}

// ParseFile reads and parses the blocklist at path.
func ParseFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError(fmt.Sprintf("blocklist not found at %s", path), err)
		}
		return nil, errors.NewListError("failed to read blocklist", err)
	}
	return Parse(raw), nil
}

// Parse splits raw into lines. Comment and blank lines are kept as is. A
// domain line is kept unless its hostname appeared on an earlier line.
func Parse(raw []byte) *Document {
	doc := &Document{
		Known: make(map[string]struct{}),
		Raw:   raw,
	}

	text := string(raw)
	if text == "" {
		return doc
	}
	text = strings.TrimSuffix(text, "\n")

	for _, line := range strings.Split(text, "\n") {
		if utils.IsCommentOrBlank(line) {
			doc.Lines = append(doc.Lines, line)
			continue
		}

		host := utils.HostnameField(line)
		if _, ok := doc.Known[host]; ok {
			continue
		}
		doc.Known[host] = struct{}{}
		doc.Lines = append(doc.Lines, line)
	}
	return doc
}

// Count returns the number of distinct hostnames.
func (d *Document) Count() int {
	return len(d.Known)
}

// sectionStart returns the index of the marker line, or -1.
func (d *Document) sectionStart() int {
	for i, line := range d.Lines {
		if strings.Contains(line, SectionMarker) {
			return i
		}
	}
	return -1
}

// HasGeneratedSection reports whether a generated section is present.
func (d *Document) HasGeneratedSection() bool {
	return d.sectionStart() >= 0
}

// GeneratedDate returns the date stamped on the generated section, or "".
func (d *Document) GeneratedDate() string {
	i := d.sectionStart()
	if i < 0 {
		return ""
	}
	line := d.Lines[i]
	rest := line[strings.Index(line, SectionMarker)+len(SectionMarker):]
	return strings.TrimSpace(rest)
}

// Previous returns the hostnames inside the generated section, in file order.
func (d *Document) Previous() []string {
	i := d.sectionStart()
	if i < 0 {
		return nil
	}
	var hosts []string
	for _, line := range d.Lines[i+1:] {
		if utils.IsCommentOrBlank(line) {
			continue
		}
		hosts = append(hosts, utils.HostnameField(line))
	}
	return hosts
}

// base returns the lines before the generated section, without the blank
// lines directly above it. Files written by older tooling also put a single
// "# ═══" rule right above the marker; that rule is dropped too.
func (d *Document) base() []string {
	cut := d.sectionStart()
	if cut < 0 {
		cut = len(d.Lines)
	} else if cut > 0 && isHeaderRule(d.Lines[cut-1]) {
		cut--
	}
	for cut > 0 && strings.TrimSpace(d.Lines[cut-1]) == "" {
		cut--
	}
	return d.Lines[:cut]
}

func isHeaderRule(line string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))
	return rest != "" && strings.Trim(rest, headerRuleChar) == ""
}

// WriteFile atomically replaces the blocklist at path, keeping its mode.
func WriteFile(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := utils.WriteFileAtomic(path, data, perm); err != nil {
		return errors.NewListError(fmt.Sprintf("failed to write blocklist %s", path), err)
	}
	return nil
}
