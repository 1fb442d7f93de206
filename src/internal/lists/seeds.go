package lists

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/publicsuffix"

	"github.com/maksimkurb/blocklist-attest/src/internal/errors"
	"github.com/maksimkurb/blocklist-attest/src/internal/log"
	"github.com/maksimkurb/blocklist-attest/src/internal/utils"
)

// LoadSeeds reads the seed list at path.
func LoadSeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError(
				fmt.Sprintf("seeds file not found at %s; create it with one vendor domain per line", path), err)
		}
		return nil, errors.NewListError("failed to open seeds file", err)
	}
	defer utils.CloseOrWarn(f)

	seeds, err := ParseSeeds(f)
	if err != nil {
		return nil, errors.NewListError(fmt.Sprintf("failed to read seeds file %s", path), err)
	}
	return seeds, nil
}

// ParseSeeds returns one normalized hostname per non-comment line, in file
// order without duplicates. Invalid names and bare public suffixes such as
// "co.uk" are skipped with a warning.
func ParseSeeds(r io.Reader) ([]string, error) {
	var seeds []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if utils.IsCommentOrBlank(line) {
			continue
		}

		seed := utils.NormalizeHostname(line)
		if !utils.IsDNSName(seed) {
			log.Warnf("Seeds line %d: %q is not a valid hostname, skipping", lineNo, line)
			continue
		}
		if isPublicSuffix(seed) {
			log.Warnf("Seeds line %d: %q is a public suffix, not a vendor domain, skipping", lineNo, seed)
			continue
		}
		if _, ok := seen[seed]; ok {
			continue
		}
		seen[seed] = struct{}{}
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seeds, nil
}

// isPublicSuffix reports whether host is itself a public suffix, ICANN or
// private ("github.io"). Unlisted single labels count as suffixes too.
func isPublicSuffix(host string) bool {
	suffix, _ := publicsuffix.PublicSuffix(host)
	return suffix == host
}
