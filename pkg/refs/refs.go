// Package refs extracts tracker issue-key references from free text such as
// commit messages, pull request titles and branch names.
package refs

import (
	"regexp"
	"sort"
	"strings"
)

// keyPattern matches project-prefixed issue keys like "OCM-123". The project
// code is 2-10 letters, matching is case-insensitive and word-bounded so
// keys embedded in longer alphanumeric tokens are not picked up.
var keyPattern = regexp.MustCompile(`(?i)\b[A-Za-z]{2,10}-\d+\b`)

// Extract returns the unique issue keys referenced in text, normalized to
// upper case and sorted. It returns nil when text contains no references.
func Extract(text string) []string {
	if text == "" {
		return nil
	}

	matches := keyPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	keys := make([]string, 0, len(matches))

	for _, m := range matches {
		key := strings.ToUpper(m)
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// ExtractAll returns the union of references across several texts, normalized
// and sorted like Extract.
func ExtractAll(texts ...string) []string {
	seen := make(map[string]struct{})

	var keys []string

	for _, text := range texts {
		for _, key := range Extract(text) {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}
