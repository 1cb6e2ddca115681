// Package identity resolves raw developer identity strings (names, the
// various email forms a developer commits under) to one canonical identity
// used for aggregation. Resolution is a pure lookup: unknown identities pass
// through unchanged and become their own canonical form.
package identity

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unknown is the canonical identity substituted for empty raw strings.
const Unknown = "<unknown>"

// Map resolves raw identity strings to canonical developer identities.
// The zero value of *Map is usable and resolves every identity to itself.
type Map struct {
	aliases map[string]string
}

// NewMap builds a Map from alias → canonical pairs. Alias matching is
// case-insensitive and whitespace-trimmed.
func NewMap(aliases map[string]string) *Map {
	normalized := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		normalized[normalizeAlias(alias)] = canonical
	}

	return &Map{aliases: normalized}
}

// Resolve returns the canonical identity for a raw identity string. Unmapped
// identities are returned trimmed but otherwise unchanged; empty strings
// resolve to Unknown. Resolve never fails.
func (m *Map) Resolve(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Unknown
	}

	if m == nil || m.aliases == nil {
		return trimmed
	}

	if canonical, ok := m.aliases[normalizeAlias(trimmed)]; ok {
		return canonical
	}

	return trimmed
}

// ResolveAll resolves a set of raw identities, deduplicating canonical
// collisions. The result is sorted for deterministic iteration.
func (m *Map) ResolveAll(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	resolved := make([]string, 0, len(raw))

	for _, r := range raw {
		canonical := m.Resolve(r)
		if _, dup := seen[canonical]; dup {
			continue
		}

		seen[canonical] = struct{}{}
		resolved = append(resolved, canonical)
	}

	sort.Strings(resolved)

	return resolved
}

func normalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// mapFile is the on-disk YAML shape: canonical identity → list of aliases.
type mapFile map[string][]string

// LoadMap reads an identity map from a YAML file of the form:
//
//	Jane Doe:
//	  - jane@corp.example
//	  - jdoe
//
// Canonical names are also registered as aliases of themselves so that raw
// occurrences of the canonical form resolve consistently.
func LoadMap(path string) (*Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity map: %w", err)
	}

	var file mapFile

	unmarshalErr := yaml.Unmarshal(raw, &file)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("parse identity map: %w", unmarshalErr)
	}

	aliases := make(map[string]string)

	for canonical, names := range file {
		aliases[canonical] = canonical
		for _, name := range names {
			aliases[name] = canonical
		}
	}

	return NewMap(aliases), nil
}
