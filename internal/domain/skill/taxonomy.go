// Package skill provides canonical skill name normalization and
// family-based relatedness used for partial-credit matching.
package skill

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var embeddedTaxonomy []byte

// Family is a fixed set of technologies treated as mutually substitutable
// for partial-credit scoring.
type Family struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// Taxonomy holds the versioned alias and family tables. Immutable after load.
type Taxonomy struct {
	version  string
	aliases  map[string]string
	families []Family
	// memberOf maps a canonical skill to the indexes of families containing it.
	memberOf map[string][]int
}

// taxonomyFile is the YAML wire format.
type taxonomyFile struct {
	Version  string            `yaml:"version"`
	Aliases  map[string]string `yaml:"aliases"`
	Families []Family          `yaml:"families"`
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the taxonomy embedded in the binary.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Parse(embeddedTaxonomy)
		if err != nil {
			panic("embedded skill taxonomy is invalid: " + err.Error())
		}
		defaultTax = t
	})
	return defaultTax
}

// Load reads a taxonomy from a YAML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a taxonomy from YAML bytes and validates that alias targets
// are themselves canonical, which makes Normalize idempotent.
func Parse(data []byte) (*Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal taxonomy: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("taxonomy version is required")
	}

	aliases := make(map[string]string, len(f.Aliases))
	for raw, target := range f.Aliases {
		key := canonicalize(raw)
		val := canonicalize(target)
		if key == "" || val == "" {
			return nil, fmt.Errorf("empty alias entry %q -> %q", raw, target)
		}
		aliases[key] = val
	}
	for key, val := range aliases {
		if chained, ok := aliases[val]; ok && chained != val {
			return nil, fmt.Errorf("alias chain %q -> %q -> %q breaks idempotence", key, val, chained)
		}
	}

	t := &Taxonomy{
		version:  f.Version,
		aliases:  aliases,
		families: make([]Family, 0, len(f.Families)),
		memberOf: make(map[string][]int),
	}
	for _, fam := range f.Families {
		if fam.Name == "" || len(fam.Members) == 0 {
			return nil, fmt.Errorf("family %q must have a name and members", fam.Name)
		}
		members := make([]string, len(fam.Members))
		for i, m := range fam.Members {
			members[i] = t.Normalize(m)
		}
		idx := len(t.families)
		t.families = append(t.families, Family{Name: fam.Name, Members: members})
		for _, m := range members {
			t.memberOf[m] = append(t.memberOf[m], idx)
		}
	}
	return t, nil
}

// Version returns the taxonomy version string.
func (t *Taxonomy) Version() string { return t.version }

// Normalize canonicalizes a free-text skill name: lowercase, trim, collapse
// whitespace, then map through the alias table. Unmatched input passes
// through lowercased. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func (t *Taxonomy) Normalize(raw string) string {
	name := canonicalize(raw)
	if target, ok := t.aliases[name]; ok {
		return target
	}
	return name
}

// Related returns canonical skills treated as substitutable for the given
// canonical skill (members of any family containing it, excluding itself).
func (t *Taxonomy) Related(canonical string) []string {
	idxs, ok := t.memberOf[canonical]
	if !ok {
		return nil
	}
	var related []string
	seen := map[string]struct{}{canonical: {}}
	for _, idx := range idxs {
		for _, m := range t.families[idx].Members {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			related = append(related, m)
		}
	}
	return related
}

// canonicalize lowercases, trims, and collapses internal whitespace.
func canonicalize(raw string) string {
	fields := strings.Fields(strings.ToLower(raw))
	return strings.Join(fields, " ")
}
