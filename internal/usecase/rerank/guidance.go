package rerank

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed guidance.yaml
var embeddedGuidance []byte

// guidanceFile is the YAML wire format for the hiring-logic templates.
type guidanceFile struct {
	Version   string            `yaml:"version"`
	Templates map[string]string `yaml:"templates"`
}

// Template tiers. Each job level maps onto exactly one tier.
const (
	tierExecutive = "executive" // c-level, vp
	tierDirector  = "director"
	tierManager   = "manager"
	tierIC        = "ic" // default
)

var (
	guidanceOnce sync.Once
	guidance     guidanceFile
)

func loadGuidance() guidanceFile {
	guidanceOnce.Do(func() {
		if err := yaml.Unmarshal(embeddedGuidance, &guidance); err != nil {
			panic("embedded hiring guidance is invalid: " + err.Error())
		}
		for _, tier := range []string{tierExecutive, tierDirector, tierManager, tierIC} {
			if guidance.Templates[tier] == "" {
				panic("embedded hiring guidance is missing the " + tier + " template")
			}
		}
	})
	return guidance
}

// GuidanceVersion returns the hiring-logic template set version.
func GuidanceVersion() string { return loadGuidance().Version }

// HiringLogic builds the level-aware guidance block for the rerank query.
// Pure function of (function, level, title): identical inputs reproduce the
// block verbatim. Returns "" when no level is supplied.
func HiringLogic(function, jobLevel, title string) string {
	if jobLevel == "" {
		return ""
	}

	g := loadGuidance()
	template := g.Templates[tierFor(jobLevel)]

	var b strings.Builder
	fmt.Fprintf(&b, "ROLE: %s\n", title)
	fmt.Fprintf(&b, "FUNCTION: %s\n", function)
	fmt.Fprintf(&b, "LEVEL: %s\n\n", jobLevel)
	b.WriteString(template)
	return b.String()
}

// tierFor maps a job level onto its guidance tier.
func tierFor(jobLevel string) string {
	switch strings.ToLower(strings.TrimSpace(jobLevel)) {
	case "c-level", "vp":
		return tierExecutive
	case "director":
		return tierDirector
	case "manager":
		return tierManager
	default:
		return tierIC
	}
}
