// Package level defines the fixed seniority level table used by the
// experience scorer.
package level

// Level is a target seniority level.
type Level string

// Supported seniority levels.
const (
	Entry     Level = "entry"
	Mid       Level = "mid"
	Senior    Level = "senior"
	Executive Level = "executive"
)

// IsValid reports whether l is a known level.
func (l Level) IsValid() bool {
	switch l {
	case Entry, Mid, Senior, Executive:
		return true
	}
	return false
}

// Config holds the per-level scoring parameters.
type Config struct {
	MinYears      float64
	MaxYears      float64
	TitleKeywords []string
	// TitleWeight is the share of the final experience score carried by the
	// title match. Title matters more at the top.
	TitleWeight float64
}

// configs is the fixed four-level table. Read-only after initialization.
var configs = map[Level]Config{
	Entry: {
		MinYears:      0,
		MaxYears:      2,
		TitleKeywords: []string{"intern", "junior", "graduate", "trainee", "entry"},
		TitleWeight:   0.5,
	},
	Mid: {
		MinYears:      2,
		MaxYears:      6,
		TitleKeywords: []string{"engineer", "developer", "analyst", "specialist", "consultant"},
		TitleWeight:   0.5,
	},
	Senior: {
		MinYears:      5,
		MaxYears:      15,
		TitleKeywords: []string{"senior", "lead", "staff", "principal", "architect"},
		TitleWeight:   0.5,
	},
	Executive: {
		MinYears:      12,
		MaxYears:      50,
		TitleKeywords: []string{"cto", "ceo", "coo", "cio", "chief", "vp", "vice president", "president", "founder"},
		TitleWeight:   0.7,
	},
}

// broaderExecutiveKeywords grant partial title credit for executive targets:
// leadership titles one rung below the C-suite.
var broaderExecutiveKeywords = []string{"director", "head of", "executive", "general manager"}

// ConfigFor returns the scoring parameters for a level.
func ConfigFor(l Level) (Config, bool) {
	c, ok := configs[l]
	return c, ok
}

// BroaderExecutiveKeywords returns the partial-credit keyword list for
// executive targets.
func BroaderExecutiveKeywords() []string {
	return broaderExecutiveKeywords
}
