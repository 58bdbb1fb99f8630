package ranking

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/hireloop/talentsearch/internal/domain/level"
)

// Neutral score returned when the search has no target seniority level.
const neutralExperienceScore = 75

// Title scores per match tier.
const (
	titleExactMatch     = 100
	titleBroaderExec    = 80
	titleNoMatch        = 50
	titleNoMatchExec    = 20
	titleEmpty          = 40
	yearsUnderFloor     = 30
	yearsOverFloor      = 70
	yearsUnderPenalty   = 15 // per missing year
	yearsOverPenalty    = 5  // per excess year
	yearsInRange        = 100
)

// Experience is the outcome of scoring years and title against a target
// seniority level.
type Experience struct {
	Score   float64
	Summary string
}

// ScoreExperience scores years-of-experience and title fit against the
// target level. title must be the store-normalized lowercase current title.
// Pure function of its inputs.
func ScoreExperience(years float64, title string, target level.Level) Experience {
	cfg, ok := level.ConfigFor(target)
	if !ok {
		return Experience{
			Score:   neutralExperienceScore,
			Summary: fmt.Sprintf("%.0f years of experience, no target level", years),
		}
	}

	yearsScore := scoreYears(years, cfg)
	titleScore := scoreTitle(title, target, cfg)

	final := math.Round(yearsScore*(1-cfg.TitleWeight) + titleScore*cfg.TitleWeight)

	return Experience{
		Score: final,
		Summary: fmt.Sprintf("%.0f years of experience against %s target (%.0f-%.0f years), title fit %.0f/100",
			years, target, cfg.MinYears, cfg.MaxYears, titleScore),
	}
}

// scoreYears rewards the target range and degrades asymmetrically outside
// it: under-experience is penalized harder (floor 30) than over-experience
// (floor 70).
func scoreYears(years float64, cfg level.Config) float64 {
	switch {
	case years >= cfg.MinYears && years <= cfg.MaxYears:
		return yearsInRange
	case years < cfg.MinYears:
		gap := cfg.MinYears - years
		return math.Max(yearsUnderFloor, yearsInRange-gap*yearsUnderPenalty)
	default:
		excess := years - cfg.MaxYears
		return math.Max(yearsOverFloor, yearsInRange-excess*yearsOverPenalty)
	}
}

func scoreTitle(title string, target level.Level, cfg level.Config) float64 {
	if title == "" {
		return titleEmpty
	}
	padded := padWords(title)
	for _, kw := range cfg.TitleKeywords {
		if strings.Contains(padded, " "+kw+" ") {
			return titleExactMatch
		}
	}
	if target == level.Executive {
		for _, kw := range level.BroaderExecutiveKeywords() {
			if strings.Contains(padded, " "+kw+" ") {
				return titleBroaderExec
			}
		}
		return titleNoMatchExec
	}
	return titleNoMatch
}

// padWords splits the title into words and rejoins them space-padded so
// keyword checks match whole words only: "director" must not hit the
// "cto" inside it, nor "svp" the "vp".
func padWords(title string) string {
	return " " + strings.Join(strings.FieldsFunc(title, isWordSep), " ") + " "
}

func isWordSep(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
