package ranking

import (
	"github.com/hireloop/talentsearch/internal/domain/profile"
	"github.com/hireloop/talentsearch/internal/domain/query"
)

// Neutral score returned when a search carries no skill requirements, so
// open-ended searches are not penalized.
const neutralSkillScore = 80

// Partial-credit multipliers.
const (
	belowThresholdFactor = 0.5 // skill present but under the confidence bar
	relatedSkillFactor   = 0.7 // skill absent but a family member is present
)

// Related resolves family members for a canonical skill.
type Related interface {
	Related(canonical string) []string
}

// SkillMatch is the outcome of scoring one candidate against the skill
// requirements.
type SkillMatch struct {
	// Score is the normalized coverage score in [0,100].
	Score float64
	// Breakdown maps each requirement's raw name to the exact contribution
	// used in the score (0 if unmatched).
	Breakdown map[string]float64
	// Matched counts requirements with a non-zero contribution.
	Matched int
	// Total counts all requirements.
	Total int
	// AvgMatchedConfidence is the mean confidence over matched requirements.
	AvgMatchedConfidence float64
}

// MatchSkills scores coverage of the requirements against the candidate's
// profile. Pure function of its inputs.
//
// Per requirement: full credit (confidence x weight) at or above the
// minimum confidence, half credit below it, and 0.7x credit via the best
// related family member when the skill is absent entirely.
func MatchSkills(p *profile.Profile, reqs []query.SkillRequirement, fam Related) SkillMatch {
	if len(reqs) == 0 {
		return SkillMatch{Score: neutralSkillScore, Breakdown: map[string]float64{}}
	}

	m := SkillMatch{
		Breakdown: make(map[string]float64, len(reqs)),
		Total:     len(reqs),
	}

	var sum, weightSum, confSum float64
	for i := range reqs {
		req := &reqs[i]
		weightSum += req.Weight()

		contribution, matchedConf := requirementContribution(p, req, fam)
		m.Breakdown[req.Raw()] = contribution
		sum += contribution
		if contribution > 0 {
			m.Matched++
			confSum += matchedConf
		}
	}

	if weightSum > 0 {
		m.Score = clampScore(sum / weightSum)
	}
	if m.Matched > 0 {
		m.AvgMatchedConfidence = confSum / float64(m.Matched)
	}
	return m
}

// requirementContribution returns the weighted contribution for one
// requirement plus the confidence of the record that produced it.
func requirementContribution(p *profile.Profile, req *query.SkillRequirement, fam Related) (float64, float64) {
	if rec, ok := p.Record(req.Canonical()); ok {
		if rec.Confidence >= req.MinConfidence() {
			return rec.Confidence * req.Weight(), rec.Confidence
		}
		return rec.Confidence * belowThresholdFactor * req.Weight(), rec.Confidence
	}

	var best float64
	for _, related := range fam.Related(req.Canonical()) {
		if rec, ok := p.Record(related); ok && rec.Confidence > best {
			best = rec.Confidence
		}
	}
	if best > 0 {
		return best * relatedSkillFactor * req.Weight(), best
	}
	return 0, 0
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
