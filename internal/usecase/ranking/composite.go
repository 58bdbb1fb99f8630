package ranking

import (
	"sort"

	"github.com/hireloop/talentsearch/internal/domain/candidate"
)

// Combine folds the four component scores into the composite score.
// Components are expected clamped to [0,100]; the weighted sum itself is
// not reclamped (weight overrides may leave the component range).
func Combine(skillMatch, confidence, vectorSimilarity, experience float64, w candidate.Weights) float64 {
	return skillMatch*w.SkillMatch +
		confidence*w.Confidence +
		vectorSimilarity*w.VectorSimilarity +
		experience*w.ExperienceMatch
}

// SortScores orders scores descending by overall score, with ties broken by
// descending vector similarity, then ascending candidate ID. Fully
// deterministic for identical inputs.
func SortScores(scores []candidate.Score) {
	sort.Slice(scores, func(i, j int) bool {
		a, b := &scores[i], &scores[j]
		if a.OverallScore != b.OverallScore {
			return a.OverallScore > b.OverallScore
		}
		if a.VectorSimilarityScore != b.VectorSimilarityScore {
			return a.VectorSimilarityScore > b.VectorSimilarityScore
		}
		return a.CandidateID < b.CandidateID
	})
}
