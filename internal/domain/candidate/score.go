// Package candidate defines the scored-candidate output model of the
// ranking pipeline.
package candidate

import "fmt"

// Weights holds the coefficients of the composite ranking formula.
// Non-negative; not required to sum to 1, and the composite score is not
// reclamped, so overrides can push the overall score outside [0,100].
type Weights struct {
	SkillMatch       float64 `json:"skill_match"`
	Confidence       float64 `json:"confidence"`
	VectorSimilarity float64 `json:"vector_similarity"`
	ExperienceMatch  float64 `json:"experience_match"`
}

// DefaultWeights returns the stock coefficients.
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:       0.4,
		Confidence:       0.25,
		VectorSimilarity: 0.2,
		ExperienceMatch:  0.15,
	}
}

// Validate rejects negative coefficients.
func (w Weights) Validate() error {
	fields := map[string]float64{
		"skill_match":       w.SkillMatch,
		"confidence":        w.Confidence,
		"vector_similarity": w.VectorSimilarity,
		"experience_match":  w.ExperienceMatch,
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("ranking weight %s must be non-negative, got %v", name, v)
		}
	}
	return nil
}

// Score is a fully scored candidate. Deterministic given identical inputs.
type Score struct {
	CandidateID string `json:"candidate_id"`

	// Component scores, each clamped to [0,100].
	SkillMatchScore       float64 `json:"skill_match_score"`
	ConfidenceScore       float64 `json:"confidence_score"`
	VectorSimilarityScore float64 `json:"vector_similarity_score"`
	ExperienceMatchScore  float64 `json:"experience_match_score"`

	// OverallScore is the weighted sum of the components, deliberately not
	// reclamped (weight overrides may exceed the component range).
	OverallScore float64 `json:"overall_score"`

	// SkillBreakdown maps each required skill to the exact contribution
	// value used by the skill-match scorer (0 if unmatched).
	SkillBreakdown map[string]float64 `json:"skill_breakdown,omitempty"`

	RankingFactors Factors `json:"ranking_factors"`

	RerankScore    *float64 `json:"rerank_score,omitempty"`
	RerankPosition *int     `json:"rerank_position,omitempty"`
}

// Factors mirrors already-computed ranking inputs for explainability.
// Never recomputed independently from the component scorers.
type Factors struct {
	RequiredMatched          int            `json:"required_matched"`
	RequiredTotal            int            `json:"required_total"`
	AverageMatchedConfidence float64        `json:"average_matched_confidence"`
	CategoryDistribution     map[string]int `json:"category_distribution,omitempty"`
	ExperienceSummary        string         `json:"experience_summary"`
	VectorSimilarity         float64        `json:"vector_similarity"` // raw 0-1
}
