package candidate

import (
	"strings"

	"github.com/hireloop/talentsearch/internal/domain/profile"
)

// candidateDoc is the stored JSON document shape. The skill payload is
// validated into the typed Analysis exactly once at this boundary; scoring
// never sees the raw document.
type candidateDoc struct {
	CandidateID     string   `json:"candidate_id"`
	CurrentTitle    string   `json:"current_title"`
	YearsExperience float64  `json:"years_experience"`
	Companies       []string `json:"companies,omitempty"`
	Summary         string   `json:"summary,omitempty"`

	ExplicitSkills profile.ExplicitSkills `json:"explicit_skills"`
	InferredSkills profile.InferredSkills `json:"inferred_skills"`

	// Embedding is indexed by the FT layer; never read here.
	Embedding []float32 `json:"embedding,omitempty"`
}

// toAnalysis narrows the document to the typed analysis payload. The title
// is lowercased here so scorers can rely on normalized input.
func (d *candidateDoc) toAnalysis(candidateID string) *profile.Analysis {
	return &profile.Analysis{
		CandidateID:     candidateID,
		Explicit:        d.ExplicitSkills,
		Inferred:        d.InferredSkills,
		YearsExperience: d.YearsExperience,
		CurrentTitle:    strings.ToLower(strings.TrimSpace(d.CurrentTitle)),
		Companies:       d.Companies,
		Summary:         d.Summary,
	}
}
