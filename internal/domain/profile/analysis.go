package profile

// Analysis is the typed per-candidate payload supplied by the candidate
// store. All fields are optional: a missing analysis yields an empty
// profile, never an error.
type Analysis struct {
	CandidateID     string         `json:"candidate_id"`
	Explicit        ExplicitSkills `json:"explicit_skills"`
	Inferred        InferredSkills `json:"inferred_skills"`
	YearsExperience float64        `json:"years_experience"`
	// CurrentTitle is supplied pre-normalized (lowercase) by the store.
	CurrentTitle string   `json:"current_title"`
	Companies    []string `json:"companies,omitempty"`
	Summary      string   `json:"summary,omitempty"`
}

// ExplicitSkills groups skills stated directly in the candidate's documents.
type ExplicitSkills struct {
	Technical      []ExplicitSkill `json:"technical,omitempty"`
	Tools          []ExplicitSkill `json:"tools,omitempty"`
	Soft           []ExplicitSkill `json:"soft,omitempty"`
	Certifications []ExplicitSkill `json:"certifications,omitempty"`
	Languages      []ExplicitSkill `json:"languages,omitempty"`
}

// ExplicitSkill is a directly stated skill. Confidence defaults to 100
// when absent.
type ExplicitSkill struct {
	Skill      string   `json:"skill"`
	Confidence *float64 `json:"confidence,omitempty"`
	Evidence   []string `json:"evidence,omitempty"`
}

// InferredSkills groups skills derived by the upstream classifier, in four
// descending-confidence tiers.
type InferredSkills struct {
	HighlyProbable []InferredSkill `json:"highly_probable,omitempty"`
	Probable       []InferredSkill `json:"probable,omitempty"`
	Likely         []InferredSkill `json:"likely,omitempty"`
	Possible       []InferredSkill `json:"possible,omitempty"`
}

// InferredSkill is a classifier-derived skill with its own confidence.
type InferredSkill struct {
	Skill      string  `json:"skill"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
	Category   string  `json:"category,omitempty"`
}
