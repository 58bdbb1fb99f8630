// Package query defines the validated search query value object.
package query

import (
	"fmt"

	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/level"
)

// Search parameter limits.
const (
	MaxQueryLength       = 4096
	DefaultLimit         = 20
	MaxLimit             = 300
	DefaultMinConfidence = 70
	DefaultSkillWeight   = 1.0
)

// Normalizer canonicalizes free-text skill names.
type Normalizer interface {
	Normalize(raw string) string
}

// SkillRequirement is a validated, canonicalized skill requirement.
type SkillRequirement struct {
	raw           string
	canonical     string
	minConfidence float64 // 0-100
	weight        float64 // 0-1
	category      string
}

// Raw returns the skill name as supplied by the caller.
func (r *SkillRequirement) Raw() string { return r.raw }

// Canonical returns the normalized lookup key.
func (r *SkillRequirement) Canonical() string { return r.canonical }

// MinConfidence returns the confidence threshold for full credit.
func (r *SkillRequirement) MinConfidence() float64 { return r.minConfidence }

// Weight returns the requirement weight.
func (r *SkillRequirement) Weight() float64 { return r.weight }

// Category returns the optional requirement category.
func (r *SkillRequirement) Category() string { return r.category }

// SkillParam is the unvalidated skill requirement input.
type SkillParam struct {
	Skill         string
	MinConfidence *float64 // default 70
	Weight        *float64 // default 1.0
	Category      string
}

// Params is the unvalidated search query input.
type Params struct {
	Text                 string
	RequiredSkills       []SkillParam
	PreferredSkills      []SkillParam
	ExperienceLevel      string
	MinOverallConfidence float64
	Filters              map[string]string
	Limit                int // default 20
	Offset               int
	Weights              *candidate.Weights // nil = defaults

	// Job metadata driving the stage-2 hiring-logic guidance.
	JobFunction string
	JobLevel    string // c-level, vp, director, manager, or an IC level
	JobTitle    string
}

// Query is a validated search query.
type Query struct {
	text            string
	required        []SkillRequirement
	preferred       []SkillRequirement
	experienceLevel level.Level // "" when no target level
	minOverallConf  float64
	filters         map[string]string
	limit           int
	offset          int
	weights         candidate.Weights
	jobFunction     string
	jobLevel        string
	jobTitle        string
}

// New validates and normalizes search parameters. Skill names are
// canonicalized once here; scoring components only ever see canonical keys.
func New(p Params, norm Normalizer) (Query, error) {
	var fields []domain.FieldError

	if p.Text == "" {
		fields = append(fields, domain.FieldError{Path: "text_query", Message: "is required"})
	}
	if len(p.Text) > MaxQueryLength {
		fields = append(fields, domain.FieldError{
			Path:    "text_query",
			Message: fmt.Sprintf("exceeds %d characters", MaxQueryLength),
		})
	}

	lvl := level.Level(p.ExperienceLevel)
	if p.ExperienceLevel != "" && !lvl.IsValid() {
		fields = append(fields, domain.FieldError{
			Path:    "experience_level",
			Message: fmt.Sprintf("must be one of entry, mid, senior, executive; got %q", p.ExperienceLevel),
		})
	}

	if p.MinOverallConfidence < 0 || p.MinOverallConfidence > 100 {
		fields = append(fields, domain.FieldError{
			Path:    "minimum_overall_confidence",
			Message: "must be between 0 and 100",
		})
	}

	limit := p.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		fields = append(fields, domain.FieldError{
			Path:    "limit",
			Message: fmt.Sprintf("must be between 1 and %d", MaxLimit),
		})
	}
	if p.Offset < 0 {
		fields = append(fields, domain.FieldError{Path: "offset", Message: "must be non-negative"})
	}

	weights := candidate.DefaultWeights()
	if p.Weights != nil {
		if err := p.Weights.Validate(); err != nil {
			fields = append(fields, domain.FieldError{Path: "ranking_weights", Message: err.Error()})
		} else {
			weights = *p.Weights
		}
	}

	required, reqFields := buildRequirements("required_skills", p.RequiredSkills, norm)
	fields = append(fields, reqFields...)
	preferred, prefFields := buildRequirements("preferred_skills", p.PreferredSkills, norm)
	fields = append(fields, prefFields...)

	if len(fields) > 0 {
		return Query{}, domain.NewValidationError(fields...)
	}

	return Query{
		text:            p.Text,
		required:        required,
		preferred:       preferred,
		experienceLevel: lvl,
		minOverallConf:  p.MinOverallConfidence,
		filters:         p.Filters,
		limit:           limit,
		offset:          p.Offset,
		weights:         weights,
		jobFunction:     p.JobFunction,
		jobLevel:        p.JobLevel,
		jobTitle:        p.JobTitle,
	}, nil
}

func buildRequirements(path string, params []SkillParam, norm Normalizer) ([]SkillRequirement, []domain.FieldError) {
	var fields []domain.FieldError
	reqs := make([]SkillRequirement, 0, len(params))
	for i, p := range params {
		if p.Skill == "" {
			fields = append(fields, domain.FieldError{
				Path:    fmt.Sprintf("%s[%d].skill", path, i),
				Message: "is required",
			})
			continue
		}
		minConf := float64(DefaultMinConfidence)
		if p.MinConfidence != nil {
			minConf = *p.MinConfidence
		}
		if minConf < 0 || minConf > 100 {
			fields = append(fields, domain.FieldError{
				Path:    fmt.Sprintf("%s[%d].minimum_confidence", path, i),
				Message: "must be between 0 and 100",
			})
		}
		weight := DefaultSkillWeight
		if p.Weight != nil {
			weight = *p.Weight
		}
		if weight < 0 || weight > 1 {
			fields = append(fields, domain.FieldError{
				Path:    fmt.Sprintf("%s[%d].weight", path, i),
				Message: "must be between 0 and 1",
			})
		}
		reqs = append(reqs, SkillRequirement{
			raw:           p.Skill,
			canonical:     norm.Normalize(p.Skill),
			minConfidence: minConf,
			weight:        weight,
			category:      p.Category,
		})
	}
	return reqs, fields
}

// Text returns the free-text job query.
func (q *Query) Text() string { return q.text }

// RequiredSkills returns the canonicalized required skills.
func (q *Query) RequiredSkills() []SkillRequirement { return q.required }

// PreferredSkills returns the canonicalized preferred skills.
func (q *Query) PreferredSkills() []SkillRequirement { return q.preferred }

// ExperienceLevel returns the target seniority level, "" when unset.
func (q *Query) ExperienceLevel() level.Level { return q.experienceLevel }

// MinOverallConfidence returns the minimum average confidence filter.
func (q *Query) MinOverallConfidence() float64 { return q.minOverallConf }

// Filters returns the structured retrieval pre-filters.
func (q *Query) Filters() map[string]string { return q.filters }

// Limit returns the page size.
func (q *Query) Limit() int { return q.limit }

// Offset returns the page offset.
func (q *Query) Offset() int { return q.offset }

// Weights returns the effective ranking weights.
func (q *Query) Weights() candidate.Weights { return q.weights }

// JobFunction returns the job's functional area, "" when unset.
func (q *Query) JobFunction() string { return q.jobFunction }

// JobLevel returns the job's organizational level, "" when unset.
func (q *Query) JobLevel() string { return q.jobLevel }

// JobTitle returns the job title, "" when unset.
func (q *Query) JobTitle() string { return q.jobTitle }
