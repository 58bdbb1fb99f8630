package profile

import "github.com/hireloop/talentsearch/internal/domain/skill"

// Explicit skill group categories.
const (
	CategoryTechnical      = "technical"
	CategoryTools          = "tools"
	CategorySoft           = "soft"
	CategoryCertifications = "certifications"
	CategoryLanguages      = "languages"
	CategoryInferred       = "inferred"
)

const defaultExplicitConfidence = 100

// Builder converts raw analysis payloads into normalized profiles.
type Builder struct {
	tax *skill.Taxonomy
}

// NewBuilder creates a profile builder over the given taxonomy.
func NewBuilder(tax *skill.Taxonomy) *Builder {
	return &Builder{tax: tax}
}

// Build produces a normalized skill profile. Explicit groups are processed
// first, then inferred tiers in descending-confidence order; an existing
// record is overwritten only when the new confidence is strictly greater.
// A nil analysis yields an empty profile.
func (b *Builder) Build(candidateID string, a *Analysis) *Profile {
	p := &Profile{
		candidateID: candidateID,
		records:     make(map[string]Record),
		categories:  make(map[string]int),
	}
	if a == nil {
		return p
	}

	explicitGroups := []struct {
		category string
		skills   []ExplicitSkill
	}{
		{CategoryTechnical, a.Explicit.Technical},
		{CategoryTools, a.Explicit.Tools},
		{CategorySoft, a.Explicit.Soft},
		{CategoryCertifications, a.Explicit.Certifications},
		{CategoryLanguages, a.Explicit.Languages},
	}
	for _, g := range explicitGroups {
		for _, s := range g.skills {
			conf := float64(defaultExplicitConfidence)
			if s.Confidence != nil {
				conf = *s.Confidence
			}
			b.upsert(p, Record{
				Name:       b.tax.Normalize(s.Skill),
				Confidence: clampConfidence(conf),
				Category:   g.category,
				Evidence:   s.Evidence,
			})
		}
	}

	inferredTiers := [][]InferredSkill{
		a.Inferred.HighlyProbable,
		a.Inferred.Probable,
		a.Inferred.Likely,
		a.Inferred.Possible,
	}
	for _, tier := range inferredTiers {
		for _, s := range tier {
			category := s.Category
			if category == "" {
				category = CategoryInferred
			}
			var evidence []string
			if s.Reasoning != "" {
				evidence = []string{s.Reasoning}
			}
			b.upsert(p, Record{
				Name:       b.tax.Normalize(s.Skill),
				Confidence: clampConfidence(s.Confidence),
				Category:   category,
				Evidence:   evidence,
			})
		}
	}

	p.finalize()
	return p
}

// upsert inserts a record, keeping the higher confidence on collision.
func (b *Builder) upsert(p *Profile, r Record) {
	if r.Name == "" {
		return
	}
	existing, ok := p.records[r.Name]
	if !ok {
		p.records[r.Name] = r
		p.order = append(p.order, r.Name)
		return
	}
	if r.Confidence > existing.Confidence {
		p.records[r.Name] = r
	}
}

// finalize computes the average confidence and category counts from the
// merged records.
func (p *Profile) finalize() {
	if len(p.records) == 0 {
		p.avgConf = 0
		return
	}
	var sum float64
	for _, name := range p.order {
		r := p.records[name]
		sum += r.Confidence
		p.categories[r.Category]++
	}
	p.avgConf = sum / float64(len(p.records))
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
