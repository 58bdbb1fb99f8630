// Package profile builds normalized candidate skill profiles from the raw
// analysis payload supplied by the candidate store.
package profile

// Record is a single normalized skill with its confidence and provenance.
type Record struct {
	Name       string
	Confidence float64 // 0-100
	Category   string
	Evidence   []string
}

// Profile is a candidate's normalized skill->confidence map. Rebuilt fresh
// per request, never persisted.
type Profile struct {
	candidateID string
	records     map[string]Record
	order       []string // canonical names in insertion order
	avgConf     float64
	categories  map[string]int
}

// CandidateID returns the candidate identifier.
func (p *Profile) CandidateID() string { return p.candidateID }

// Record looks up a skill by canonical name.
func (p *Profile) Record(canonical string) (Record, bool) {
	r, ok := p.records[canonical]
	return r, ok
}

// Len returns the number of distinct skills.
func (p *Profile) Len() int { return len(p.records) }

// Skills returns canonical skill names in insertion order
// (explicit groups first, then inferred tiers by descending confidence).
func (p *Profile) Skills() []string { return p.order }

// AverageConfidence returns the arithmetic mean over all records, 0 if empty.
func (p *Profile) AverageConfidence() float64 { return p.avgConf }

// CategoryCounts returns the number of skills per category.
func (p *Profile) CategoryCounts() map[string]int { return p.categories }
