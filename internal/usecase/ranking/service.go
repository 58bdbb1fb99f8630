// Package ranking implements the skill-aware multi-factor candidate
// scoring engine: skill coverage, confidence, vector similarity, and
// experience fit folded into one composite score.
package ranking

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/profile"
	"github.com/hireloop/talentsearch/internal/domain/query"
	"github.com/hireloop/talentsearch/internal/domain/skill"
)

// Candidate is one retrieved pool member awaiting scoring.
type Candidate struct {
	ID         string
	Similarity float64 // raw vector similarity in [0,1]
	Analysis   *profile.Analysis
}

// Service scores and orders a retrieved candidate pool. All state is
// request-scoped; the taxonomy is read-only after initialization.
type Service struct {
	tax     *skill.Taxonomy
	builder *profile.Builder
}

// New creates a ranking service over the given taxonomy.
func New(tax *skill.Taxonomy) *Service {
	return &Service{tax: tax, builder: profile.NewBuilder(tax)}
}

// Rank scores every pool member and returns the deterministically ordered
// result. Scoring is pure CPU work with no shared mutation, so candidates
// are scored concurrently; each goroutine writes only its own slice index.
// Cancellation aborts with an explicit error instead of emitting a
// partially scored ranking.
func (s *Service) Rank(ctx context.Context, q *query.Query, pool []Candidate) ([]candidate.Score, error) {
	scores := make([]candidate.Score, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range pool {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrSearchAborted, err)
			}
			scores[i] = s.scoreCandidate(q, &pool[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortScores(scores)
	return scores, nil
}

// scoreCandidate computes the four component scores and the composite for
// one candidate. A candidate without analysis data gets an empty profile
// and is still scored, never excluded.
func (s *Service) scoreCandidate(q *query.Query, c *Candidate) candidate.Score {
	prof := s.builder.Build(c.ID, c.Analysis)

	match := MatchSkills(prof, q.RequiredSkills(), s.tax)

	var years float64
	var title string
	if c.Analysis != nil {
		years = c.Analysis.YearsExperience
		title = c.Analysis.CurrentTitle
	}
	exp := ScoreExperience(years, title, q.ExperienceLevel())

	vectorScore := clampScore(c.Similarity * 100)
	confidenceScore := clampScore(prof.AverageConfidence())
	skillScore := clampScore(match.Score)
	expScore := clampScore(exp.Score)

	overall := Combine(skillScore, confidenceScore, vectorScore, expScore, q.Weights())

	return candidate.Score{
		CandidateID:           c.ID,
		SkillMatchScore:       skillScore,
		ConfidenceScore:       confidenceScore,
		VectorSimilarityScore: vectorScore,
		ExperienceMatchScore:  expScore,
		OverallScore:          overall,
		SkillBreakdown:        match.Breakdown,
		RankingFactors: candidate.Factors{
			RequiredMatched:          match.Matched,
			RequiredTotal:            match.Total,
			AverageMatchedConfidence: match.AvgMatchedConfidence,
			CategoryDistribution:     prof.CategoryCounts(),
			ExperienceSummary:        exp.Summary,
			VectorSimilarity:         c.Similarity,
		},
	}
}

// BuildProfile exposes profile construction for collaborators that need the
// narrowed profile (rerank summaries use the skill list).
func (s *Service) BuildProfile(c *Candidate) *profile.Profile {
	return s.builder.Build(c.ID, c.Analysis)
}
