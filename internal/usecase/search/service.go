// Package search orchestrates the candidate search pipeline: query
// embedding, vector retrieval, profile loading, multi-factor ranking, and
// the optional stage-2 rerank pass.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/profile"
	"github.com/hireloop/talentsearch/internal/domain/query"
	"github.com/hireloop/talentsearch/internal/domain/skill"
	"github.com/hireloop/talentsearch/internal/metrics"
	"github.com/hireloop/talentsearch/internal/usecase/ranking"
	"github.com/hireloop/talentsearch/internal/usecase/rerank"
)

// profileLoadConcurrency bounds parallel candidate store reads.
const profileLoadConcurrency = 8

// Result is the final ranked search output.
type Result struct {
	Candidates    []candidate.Score
	QueryAnalysis QueryAnalysis
	Metadata      Metadata
}

// QueryAnalysis echoes how the query was interpreted.
type QueryAnalysis struct {
	Text            string
	RequiredSkills  []string // canonical
	PreferredSkills []string // canonical
	ExperienceLevel string
	Weights         candidate.Weights
	TaxonomyVersion string
}

// Metadata describes how the search executed.
type Metadata struct {
	TotalEvaluated        int
	SearchTimeMs          int64
	SkillFilteringApplied bool
	RerankApplied         bool
	RerankFailed          bool
}

// Service runs the two-stage search pipeline.
type Service struct {
	embed      domain.Embedder
	retriever  Retriever
	candidates CandidateReader
	ranker     *ranking.Service
	tax        *skill.Taxonomy

	reranker        Reranker
	rerankTopN      int
	rerankMandatory bool
}

// New creates a search service. The reranker stage is disabled until
// WithReranker is called.
func New(
	embed domain.Embedder,
	retriever Retriever,
	candidates CandidateReader,
	ranker *ranking.Service,
	tax *skill.Taxonomy,
) *Service {
	return &Service{
		embed:      embed,
		retriever:  retriever,
		candidates: candidates,
		ranker:     ranker,
		tax:        tax,
	}
}

// WithReranker enables the stage-2 rerank pass. When mandatory is true a
// reranker failure fails the whole request; otherwise the stage-1 ranking
// is returned annotated with RerankFailed.
func (s *Service) WithReranker(r Reranker, topN int, mandatory bool) *Service {
	s.reranker = r
	s.rerankTopN = topN
	s.rerankMandatory = mandatory
	return s
}

// Search executes the pipeline for one validated query.
func (s *Service) Search(ctx context.Context, q *query.Query) (*Result, error) {
	result, err := s.search(ctx, q)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.SearchRequestsTotal.WithLabelValues("success").Inc()
	metrics.SearchCandidatesEvaluated.Observe(float64(result.Metadata.TotalEvaluated))
	return result, nil
}

func (s *Service) search(ctx context.Context, q *query.Query) (*Result, error) {
	start := time.Now()

	stage := time.Now()
	embResult, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		if isCancelled(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrSearchAborted, err)
		}
		return nil, fmt.Errorf("%w: vectorize query: %w", domain.ErrRetrievalFailed, err)
	}
	metrics.SearchStageDuration.WithLabelValues("embed").Observe(time.Since(stage).Seconds())

	stage = time.Now()
	hits, err := s.retriever.Retrieve(ctx, embResult.Embedding, s.poolLimit(q), q.Filters())
	if err != nil {
		if isCancelled(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrSearchAborted, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}
	metrics.SearchStageDuration.WithLabelValues("retrieve").Observe(time.Since(stage).Seconds())

	stage = time.Now()
	analyses, err := s.loadAnalyses(ctx, hits)
	if err != nil {
		return nil, err
	}
	metrics.SearchStageDuration.WithLabelValues("load_profiles").Observe(time.Since(stage).Seconds())

	pool := make([]ranking.Candidate, len(hits))
	for i, h := range hits {
		pool[i] = ranking.Candidate{
			ID:         h.CandidateID,
			Similarity: h.Similarity,
			Analysis:   analyses[i],
		}
	}

	stage = time.Now()
	scores, err := s.ranker.Rank(ctx, q, pool)
	if err != nil {
		return nil, err
	}
	metrics.SearchStageDuration.WithLabelValues("rank").Observe(time.Since(stage).Seconds())

	meta := Metadata{TotalEvaluated: len(pool)}
	scores, meta.SkillFilteringApplied = s.applyConfidenceFilter(q, scores)

	if s.reranker != nil {
		stage = time.Now()
		scores, meta.RerankApplied, meta.RerankFailed, err = s.rerankStage(ctx, q, scores, pool, analyses)
		if err != nil {
			return nil, err
		}
		metrics.SearchStageDuration.WithLabelValues("rerank").Observe(time.Since(stage).Seconds())
	}

	scores = paginate(scores, q.Offset(), q.Limit())

	meta.SearchTimeMs = time.Since(start).Milliseconds()
	return &Result{
		Candidates:    scores,
		QueryAnalysis: s.analyzeQuery(q),
		Metadata:      meta,
	}, nil
}

// poolLimit sizes the retrieval pool: enough for the requested page, and
// enough to feed the stage-2 cap when reranking is enabled.
func (s *Service) poolLimit(q *query.Query) int {
	limit := q.Limit() + q.Offset()
	if s.reranker != nil && limit < rerank.MaxRecords {
		limit = rerank.MaxRecords
	}
	return limit
}

// loadAnalyses fetches the raw analysis payloads in parallel, index-aligned
// with hits. Missing candidates stay nil and are still ranked with an empty
// profile; store failures are fatal.
func (s *Service) loadAnalyses(ctx context.Context, hits []candidate.Hit) ([]*profile.Analysis, error) {
	analyses := make([]*profile.Analysis, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileLoadConcurrency)
	for i := range hits {
		i := i
		g.Go(func() error {
			a, err := s.candidates.GetAnalysis(gctx, hits[i].CandidateID)
			if err != nil {
				if isCancelled(err) {
					return fmt.Errorf("%w: %w", domain.ErrSearchAborted, err)
				}
				return fmt.Errorf("load candidate %s: %w", hits[i].CandidateID, err)
			}
			analyses[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return analyses, nil
}

// applyConfidenceFilter drops candidates below the minimum overall
// confidence. Reports whether any skill-based filtering shaped the result.
func (s *Service) applyConfidenceFilter(q *query.Query, scores []candidate.Score) ([]candidate.Score, bool) {
	applied := len(q.RequiredSkills()) > 0 || q.MinOverallConfidence() > 0
	if q.MinOverallConfidence() <= 0 {
		return scores, applied
	}

	filtered := scores[:0]
	for _, sc := range scores {
		if sc.ConfidenceScore >= q.MinOverallConfidence() {
			filtered = append(filtered, sc)
		}
	}
	return filtered, applied
}

// rerankStage runs the external rerank pass over the stage-1 top slice.
// Cancellation aborts the request; other failures either fail the request
// (mandatory) or degrade to the stage-1 ranking with RerankFailed set.
func (s *Service) rerankStage(
	ctx context.Context, q *query.Query,
	scores []candidate.Score, pool []ranking.Candidate, analyses []*profile.Analysis,
) ([]candidate.Score, bool, bool, error) {
	if len(scores) == 0 {
		return scores, false, false, nil
	}

	byID := make(map[string]int, len(pool))
	for i := range pool {
		byID[pool[i].ID] = i
	}

	capped := scores
	if len(capped) > rerank.MaxRecords {
		capped = capped[:rerank.MaxRecords]
	}
	sources := make([]rerank.Source, len(capped))
	for i, sc := range capped {
		idx := byID[sc.CandidateID]
		sources[i] = s.rerankSource(&pool[idx], analyses[idx])
	}

	records := rerank.BuildRecords(sources)
	rq := rerank.BuildQuery(q.Text(), q.JobFunction(), q.JobLevel(), q.JobTitle())
	topN := rerank.TopN(s.rerankTopN, len(records))

	ranked, err := s.reranker.Rerank(ctx, rq, records, topN)
	if err != nil {
		if isCancelled(err) {
			return nil, false, false, fmt.Errorf("%w: %w", domain.ErrSearchAborted, err)
		}
		if s.rerankMandatory {
			return nil, false, false, fmt.Errorf("%w: %w", domain.ErrRerankFailed, err)
		}
		return scores, false, true, nil
	}

	return rerank.Merge(scores, ranked), true, false, nil
}

// rerankSource narrows one candidate to the fields of its rerank summary.
func (s *Service) rerankSource(c *ranking.Candidate, a *profile.Analysis) rerank.Source {
	src := rerank.Source{ID: c.ID}
	if a == nil {
		return src
	}
	src.Title = a.CurrentTitle
	src.Years = a.YearsExperience
	src.Companies = a.Companies
	src.Summary = a.Summary
	src.Skills = s.ranker.BuildProfile(c).Skills()
	return src
}

func (s *Service) analyzeQuery(q *query.Query) QueryAnalysis {
	return QueryAnalysis{
		Text:            q.Text(),
		RequiredSkills:  canonicalNames(q.RequiredSkills()),
		PreferredSkills: canonicalNames(q.PreferredSkills()),
		ExperienceLevel: string(q.ExperienceLevel()),
		Weights:         q.Weights(),
		TaxonomyVersion: s.tax.Version(),
	}
}

func canonicalNames(reqs []query.SkillRequirement) []string {
	if len(reqs) == 0 {
		return nil
	}
	names := make([]string, len(reqs))
	for i := range reqs {
		names[i] = reqs[i].Canonical()
	}
	return names
}

func paginate(scores []candidate.Score, offset, limit int) []candidate.Score {
	if offset >= len(scores) {
		return nil
	}
	scores = scores[offset:]
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
