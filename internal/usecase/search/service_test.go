package search

import (
	"context"
	"errors"
	"testing"

	"github.com/hireloop/talentsearch/internal/domain"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/profile"
	"github.com/hireloop/talentsearch/internal/domain/query"
	"github.com/hireloop/talentsearch/internal/domain/skill"
	"github.com/hireloop/talentsearch/internal/usecase/ranking"
	"github.com/hireloop/talentsearch/internal/usecase/rerank"
)

// --- Mocks ---

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockRetriever struct {
	hits      []candidate.Hit
	err       error
	lastLimit int
}

func (m *mockRetriever) Retrieve(
	_ context.Context, _ []float32, limit int, _ map[string]string,
) ([]candidate.Hit, error) {
	m.lastLimit = limit
	return m.hits, m.err
}

type mockReader struct {
	analyses map[string]*profile.Analysis
	err      error
}

func (m *mockReader) GetAnalysis(_ context.Context, id string) (*profile.Analysis, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.analyses[id], nil
}

type mockReranker struct {
	ranked    []rerank.Ranked
	err       error
	called    bool
	lastQuery string
	lastTopN  int
	lastCount int
}

func (m *mockReranker) Rerank(
	_ context.Context, q string, records []rerank.Record, topN int,
) ([]rerank.Ranked, error) {
	m.called = true
	m.lastQuery = q
	m.lastTopN = topN
	m.lastCount = len(records)
	return m.ranked, m.err
}

func analysisFor(title string, years float64, skills ...string) *profile.Analysis {
	a := &profile.Analysis{CurrentTitle: title, YearsExperience: years}
	for _, s := range skills {
		a.Explicit.Technical = append(a.Explicit.Technical, profile.ExplicitSkill{Skill: s})
	}
	return a
}

func makeQuery(t *testing.T, p query.Params) *query.Query {
	t.Helper()
	if p.Text == "" {
		p.Text = "backend engineer"
	}
	q, err := query.New(p, skill.Default())
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &q
}

func newService(embed *mockEmbedder, retr *mockRetriever, reader *mockReader) *Service {
	tax := skill.Default()
	return New(embed, retr, reader, ranking.New(tax), tax)
}

// --- Tests ---

func TestSearch_Basic(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	retr := &mockRetriever{hits: []candidate.Hit{
		{CandidateID: "a", Similarity: 0.9},
		{CandidateID: "b", Similarity: 0.5},
	}}
	reader := &mockReader{analyses: map[string]*profile.Analysis{
		"a": analysisFor("senior engineer", 7, "go"),
		"b": analysisFor("engineer", 3, "java"),
	}}
	svc := newService(embed, retr, reader)

	q := makeQuery(t, query.Params{RequiredSkills: []query.SkillParam{{Skill: "go"}}})
	res, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !embed.called {
		t.Error("expected Embed to be called")
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(res.Candidates))
	}
	if res.Candidates[0].CandidateID != "a" {
		t.Errorf("top candidate = %s, want a", res.Candidates[0].CandidateID)
	}
	if res.Metadata.TotalEvaluated != 2 {
		t.Errorf("TotalEvaluated = %d, want 2", res.Metadata.TotalEvaluated)
	}
	if !res.Metadata.SkillFilteringApplied {
		t.Error("expected SkillFilteringApplied with required skills present")
	}
	if res.Metadata.RerankApplied {
		t.Error("rerank must not apply without a reranker")
	}
	if res.QueryAnalysis.RequiredSkills[0] != "go" {
		t.Errorf("QueryAnalysis.RequiredSkills = %v", res.QueryAnalysis.RequiredSkills)
	}
	if res.QueryAnalysis.TaxonomyVersion == "" {
		t.Error("expected taxonomy version in query analysis")
	}
}

func TestSearch_EmbedFailure(t *testing.T) {
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := newService(embed, &mockRetriever{}, &mockReader{})

	_, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if !errors.Is(err, domain.ErrRetrievalFailed) {
		t.Fatalf("expected ErrRetrievalFailed, got %v", err)
	}
}

func TestSearch_EmbedCancelled(t *testing.T) {
	embed := &mockEmbedder{err: context.Canceled}
	svc := newService(embed, &mockRetriever{}, &mockReader{})

	_, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if !errors.Is(err, domain.ErrSearchAborted) {
		t.Fatalf("expected ErrSearchAborted, got %v", err)
	}
}

func TestSearch_RetrieverFailure(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{err: errors.New("index missing")}
	svc := newService(embed, retr, &mockReader{})

	_, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if !errors.Is(err, domain.ErrRetrievalFailed) {
		t.Fatalf("expected ErrRetrievalFailed, got %v", err)
	}
}

func TestSearch_MissingProfileStillRanked(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: []candidate.Hit{{CandidateID: "ghost", Similarity: 0.8}}}
	reader := &mockReader{analyses: map[string]*profile.Analysis{}}
	svc := newService(embed, retr, reader)

	res, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("expected ghost candidate ranked, got %d", len(res.Candidates))
	}
	if res.Candidates[0].ConfidenceScore != 0 {
		t.Errorf("ConfidenceScore = %v, want 0 for empty profile", res.Candidates[0].ConfidenceScore)
	}
}

func TestSearch_ReaderFailureIsFatal(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: []candidate.Hit{{CandidateID: "a", Similarity: 0.8}}}
	reader := &mockReader{err: errors.New("store down")}
	svc := newService(embed, retr, reader)

	_, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if err == nil {
		t.Fatal("expected error when the candidate store fails")
	}
}

func TestSearch_ConfidenceFilter(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: []candidate.Hit{
		{CandidateID: "strong", Similarity: 0.9},
		{CandidateID: "weak", Similarity: 0.8},
	}}
	reader := &mockReader{analyses: map[string]*profile.Analysis{
		"strong": analysisFor("engineer", 5, "go"),
		"weak":   nil, // empty profile, confidence 0
	}}
	svc := newService(embed, retr, reader)

	q := makeQuery(t, query.Params{MinOverallConfidence: 50})
	res, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].CandidateID != "strong" {
		t.Fatalf("expected only strong to survive the filter, got %v", res.Candidates)
	}
	if !res.Metadata.SkillFilteringApplied {
		t.Error("expected SkillFilteringApplied with a confidence floor")
	}
}

func TestSearch_Pagination(t *testing.T) {
	hits := make([]candidate.Hit, 5)
	analyses := make(map[string]*profile.Analysis, 5)
	for i := range hits {
		id := string(rune('a' + i))
		hits[i] = candidate.Hit{CandidateID: id, Similarity: 0.9 - float64(i)*0.1}
		analyses[id] = analysisFor("engineer", 5, "go")
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: hits}
	svc := newService(embed, retr, &mockReader{analyses: analyses})

	q := makeQuery(t, query.Params{Limit: 2, Offset: 2})
	res, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(res.Candidates))
	}
	if res.Candidates[0].CandidateID != "c" || res.Candidates[1].CandidateID != "d" {
		t.Errorf("page = %s,%s, want c,d", res.Candidates[0].CandidateID, res.Candidates[1].CandidateID)
	}
	if retr.lastLimit != 4 {
		t.Errorf("retrieval limit = %d, want limit+offset = 4", retr.lastLimit)
	}
}

func TestSearch_OffsetBeyondResults(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: []candidate.Hit{{CandidateID: "a", Similarity: 0.9}}}
	svc := newService(embed, retr, &mockReader{})

	q := makeQuery(t, query.Params{Limit: 10, Offset: 50})
	res, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 0 {
		t.Fatalf("expected empty page, got %d", len(res.Candidates))
	}
}

func TestSearch_RerankApplied(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: []candidate.Hit{
		{CandidateID: "a", Similarity: 0.9},
		{CandidateID: "b", Similarity: 0.8},
	}}
	reader := &mockReader{analyses: map[string]*profile.Analysis{
		"a": analysisFor("engineer", 5, "go"),
		"b": analysisFor("engineer", 4, "go"),
	}}
	rr := &mockReranker{ranked: []rerank.Ranked{{ID: "b", Score: 0.99}, {ID: "a", Score: 0.42}}}
	svc := newService(embed, retr, reader).WithReranker(rr, 50, false)

	q := makeQuery(t, query.Params{JobLevel: "director", JobTitle: "Director of Engineering", JobFunction: "engineering"})
	res, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rr.called {
		t.Fatal("expected reranker to be called")
	}
	if !res.Metadata.RerankApplied || res.Metadata.RerankFailed {
		t.Errorf("Metadata = %+v, want rerank applied", res.Metadata)
	}
	if res.Candidates[0].CandidateID != "b" {
		t.Errorf("top = %s, want reranked b", res.Candidates[0].CandidateID)
	}
	if res.Candidates[0].RerankPosition == nil || *res.Candidates[0].RerankPosition != 1 {
		t.Error("expected rerank position 1 on b")
	}
	if rr.lastTopN != 2 {
		t.Errorf("topN = %d, want clamped to 2 records", rr.lastTopN)
	}
	if rr.lastQuery == "" {
		t.Error("expected a non-empty rerank query")
	}
	// Pool widened to feed the stage-2 cap.
	if retr.lastLimit != rerank.MaxRecords {
		t.Errorf("retrieval limit = %d, want %d with reranker enabled", retr.lastLimit, rerank.MaxRecords)
	}
}

func TestSearch_RerankFailureDegrades(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: []candidate.Hit{
		{CandidateID: "a", Similarity: 0.9},
		{CandidateID: "b", Similarity: 0.8},
	}}
	rr := &mockReranker{err: errors.New("reranker down")}
	svc := newService(embed, retr, &mockReader{}).WithReranker(rr, 50, false)

	res, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	if res.Metadata.RerankApplied {
		t.Error("RerankApplied must be false after a failure")
	}
	if !res.Metadata.RerankFailed {
		t.Error("RerankFailed must be true after a failure")
	}
	if res.Candidates[0].CandidateID != "a" {
		t.Errorf("top = %s, want stage-1 order preserved", res.Candidates[0].CandidateID)
	}
}

func TestSearch_RerankFailureMandatory(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: []candidate.Hit{{CandidateID: "a", Similarity: 0.9}}}
	rr := &mockReranker{err: errors.New("reranker down")}
	svc := newService(embed, retr, &mockReader{}).WithReranker(rr, 50, true)

	_, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if !errors.Is(err, domain.ErrRerankFailed) {
		t.Fatalf("expected ErrRerankFailed, got %v", err)
	}
}

func TestSearch_RerankCancelledAborts(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{hits: []candidate.Hit{{CandidateID: "a", Similarity: 0.9}}}
	rr := &mockReranker{err: context.DeadlineExceeded}
	svc := newService(embed, retr, &mockReader{}).WithReranker(rr, 50, false)

	_, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if !errors.Is(err, domain.ErrSearchAborted) {
		t.Fatalf("expected ErrSearchAborted even in non-mandatory mode, got %v", err)
	}
}

func TestSearch_EmptyPoolSkipsRerank(t *testing.T) {
	embed := &mockEmbedder{vec: []float32{0.1}}
	retr := &mockRetriever{}
	rr := &mockReranker{}
	svc := newService(embed, retr, &mockReader{}).WithReranker(rr, 50, false)

	res, err := svc.Search(context.Background(), makeQuery(t, query.Params{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rr.called {
		t.Error("reranker must not be called for an empty pool")
	}
	if len(res.Candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(res.Candidates))
	}
}
