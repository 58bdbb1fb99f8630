package search

import (
	"context"

	"github.com/hireloop/talentsearch/internal/domain/candidate"
	"github.com/hireloop/talentsearch/internal/domain/profile"
	"github.com/hireloop/talentsearch/internal/usecase/rerank"
)

// Retriever runs the vector similarity retrieval over the candidate index.
type Retriever interface {
	Retrieve(ctx context.Context, vector []float32, limit int, filters map[string]string) ([]candidate.Hit, error)
}

// CandidateReader loads raw candidate analysis payloads. A missing
// candidate yields (nil, nil), not an error.
type CandidateReader interface {
	GetAnalysis(ctx context.Context, candidateID string) (*profile.Analysis, error)
}

// Reranker is the external cross-encoder-style reranker. Returns results
// ordered best-first.
type Reranker interface {
	Rerank(ctx context.Context, query string, records []rerank.Record, topN int) ([]rerank.Ranked, error)
}
