// Package retrieval implements vector similarity retrieval over the
// candidate FT index.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hireloop/talentsearch/internal/db"
	"github.com/hireloop/talentsearch/internal/domain/candidate"
)

// Filterable candidate index tag fields.
var tagFields = []string{"location", "function", "work_mode"}

// store is the consumer interface for retrieval operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig holds index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements usecase/search.Retriever over the candidate index.
type Repo struct {
	store     store
	keyPrefix string
	hnsw      HNSWConfig
}

// New creates a retrieval repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// WithHNSW overrides HNSW build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "candidates:idx"
}

func (r *Repo) docPrefix() string {
	return r.keyPrefix + "candidate:"
}

// EnsureIndex creates the candidate FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, vectorDim int) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("probe candidate index: %w", err)
	}
	if exists {
		return nil
	}

	if err := r.store.CreateIndex(ctx, r.indexDefinition(vectorDim)); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create candidate index: %w", err)
	}
	return nil
}

// RecreateIndex drops and rebuilds the candidate FT index. Needed when the
// embedding dimensions change: FT indexes cannot be altered in place.
func (r *Repo) RecreateIndex(ctx context.Context, vectorDim int) error {
	if err := r.store.DropIndex(ctx, r.indexName()); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop candidate index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, r.indexDefinition(vectorDim)); err != nil {
		return fmt.Errorf("create candidate index: %w", err)
	}
	return nil
}

func (r *Repo) indexDefinition(vectorDim int) *db.IndexDefinition {
	fields := []db.IndexField{{
		Name:              "$.embedding",
		Alias:             "vector",
		Type:              db.IndexFieldVector,
		VectorDim:         vectorDim,
		VectorDistance:    db.DistanceCosine,
		VectorM:           r.hnsw.M,
		VectorEFConstruct: r.hnsw.EFConstruct,
	}, {
		Name:  "$.years_experience",
		Alias: "years_experience",
		Type:  db.IndexFieldNumeric,
	}}
	for _, tag := range tagFields {
		fields = append(fields, db.IndexField{
			Name:  "$." + tag,
			Alias: tag,
			Type:  db.IndexFieldTag,
		})
	}

	return &db.IndexDefinition{
		Name:        r.indexName(),
		StorageType: db.StorageJSON,
		Prefixes:    []string{r.docPrefix()},
		Fields:      fields,
	}
}

// Retrieve runs KNN over the candidate index. Unknown filter fields are
// rejected so typos fail loudly instead of silently matching nothing.
func (r *Repo) Retrieve(
	ctx context.Context, vector []float32, limit int, filters map[string]string,
) ([]candidate.Hit, error) {
	for field := range filters {
		if !isFilterable(field) {
			return nil, fmt.Errorf("unknown filter field %q", field)
		}
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:  r.indexName(),
		Vector:     vector,
		K:          limit,
		TagFilters: filters,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	hits := make([]candidate.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hits = append(hits, candidate.Hit{
			CandidateID: strings.TrimPrefix(e.Key, r.docPrefix()),
			Similarity:  e.Score,
		})
	}
	return hits, nil
}

func isFilterable(field string) bool {
	for _, f := range tagFields {
		if f == field {
			return true
		}
	}
	return false
}
