// Package candidate implements the read-side candidate profile store.
package candidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hireloop/talentsearch/internal/db"
	"github.com/hireloop/talentsearch/internal/domain/profile"
)

// store is the consumer interface for candidate document reads (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo implements usecase/search.CandidateReader.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a candidate repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key(candidateID string) string {
	return r.keyPrefix + "candidate:" + candidateID
}

// GetAnalysis loads and narrows one candidate's analysis payload.
// A missing document yields (nil, nil): the candidate is still ranked with
// an empty profile rather than excluded.
func (r *Repo) GetAnalysis(ctx context.Context, candidateID string) (*profile.Analysis, error) {
	data, err := r.store.JSONGet(ctx, r.key(candidateID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate %s: %w", candidateID, err)
	}

	var doc candidateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode candidate %s: %w", candidateID, err)
	}
	return doc.toAnalysis(candidateID), nil
}
