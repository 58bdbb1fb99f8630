package retrieval

import (
	"context"
	"testing"

	"github.com/hireloop/talentsearch/internal/db"
)

// --- Mocks ---

type mockStore struct {
	searchResult *db.SearchResult
	searchErr    error
	lastQuery    *db.KNNQuery

	indexExists bool
	existsErr   error
	createErr   error
	created     *db.IndexDefinition
	dropErr     error
	dropped     []string
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.searchResult == nil {
		return &db.SearchResult{}, nil
	}
	return m.searchResult, nil
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	m.created = def
	return m.createErr
}

func (m *mockStore) DropIndex(_ context.Context, name string) error {
	m.dropped = append(m.dropped, name)
	return m.dropErr
}

func (m *mockStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return m.indexExists, m.existsErr
}

// --- Tests ---

func TestRetrieve_StripsKeyPrefix(t *testing.T) {
	store := &mockStore{searchResult: &db.SearchResult{
		Total: 2,
		Entries: []db.SearchEntry{
			{Key: "talentsearch:candidate:cand-1", Score: 0.92},
			{Key: "talentsearch:candidate:cand-2", Score: 0.85},
		},
	}}
	repo := New(store, "talentsearch:")

	hits, err := repo.Retrieve(context.Background(), []float32{0.1}, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].CandidateID != "cand-1" || hits[0].Similarity != 0.92 {
		t.Errorf("hit = %+v", hits[0])
	}
	if store.lastQuery.IndexName != "talentsearch:candidates:idx" {
		t.Errorf("index = %q", store.lastQuery.IndexName)
	}
	if store.lastQuery.K != 10 {
		t.Errorf("K = %d, want 10", store.lastQuery.K)
	}
}

func TestRetrieve_RejectsUnknownFilter(t *testing.T) {
	repo := New(&mockStore{}, "talentsearch:")

	_, err := repo.Retrieve(context.Background(), []float32{0.1}, 10,
		map[string]string{"locatino": "berlin"})
	if err == nil {
		t.Fatal("expected error for unknown filter field")
	}
}

func TestRetrieve_PassesKnownFilters(t *testing.T) {
	store := &mockStore{}
	repo := New(store, "talentsearch:")

	filters := map[string]string{"location": "berlin", "work_mode": "remote"}
	if _, err := repo.Retrieve(context.Background(), []float32{0.1}, 10, filters); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.lastQuery.TagFilters["location"] != "berlin" {
		t.Errorf("TagFilters = %v", store.lastQuery.TagFilters)
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	store := &mockStore{indexExists: true}
	repo := New(store, "talentsearch:")

	if err := repo.EnsureIndex(context.Background(), 1536); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.created != nil {
		t.Error("CreateIndex must not be called for an existing index")
	}
}

func TestEnsureIndex_CreatesDefinition(t *testing.T) {
	store := &mockStore{}
	repo := New(store, "talentsearch:").WithHNSW(HNSWConfig{M: 32, EFConstruct: 400})

	if err := repo.EnsureIndex(context.Background(), 1536); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := store.created
	if def == nil {
		t.Fatal("expected CreateIndex call")
	}
	if def.StorageType != db.StorageJSON {
		t.Errorf("StorageType = %v, want JSON", def.StorageType)
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "talentsearch:candidate:" {
		t.Errorf("Prefixes = %v", def.Prefixes)
	}

	var vec *db.IndexField
	for i := range def.Fields {
		if def.Fields[i].Type == db.IndexFieldVector {
			vec = &def.Fields[i]
		}
	}
	if vec == nil {
		t.Fatal("expected a vector field")
	}
	if vec.VectorDim != 1536 || vec.VectorDistance != db.DistanceCosine || vec.VectorM != 32 {
		t.Errorf("vector field = %+v", *vec)
	}
}

func TestEnsureIndex_TolerantOfRace(t *testing.T) {
	store := &mockStore{createErr: db.ErrIndexExists}
	repo := New(store, "talentsearch:")

	if err := repo.EnsureIndex(context.Background(), 1536); err != nil {
		t.Fatalf("expected concurrent creation to be tolerated, got %v", err)
	}
}

func TestRecreateIndex_DropsThenCreates(t *testing.T) {
	store := &mockStore{}
	repo := New(store, "talentsearch:")

	if err := repo.RecreateIndex(context.Background(), 768); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.dropped) != 1 || store.dropped[0] != "talentsearch:candidates:idx" {
		t.Errorf("dropped = %v", store.dropped)
	}
	if store.created == nil {
		t.Fatal("expected CreateIndex call")
	}
	for i := range store.created.Fields {
		f := store.created.Fields[i]
		if f.Type == db.IndexFieldVector && f.VectorDim != 768 {
			t.Errorf("VectorDim = %d, want 768", f.VectorDim)
		}
	}
}

func TestRecreateIndex_TolerantOfMissingIndex(t *testing.T) {
	store := &mockStore{dropErr: db.ErrIndexNotFound}
	repo := New(store, "talentsearch:")

	if err := repo.RecreateIndex(context.Background(), 1536); err != nil {
		t.Fatalf("missing index must not fail recreate, got %v", err)
	}
	if store.created == nil {
		t.Error("expected CreateIndex call")
	}
}

func TestRecreateIndex_DropFailure(t *testing.T) {
	store := &mockStore{dropErr: context.DeadlineExceeded}
	repo := New(store, "talentsearch:")

	if err := repo.RecreateIndex(context.Background(), 1536); err == nil {
		t.Fatal("expected error")
	}
	if store.created != nil {
		t.Error("CreateIndex must not run after a failed drop")
	}
}
