package candidate

// Hit is one raw retrieval result before scoring.
type Hit struct {
	CandidateID string
	Similarity  float64 // 0-1, cosine similarity
}
