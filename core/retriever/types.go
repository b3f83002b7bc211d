package retriever

// RetrieveReq carries one retrieval request. Query is required; the pointer
// fields fall back to the configured defaults when nil.
type RetrieveReq struct {
	Query string

	TopK  *int
	Score *float64
}

// Copy creates a copy of the request.
func (r *RetrieveReq) Copy() *RetrieveReq {
	return &RetrieveReq{
		Query: r.Query,
		TopK:  r.TopK,
		Score: r.Score,
	}
}
