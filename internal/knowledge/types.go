package knowledge

import "context"

// Entry is one FAQ record from the clinic knowledge corpus, read-only for
// the lifetime of the process once loaded.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source,omitempty"`
}

// Document is the text that gets embedded for an entry.
func (e Entry) Document() string {
	return e.Question + " " + e.Answer
}

// Match is a retrieval result ranked by similarity.
type Match struct {
	Question string  `json:"question,omitempty"`
	Answer   string  `json:"answer"`
	Source   string  `json:"source,omitempty"`
	Score    float64 `json:"score"`
}

// SentinelNoFAQs is returned as the sole result when the corpus is empty, so
// callers never have to special-case a zero-length answer set.
const SentinelNoFAQs = "No FAQs found."

// Retriever is the nearest-neighbor text search capability over the corpus.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]Match, error)
}

// Embedder turns text into vectors. Implementations are network-bound and
// honor context cancellation.
type Embedder interface {
	Embed(ctx context.Context, modelID string, texts []string) ([][]float32, error)
}
