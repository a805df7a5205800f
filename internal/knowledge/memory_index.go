package knowledge

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/medsched/clinic-agent/pkg/logging"
)

// MemoryIndex holds the corpus and its precomputed embeddings in process
// memory and serves cosine-similarity searches. Loaded once at startup,
// read-only afterwards; safe for concurrent reads.
type MemoryIndex struct {
	embedder Embedder
	model    string
	logger   *logging.Logger

	mu         sync.RWMutex
	entries    []Entry
	embeddings [][]float32
}

// NewMemoryIndex creates an empty local index.
func NewMemoryIndex(embedder Embedder, model string, logger *logging.Logger) *MemoryIndex {
	if embedder == nil {
		panic("knowledge: embedder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &MemoryIndex{embedder: embedder, model: model, logger: logger}
}

// Load embeds the corpus documents and stores them. Meant to run once
// during startup, before serving traffic.
func (ix *MemoryIndex) Load(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = e.Document()
	}
	vectors, err := ix.embedder.Embed(ctx, ix.model, docs)
	if err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = append(ix.entries, entries...)
	ix.embeddings = append(ix.embeddings, vectors...)
	ix.logger.Info("local FAQ index loaded", "entries", len(ix.entries))
	return nil
}

// Size reports how many entries are indexed.
func (ix *MemoryIndex) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Search returns the topK entries by cosine similarity, ties broken by
// corpus order. An empty index yields the single sentinel result.
func (ix *MemoryIndex) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 3
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if len(ix.entries) == 0 {
		return []Match{{Answer: SentinelNoFAQs}}, nil
	}

	vectors, err := ix.embedder.Embed(ctx, ix.model, []string{query})
	if err != nil {
		return nil, err
	}
	queryVec := vectors[0]

	matches := make([]Match, len(ix.entries))
	for i, e := range ix.entries {
		matches[i] = Match{
			Question: e.Question,
			Answer:   e.Answer,
			Source:   e.Source,
			Score:    cosineSimilarity(queryVec, ix.embeddings[i]),
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
