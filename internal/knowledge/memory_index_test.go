package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/medsched/clinic-agent/pkg/logging"
)

type stubEmbedder struct {
	nextVectors [][]float32
	err         error
}

func (s *stubEmbedder) Embed(ctx context.Context, modelID string, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.nextVectors) < len(texts) {
		return nil, errors.New("insufficient stub embeddings")
	}
	out := make([][]float32, len(texts))
	copy(out, s.nextVectors[:len(texts)])
	return out, nil
}

func testCorpus() []Entry {
	return []Entry{
		{Question: "Do you take insurance?", Answer: "We accept most major plans.", Source: "billing.md"},
		{Question: "Where can I park?", Answer: "Free parking behind the building.", Source: "visiting.md"},
		{Question: "What are your hours?", Answer: "Weekdays 9am to 5pm.", Source: "visiting.md"},
	}
}

func TestMemoryIndexRanksBySimilarity(t *testing.T) {
	embedder := &stubEmbedder{}
	ix := NewMemoryIndex(embedder, "test-model", logging.Default())

	embedder.nextVectors = [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}
	if err := ix.Load(context.Background(), testCorpus()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	embedder.nextVectors = [][]float32{{0.9, 0.1}}
	matches, err := ix.Search(context.Background(), "insurance coverage", 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Question != "Do you take insurance?" {
		t.Errorf("best match = %q", matches[0].Question)
	}
	if matches[0].Score <= matches[1].Score {
		t.Errorf("scores not descending: %v then %v", matches[0].Score, matches[1].Score)
	}
	if matches[0].Source != "billing.md" {
		t.Errorf("source = %q", matches[0].Source)
	}
}

func TestMemoryIndexTiesKeepCorpusOrder(t *testing.T) {
	embedder := &stubEmbedder{}
	ix := NewMemoryIndex(embedder, "test-model", logging.Default())

	// Two identical embeddings tie on score for any query.
	embedder.nextVectors = [][]float32{{1, 0}, {1, 0}, {0, 1}}
	if err := ix.Load(context.Background(), testCorpus()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	embedder.nextVectors = [][]float32{{1, 0}}
	matches, err := ix.Search(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if matches[0].Question != "Do you take insurance?" || matches[1].Question != "Where can I park?" {
		t.Errorf("tie not broken by corpus order: %q then %q", matches[0].Question, matches[1].Question)
	}
}

func TestMemoryIndexSize(t *testing.T) {
	embedder := &stubEmbedder{}
	ix := NewMemoryIndex(embedder, "test-model", logging.Default())

	if got := ix.Size(); got != 0 {
		t.Fatalf("empty index size = %d, want 0", got)
	}

	embedder.nextVectors = [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}
	if err := ix.Load(context.Background(), testCorpus()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := ix.Size(); got != 3 {
		t.Fatalf("loaded index size = %d, want 3", got)
	}
}

func TestMemoryIndexEmptyReturnsSentinel(t *testing.T) {
	ix := NewMemoryIndex(&stubEmbedder{}, "test-model", logging.Default())

	matches, err := ix.Search(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].Answer != SentinelNoFAQs {
		t.Fatalf("expected single sentinel result, got %#v", matches)
	}
}

func TestMemoryIndexLoadPropagatesEmbedError(t *testing.T) {
	ix := NewMemoryIndex(&stubEmbedder{err: errors.New("boom")}, "test-model", logging.Default())

	if err := ix.Load(context.Background(), testCorpus()); err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Errorf("identical vectors = %v, want ~1", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors = %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{1}); got != 0 {
		t.Errorf("mismatched lengths = %v, want 0", got)
	}
}
