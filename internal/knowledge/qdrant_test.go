package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestQdrantSearchParsesResults(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"result":[
			{"score":0.92,"payload":{"question":"Do you take insurance?","answer":"Most plans.","source":"billing.md"}},
			{"score":0.61,"payload":{"question":"Where can I park?","answer":"Behind the building.","source":"visiting.md"}}
		]}`))
	}))
	defer srv.Close()

	embedder := &stubEmbedder{nextVectors: [][]float32{{0.1, 0.2}}}
	q, err := NewQdrantIndex(QdrantConfig{BaseURL: srv.URL, APIKey: "secret", Collection: "clinic_faq"}, embedder, "test-model")
	if err != nil {
		t.Fatalf("NewQdrantIndex: %v", err)
	}

	matches, err := q.Search(context.Background(), "insurance", 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotPath != "/collections/clinic_faq/points/search" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api-key header = %q", gotKey)
	}
	if gotBody["limit"].(float64) != 2 {
		t.Errorf("limit = %v, want 2", gotBody["limit"])
	}
	if len(matches) != 2 || matches[0].Answer != "Most plans." || matches[0].Score != 0.92 {
		t.Fatalf("matches = %#v", matches)
	}
}

func TestQdrantSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer srv.Close()

	embedder := &stubEmbedder{nextVectors: [][]float32{{0.1}}}
	q, err := NewQdrantIndex(QdrantConfig{BaseURL: srv.URL}, embedder, "test-model")
	if err != nil {
		t.Fatalf("NewQdrantIndex: %v", err)
	}

	if _, err := q.Search(context.Background(), "insurance", 2); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestQdrantUpsertSendsPoints(t *testing.T) {
	var gotBody struct {
		Points []struct {
			ID      int               `json:"id"`
			Vector  []float32         `json:"vector"`
			Payload map[string]string `json:"payload"`
		} `json:"points"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"result":{"status":"acknowledged"}}`))
	}))
	defer srv.Close()

	embedder := &stubEmbedder{nextVectors: [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}}
	q, err := NewQdrantIndex(QdrantConfig{BaseURL: srv.URL}, embedder, "test-model")
	if err != nil {
		t.Fatalf("NewQdrantIndex: %v", err)
	}

	if err := q.Upsert(context.Background(), testCorpus()); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if len(gotBody.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(gotBody.Points))
	}
	if gotBody.Points[0].Payload["question"] != "Do you take insurance?" {
		t.Errorf("payload = %#v", gotBody.Points[0].Payload)
	}
}

func TestNewQdrantIndexRequiresBaseURL(t *testing.T) {
	if _, err := NewQdrantIndex(QdrantConfig{}, &stubEmbedder{}, "m"); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}
