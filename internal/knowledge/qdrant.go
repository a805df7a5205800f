package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// QdrantConfig describes how to reach the remote vector index.
type QdrantConfig struct {
	BaseURL    string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// QdrantIndex is a thin client for Qdrant's REST API, backing the primary
// retrieval path. All failures surface as errors; the fallback decorator
// decides what to do with them.
type QdrantIndex struct {
	baseURL    string
	apiKey     string
	collection string
	embedder   Embedder
	model      string
	http       *http.Client
}

// NewQdrantIndex validates the configuration and returns a ready client.
func NewQdrantIndex(cfg QdrantConfig, embedder Embedder, model string) (*QdrantIndex, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("knowledge: qdrant base URL required")
	}
	if embedder == nil {
		return nil, errors.New("knowledge: embedder required")
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "clinic_faq"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QdrantIndex{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		collection: collection,
		embedder:   embedder,
		model:      model,
		http:       &http.Client{Timeout: timeout},
	}, nil
}

// EnsureCollection (re)creates the collection with a cosine-distance vector
// schema of the given size.
func (q *QdrantIndex) EnsureCollection(ctx context.Context, vectorSize int) error {
	payload := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}
	_, err := q.doRequest(ctx, http.MethodPut, "/collections/"+q.collection, payload)
	return err
}

// Upsert embeds the entries and writes them as points with their
// question/answer/source payload.
func (q *QdrantIndex) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]string, len(entries))
	for i, e := range entries {
		docs[i] = e.Document()
	}
	vectors, err := q.embedder.Embed(ctx, q.model, docs)
	if err != nil {
		return err
	}

	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		points[i] = map[string]any{
			"id":     i,
			"vector": vectors[i],
			"payload": map[string]string{
				"question": e.Question,
				"answer":   e.Answer,
				"source":   e.Source,
			},
		}
	}
	_, err = q.doRequest(ctx, http.MethodPut, "/collections/"+q.collection+"/points?wait=true", map[string]any{
		"points": points,
	})
	return err
}

// Search embeds the query and returns the nearest neighbors with their
// stored payload and similarity score.
func (q *QdrantIndex) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 3
	}
	vectors, err := q.embedder.Embed(ctx, q.model, []string{query})
	if err != nil {
		return nil, err
	}

	body, err := q.doRequest(ctx, http.MethodPost, "/collections/"+q.collection+"/points/search", map[string]any{
		"vector":       vectors[0],
		"limit":        topK,
		"with_payload": true,
	})
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload struct {
				Question string `json:"question"`
				Answer   string `json:"answer"`
				Source   string `json:"source"`
			} `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("knowledge: decode qdrant search response: %w", err)
	}

	matches := make([]Match, 0, len(decoded.Result))
	for _, r := range decoded.Result {
		matches = append(matches, Match{
			Question: r.Payload.Question,
			Answer:   r.Payload.Answer,
			Source:   r.Payload.Source,
			Score:    r.Score,
		})
	}
	return matches, nil
}

func (q *QdrantIndex) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("knowledge: marshal qdrant request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, q.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("knowledge: build qdrant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("knowledge: qdrant request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("knowledge: read qdrant response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("knowledge: qdrant %s %s returned %d: %s", method, path, resp.StatusCode, snippet)
	}
	return body, nil
}
