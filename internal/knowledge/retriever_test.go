package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/medsched/clinic-agent/pkg/logging"
)

type stubRetriever struct {
	matches []Match
	err     error
	calls   int
}

func (s *stubRetriever) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	s.calls++
	return s.matches, s.err
}

func TestFallbackPrefersPrimary(t *testing.T) {
	primary := &stubRetriever{matches: []Match{{Answer: "remote answer", Score: 0.9}}}
	fallback := &stubRetriever{matches: []Match{{Answer: "local answer", Score: 0.5}}}
	r := NewFallbackRetriever(primary, fallback, nil, logging.Default())

	matches, err := r.Search(context.Background(), "hours", 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if matches[0].Answer != "remote answer" {
		t.Errorf("answer = %q, want remote", matches[0].Answer)
	}
	if fallback.calls != 0 {
		t.Error("fallback should not run when primary succeeds")
	}
}

func TestFallbackOnPrimaryError(t *testing.T) {
	primary := &stubRetriever{err: errors.New("connection refused")}
	fallback := &stubRetriever{matches: []Match{{Answer: "local answer", Score: 0.5}}}
	r := NewFallbackRetriever(primary, fallback, nil, logging.Default())

	matches, err := r.Search(context.Background(), "hours", 3)
	if err != nil {
		t.Fatalf("remote failure must not propagate, got %v", err)
	}
	if matches[0].Answer != "local answer" {
		t.Errorf("answer = %q, want local", matches[0].Answer)
	}
}

func TestFallbackOnEmptyPrimaryResults(t *testing.T) {
	primary := &stubRetriever{}
	fallback := &stubRetriever{matches: []Match{{Answer: SentinelNoFAQs}}}
	r := NewFallbackRetriever(primary, fallback, nil, logging.Default())

	matches, err := r.Search(context.Background(), "hours", 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(matches) != 1 || matches[0].Answer != SentinelNoFAQs {
		t.Fatalf("expected sentinel via fallback, got %#v", matches)
	}
}

func TestFallbackWithoutPrimary(t *testing.T) {
	fallback := &stubRetriever{matches: []Match{{Answer: "local answer"}}}
	r := NewFallbackRetriever(nil, fallback, nil, logging.Default())

	matches, err := r.Search(context.Background(), "hours", 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if matches[0].Answer != "local answer" {
		t.Errorf("answer = %q, want local", matches[0].Answer)
	}
}

func TestFallbackPropagatesLocalError(t *testing.T) {
	fallback := &stubRetriever{err: errors.New("embedding failed")}
	r := NewFallbackRetriever(nil, fallback, nil, logging.Default())

	if _, err := r.Search(context.Background(), "hours", 3); err == nil {
		t.Fatal("local errors should propagate")
	}
}
