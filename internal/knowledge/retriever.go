package knowledge

import (
	"context"
	"time"

	"github.com/medsched/clinic-agent/internal/observability/metrics"
	"github.com/medsched/clinic-agent/pkg/logging"
)

// FallbackRetriever tries the remote vector index first and degrades to the
// local in-memory index on any failure. A remote failure is never allowed
// to propagate past this boundary; the only observable effect is that the
// fallback path answered.
type FallbackRetriever struct {
	primary  Retriever
	fallback Retriever
	metrics  *metrics.RetrievalMetrics
	logger   *logging.Logger
}

// NewFallbackRetriever creates the two-tier retriever. primary may be nil
// when no remote index is configured; fallback is required.
func NewFallbackRetriever(primary, fallback Retriever, m *metrics.RetrievalMetrics, logger *logging.Logger) *FallbackRetriever {
	if fallback == nil {
		panic("knowledge: fallback retriever required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackRetriever{primary: primary, fallback: fallback, metrics: m, logger: logger}
}

// Search returns up to topK matches ranked by descending similarity.
func (r *FallbackRetriever) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveSearchLatency(time.Since(start).Seconds())
	}()

	if r.primary != nil {
		matches, err := r.primary.Search(ctx, query, topK)
		if err == nil && len(matches) > 0 {
			return matches, nil
		}
		if err != nil {
			r.logger.Warn("remote index search failed, using local fallback", "error", err)
			r.metrics.ObserveFallback()
		}
	}

	return r.fallback.Search(ctx, query, topK)
}
