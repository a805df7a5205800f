package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters for the dialogue flow.
type ConversationMetrics struct {
	turnsTotal       *prometheus.CounterVec
	faqShortcutTotal prometheus.Counter
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "agent",
			Name:      "turns_total",
			Help:      "Dialogue turns processed, by the stage they were handled in",
		}, []string{"stage"}),
		faqShortcutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "agent",
			Name:      "faq_shortcut_total",
			Help:      "Turns answered by the FAQ retrieval shortcut",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.faqShortcutTotal)
	return m
}

func (m *ConversationMetrics) ObserveTurn(stage string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(stage).Inc()
}

func (m *ConversationMetrics) ObserveFAQShortcut() {
	if m == nil {
		return
	}
	m.faqShortcutTotal.Inc()
}

// RetrievalMetrics tracks FAQ retrieval behavior.
type RetrievalMetrics struct {
	fallbackTotal prometheus.Counter
	searchLatency prometheus.Histogram
}

func NewRetrievalMetrics(reg prometheus.Registerer) *RetrievalMetrics {
	m := &RetrievalMetrics{
		fallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "retrieval",
			Name:      "fallback_total",
			Help:      "Searches served by the local index after a remote failure",
		}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "retrieval",
			Name:      "search_latency_seconds",
			Help:      "Latency of FAQ similarity searches",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.fallbackTotal, m.searchLatency)
	return m
}

func (m *RetrievalMetrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.fallbackTotal.Inc()
}

func (m *RetrievalMetrics) ObserveSearchLatency(seconds float64) {
	if m == nil {
		return
	}
	m.searchLatency.Observe(seconds)
}

// BookingMetrics counts issued bookings by outcome.
type BookingMetrics struct {
	bookingsTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "issued_total",
			Help:      "Booking attempts, by outcome",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal)
	return m
}

func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}
