package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/medsched/clinic-agent/internal/booking"
	"github.com/medsched/clinic-agent/internal/conversation"
	httpmiddleware "github.com/medsched/clinic-agent/internal/http/middleware"
	"github.com/medsched/clinic-agent/internal/scheduling"
	"github.com/medsched/clinic-agent/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	SchedulingHandler   *scheduling.Handler
	BookingHandler      *booking.Handler
	ConversationHandler *conversation.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.SchedulingHandler != nil {
			api.Get("/appointments/availability", cfg.SchedulingHandler.Availability)
		}
		if cfg.BookingHandler != nil {
			api.Post("/appointments/book", cfg.BookingHandler.Book)
		}
		if cfg.ConversationHandler != nil {
			api.Post("/agent/message", cfg.ConversationHandler.Message)
			api.Post("/chat", cfg.ConversationHandler.Chat)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
