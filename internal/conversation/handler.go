package conversation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/medsched/clinic-agent/pkg/logging"
)

// Handler exposes the dialogue engine and the grounded chat service over HTTP.
type Handler struct {
	engine *Engine
	chat   *ChatService
	logger *logging.Logger
}

// NewHandler creates a conversation handler. chat may be nil when no LLM is
// configured; the /api/chat route then reports the feature as unavailable.
func NewHandler(engine *Engine, chat *ChatService, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("conversation: engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, chat: chat, logger: logger}
}

type messageRequest struct {
	Message string   `json:"message"`
	Context *Context `json:"context"`
}

type messageResponse struct {
	Reply   string   `json:"reply"`
	Context *Context `json:"context"`
}

// Message handles POST /api/agent/message. The caller sends the latest
// message plus the conversation context from the previous turn (or none to
// start fresh) and gets the reply with the updated context back.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "Missing required field: message", http.StatusBadRequest)
		return
	}
	conv := req.Context
	if conv == nil {
		conv = &Context{}
	}

	reply, err := h.engine.HandleTurn(r.Context(), req.Message, conv)
	if err != nil {
		h.logger.Error("conversation turn failed", "error", err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, messageResponse{Reply: reply, Context: conv})
}

type chatRequest struct {
	Question string `json:"question"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		http.Error(w, "Chat is not configured", http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "Missing required field: question", http.StatusBadRequest)
		return
	}

	answer, err := h.chat.Ask(r.Context(), req.Question)
	if err != nil {
		h.logger.Error("chat failed", "error", err)
		http.Error(w, "Failed to answer question", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, answer)
}

func writeJSON(w http.ResponseWriter, logger *logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}
