package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/medsched/clinic-agent/internal/knowledge"
	"github.com/medsched/clinic-agent/pkg/logging"
)

const chatSystemPrompt = "You are a helpful clinic assistant. Answer the patient's question " +
	"using only the clinic information provided below. If the information does not " +
	"cover the question, say so and suggest calling the front desk."

// ChatAnswer is a grounded answer to a free-form question.
type ChatAnswer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// ChatService answers open-ended questions by retrieving relevant FAQ
// entries and asking the model to compose a reply grounded in them.
type ChatService struct {
	retriever knowledge.Retriever
	llm       LLMClient
	model     string
	topK      int
	logger    *logging.Logger
}

func NewChatService(retriever knowledge.Retriever, llm LLMClient, model string, topK int, logger *logging.Logger) *ChatService {
	if retriever == nil {
		panic("conversation: retriever required")
	}
	if llm == nil {
		panic("conversation: llm client required")
	}
	if topK <= 0 {
		topK = 3
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatService{
		retriever: retriever,
		llm:       llm,
		model:     model,
		topK:      topK,
		logger:    logger,
	}
}

// Ask retrieves context for the question and completes a grounded answer.
func (s *ChatService) Ask(ctx context.Context, question string) (*ChatAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("conversation: question is required")
	}

	matches, err := s.retriever.Search(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("conversation: chat retrieval: %w", err)
	}

	var contextLines []string
	var sources []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if m.Answer == knowledge.SentinelNoFAQs {
			continue
		}
		contextLines = append(contextLines, fmt.Sprintf("- (%s) %s %s", m.Source, m.Question, m.Answer))
		if m.Source != "" && !seen[m.Source] {
			seen[m.Source] = true
			sources = append(sources, m.Source)
		}
	}
	if len(contextLines) == 0 {
		return &ChatAnswer{Answer: knowledge.SentinelNoFAQs}, nil
	}

	userPrompt := fmt.Sprintf("Clinic information:\n%s\n\nQuestion: %s", strings.Join(contextLines, "\n"), question)

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model:       s.model,
		System:      []string{chatSystemPrompt},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: userPrompt}},
		MaxTokens:   512,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("conversation: chat completion: %w", err)
	}

	s.logger.Debug("chat answer generated",
		"matches", len(contextLines),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	return &ChatAnswer{Answer: resp.Text, Sources: sources}, nil
}
