package chatbot

import (
	"context"

	"taxchain/internal/models"
)

// Reply is what an upstream responder returns for one query.
type Reply struct {
	Answer      string   `json:"response"`
	Suggestions []string `json:"suggested_questions"`
	Confidence  float64  `json:"confidence"`
	Topic       string   `json:"topic"`
}

// Responder produces answers for taxpayer queries. The actual language
// understanding lives outside this service; implementations only carry the
// conversation payload across the boundary.
type Responder interface {
	Respond(ctx context.Context, query string, conversationContext models.JSON) (*Reply, error)
}

// ChatRequest is one inbound chatbot call.
type ChatRequest struct {
	Query          string      `json:"query"`
	ConversationID string      `json:"conversation_id"`
	Context        models.JSON `json:"context"`
	Language       string      `json:"language"`
}

// ChatResult is the service's response shape.
type ChatResult struct {
	Response           string   `json:"response"`
	SuggestedQuestions []string `json:"suggested_questions"`
	Confidence         float64  `json:"confidence"`
	ConversationID     string   `json:"conversation_id"`
	ProcessingTimeMs   int      `json:"processing_time_ms"`
}
