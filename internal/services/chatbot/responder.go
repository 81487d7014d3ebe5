package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taxchain/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HTTPResponder forwards queries to an upstream chatbot service.
type HTTPResponder struct {
	url     string
	timeout time.Duration
}

// NewHTTPResponder creates a responder for the given upstream URL.
func NewHTTPResponder(url string, timeout time.Duration) *HTTPResponder {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPResponder{url: url, timeout: timeout}
}

func (r *HTTPResponder) Respond(ctx context.Context, query string, conversationContext models.JSON) (*Reply, error) {
	agent := fiber.Post(r.url)
	agent.Timeout(r.timeout)
	agent.JSON(fiber.Map{
		"query":   query,
		"context": conversationContext,
	})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("chatbot upstream request failed: %w", errs[0])
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("chatbot upstream returned status %d", code)
	}

	var reply Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode chatbot upstream response: %w", err)
	}
	return &reply, nil
}

// StaticResponder answers every query with a fixed fallback. It keeps the
// chatbot endpoint serviceable when no upstream is configured.
type StaticResponder struct{}

var defaultSuggestions = []string{
	"How do I register as a taxpayer?",
	"When is my VAT return due?",
	"How do I check my filing status?",
	"What deductions can I claim?",
}

func (r *StaticResponder) Respond(ctx context.Context, query string, conversationContext models.JSON) (*Reply, error) {
	return &Reply{
		Answer:      "I can help with general tax questions. For detailed guidance please contact a tax officer or try one of the suggested topics.",
		Suggestions: defaultSuggestions,
		Confidence:  0.3,
		Topic:       "general",
	}, nil
}
