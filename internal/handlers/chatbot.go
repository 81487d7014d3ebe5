package handlers

import (
	"errors"
	"log"

	errs "taxchain/internal/errors"
	"taxchain/internal/services/chatbot"
	"taxchain/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ChatbotHandler serves the chatbot endpoint.
type ChatbotHandler struct {
	svc chatbot.Service
}

// NewChatbotHandler creates a new chatbot handler.
func NewChatbotHandler(svc chatbot.Service) *ChatbotHandler {
	return &ChatbotHandler{svc: svc}
}

// Chat handles POST /api/v1/ai/chatbot.
func (h *ChatbotHandler) Chat(c *fiber.Ctx) error {
	var req chatbot.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}

	result, err := h.svc.Chat(c.Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrEmptyQuery) {
			return utils.BadRequest(c, err.Error(), nil)
		}
		log.Printf("chatbot request failed: %v", err)
		return utils.InternalError(c, "Internal server error in chatbot")
	}

	return utils.Success(c, fiber.Map{
		"success":             true,
		"response":            result.Response,
		"suggested_questions": result.SuggestedQuestions,
		"confidence":          result.Confidence,
		"conversation_id":     result.ConversationID,
		"processing_time_ms":  result.ProcessingTimeMs,
	})
}
