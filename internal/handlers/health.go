package handlers

import (
	"time"

	"taxchain/internal/repositories"
	"taxchain/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler serves the service health endpoint.
type HealthHandler struct {
	analysisRepo     repositories.AnalysisRepository
	conversationRepo repositories.ConversationRepository
	cache            *cache.CacheService
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(analysisRepo repositories.AnalysisRepository, conversationRepo repositories.ConversationRepository, cacheSvc *cache.CacheService) *HealthHandler {
	return &HealthHandler{
		analysisRepo:     analysisRepo,
		conversationRepo: conversationRepo,
		cache:            cacheSvc,
	}
}

// Check handles GET /api/v1/ai/health.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	database := "connected"

	analysisCount, err := h.analysisRepo.Count(c.Context())
	if err != nil {
		status = "degraded"
		database = "error"
	}
	conversationCount, convErr := h.conversationRepo.CountConversations(c.Context())
	if convErr != nil {
		status = "degraded"
		database = "error"
	}

	response := fiber.Map{
		"status":               status,
		"timestamp":            time.Now().UTC().Format(time.RFC3339),
		"database":             database,
		"models_loaded":        true,
		"analysis_records":     analysisCount,
		"conversation_records": conversationCount,
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(c.Context()); err != nil {
			response["cache"] = "error"
		} else {
			response["cache"] = "connected"
		}
	}

	return c.JSON(response)
}
