package handlers

import (
	"errors"
	"log"
	"time"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/services/analysis"
	"taxchain/internal/utils"
	"taxchain/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AnalysisHandler serves the fraud analysis endpoints.
type AnalysisHandler struct {
	svc analysis.Service
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(svc analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// AnalyzeFraud handles POST /api/v1/ai/analyze-fraud.
func (h *AnalysisHandler) AnalyzeFraud(c *fiber.Ctx) error {
	start := time.Now()

	var input struct {
		FilingData      models.Filing   `json:"filing_data"`
		TaxpayerHistory []models.Filing `json:"taxpayer_history"`
		ContextData     models.JSON     `json:"context_data"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body", err.Error())
	}

	v := validation.New()
	v.Filing(&input.FilingData)
	if !v.Valid() {
		return utils.BadRequest(c, "Invalid filing data", v.Errors)
	}

	result, err := h.svc.Analyze(c.Context(), input.FilingData, input.TaxpayerHistory, input.ContextData)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidFiling) || errors.Is(err, errs.ErrInvalidConfiguration) {
			return utils.BadRequest(c, err.Error(), nil)
		}
		log.Printf("fraud analysis failed for filing %s: %v", input.FilingData.FilingID, err)
		return utils.InternalError(c, "Internal server error during fraud analysis")
	}

	return utils.Success(c, fiber.Map{
		"success":            true,
		"risk_score":         result.RiskScore,
		"risk_level":         result.RiskLevel,
		"risk_factors":       result.RiskFactors,
		"confidence":         result.Confidence,
		"recommendation":     result.Recommendation,
		"analysis_id":        result.ID,
		"processing_time_ms": int(time.Since(start).Milliseconds()),
	})
}

// RiskHistory handles GET /api/v1/ai/risk-history/:taxpayer_id.
func (h *AnalysisHandler) RiskHistory(c *fiber.Ctx) error {
	taxpayerID := c.Params("taxpayer_id")
	if taxpayerID == "" {
		return utils.BadRequest(c, "taxpayer_id is required", nil)
	}

	analyses, err := h.svc.History(c.Context(), taxpayerID)
	if err != nil {
		log.Printf("risk history lookup failed for taxpayer %s: %v", taxpayerID, err)
		return utils.InternalError(c, "Failed to retrieve risk history")
	}
	if analyses == nil {
		analyses = []models.RiskAnalysis{}
	}

	return utils.Success(c, fiber.Map{
		"success":     true,
		"taxpayer_id": taxpayerID,
		"analyses":    analyses,
		"total_count": len(analyses),
	})
}
