package analysis

import (
	"context"
	"fmt"
	"time"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/repositories"
	"taxchain/internal/repositories/cache"
)

// Service defines the analysis service interface
type Service interface {
	// Analyze scores one filing against its history, persists the result and
	// returns it. Each call produces a new analysis record.
	Analyze(ctx context.Context, filing models.Filing, history models.TaxpayerHistory, contextData models.JSON) (*models.RiskAnalysis, error)

	// History returns all analyses for a taxpayer, most recent first. Unknown
	// taxpayers yield an empty slice, not an error.
	History(ctx context.Context, taxpayerID string) ([]models.RiskAnalysis, error)
}

type service struct {
	repo      repositories.AnalysisRepository
	cache     *cache.CacheService
	extractor *FeatureExtractor
	scorer    *RiskScorer
	metrics   MetricsCollector
}

// NewService creates a new analysis service. The cache is optional; metrics
// falls back to a no-op collector when nil.
func NewService(
	repo repositories.AnalysisRepository,
	cacheSvc *cache.CacheService,
	extractor *FeatureExtractor,
	scorer *RiskScorer,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if extractor == nil {
		panic("extractor is required")
	}
	if scorer == nil {
		panic("scorer is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:      repo,
		cache:     cacheSvc,
		extractor: extractor,
		scorer:    scorer,
		metrics:   metrics,
	}
}

func (s *service) Analyze(ctx context.Context, filing models.Filing, history models.TaxpayerHistory, contextData models.JSON) (*models.RiskAnalysis, error) {
	start := time.Now()

	if err := validateFiling(filing); err != nil {
		s.metrics.RecordError("analyze", "invalid_filing")
		return nil, err
	}

	features := s.extractor.Extract(filing, history)
	assessment := s.scorer.Score(features, len(history))

	details := models.JSON{
		"deduction_ratio":         jsonRatio(features.DeductionRatio),
		"sector_baseline_ratio":   features.SectorBaselineRatio,
		"income_delta_ratio":      jsonRatio(features.IncomeDeltaRatio),
		"filing_gap_count":        features.FilingGapCount,
		"deviation_breakdown":     assessment.Breakdown,
		"history_entries_scanned": len(history),
	}
	if contextData != nil {
		details["context"] = contextData
	}

	record := &models.RiskAnalysis{
		FilingID:         filing.FilingID,
		TaxpayerID:       filing.TaxpayerID,
		RiskScore:        assessment.Score,
		RiskLevel:        assessment.Level,
		RiskFactors:      assessment.Factors,
		Confidence:       assessment.Confidence,
		Recommendation:   assessment.Recommendation,
		Details:          details,
		ProcessingTimeMs: int(time.Since(start).Milliseconds()),
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.metrics.RecordError("analyze", "persist_failed")
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}

	if s.cache != nil {
		// Best effort: a stale history entry is repaired on next read.
		if err := s.cache.InvalidateRiskHistory(ctx, filing.TaxpayerID); err != nil {
			s.metrics.RecordError("analyze", "cache_invalidate_failed")
		}
	}

	s.metrics.RecordAnalysis(record.RiskLevel, record.RiskScore)
	s.metrics.RecordOperationDuration("analyze", time.Since(start))
	return record, nil
}

func (s *service) History(ctx context.Context, taxpayerID string) ([]models.RiskAnalysis, error) {
	start := time.Now()

	if s.cache != nil {
		if analyses, found, err := s.cache.GetRiskHistory(ctx, taxpayerID); err == nil && found {
			s.metrics.RecordCacheHit("risk_history")
			return analyses, nil
		}
		s.metrics.RecordCacheMiss("risk_history")
	}

	analyses, err := s.repo.ListByTaxpayer(ctx, taxpayerID)
	if err != nil {
		s.metrics.RecordError("history", "repo_failed")
		return nil, fmt.Errorf("failed to load risk history: %w", err)
	}

	if s.cache != nil && len(analyses) > 0 {
		s.cache.CacheRiskHistory(ctx, taxpayerID, analyses)
	}

	s.metrics.RecordOperationDuration("history", time.Since(start))
	return analyses, nil
}

func validateFiling(filing models.Filing) error {
	if filing.Income < 0 {
		return fmt.Errorf("%w: income must not be negative", errs.ErrInvalidFiling)
	}
	if filing.Deductions < 0 {
		return fmt.Errorf("%w: deductions must not be negative", errs.ErrInvalidFiling)
	}
	return nil
}

func jsonRatio(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
