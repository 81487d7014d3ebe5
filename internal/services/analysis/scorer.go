package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
)

// DefaultScorerConfig returns the default weights and thresholds. They are
// tunable scaffolding, not a canonical formula.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		WeightDeduction:   0.40,
		WeightIncomeDelta: 0.35,
		WeightGap:         0.25,
		Thresholds: Thresholds{
			LowMax:    0.20,
			MediumMax: 0.40,
			HighMax:   0.70,
		},
		DeductionTrigger:     0.25,
		IncomeDeltaTrigger:   0.30,
		GapTrigger:           1,
		IncomeDeltaTolerance: 0.50,
		GapSaturation:        4,
		MinConfidence:        0.50,
		ConfidencePerFiling:  0.10,
		MaxConfidence:        0.95,
	}
}

// RiskScorer combines extracted features into a bounded risk score.
type RiskScorer struct {
	config ScorerConfig
}

// NewRiskScorer validates the configuration and creates a scorer.
func NewRiskScorer(cfg ScorerConfig) (*RiskScorer, error) {
	if cfg.WeightDeduction+cfg.WeightIncomeDelta+cfg.WeightGap <= 0 {
		return nil, fmt.Errorf("%w: weights must sum to a positive value", errs.ErrInvalidConfiguration)
	}
	t := cfg.Thresholds
	if !(t.LowMax > 0 && t.LowMax < t.MediumMax && t.MediumMax < t.HighMax) {
		return nil, fmt.Errorf("%w: thresholds must be positive and strictly ascending", errs.ErrInvalidConfiguration)
	}
	if cfg.IncomeDeltaTolerance <= 0 {
		cfg.IncomeDeltaTolerance = 0.50
	}
	if cfg.GapSaturation <= 0 {
		cfg.GapSaturation = 4
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.50
	}
	if cfg.MaxConfidence <= 0 {
		cfg.MaxConfidence = 0.95
	}
	return &RiskScorer{config: cfg}, nil
}

// factor is one scored feature, kept in declaration order for stable
// tie-breaking.
type factor struct {
	name         string
	measured     string
	expected     string
	deviation    float64
	trigger      float64
	weight       float64
	contribution float64
}

// Score converts a feature set into a risk assessment. historyLen drives the
// confidence estimate.
func (s *RiskScorer) Score(features FeatureSet, historyLen int) Assessment {
	cfg := s.config

	var deductionDev float64
	if features.DeductionRatio != nil && features.SectorBaselineRatio > 0 {
		deductionDev = clamp01(math.Max(0, *features.DeductionRatio-features.SectorBaselineRatio) / features.SectorBaselineRatio)
	}

	var incomeDev float64
	if features.IncomeDeltaRatio != nil {
		incomeDev = clamp01(math.Abs(*features.IncomeDeltaRatio) / cfg.IncomeDeltaTolerance)
	}

	gapDev := clamp01(float64(features.FilingGapCount) / float64(cfg.GapSaturation))

	factors := []factor{
		{
			name:      "High deduction ratio",
			measured:  formatRatio(features.DeductionRatio),
			expected:  fmt.Sprintf("%.2f", features.SectorBaselineRatio),
			deviation: deductionDev,
			trigger:   cfg.DeductionTrigger,
			weight:    cfg.WeightDeduction,
		},
		{
			name:      "Income deviation",
			measured:  formatRatio(features.IncomeDeltaRatio),
			expected:  "0.00",
			deviation: incomeDev,
			trigger:   cfg.IncomeDeltaTrigger,
			weight:    cfg.WeightIncomeDelta,
		},
		{
			name:      "Filing gaps",
			measured:  fmt.Sprintf("%d", features.FilingGapCount),
			expected:  "0",
			deviation: gapDev,
			trigger:   float64(cfg.GapTrigger) / float64(cfg.GapSaturation),
			weight:    cfg.WeightGap,
		},
	}

	weightSum := cfg.WeightDeduction + cfg.WeightIncomeDelta + cfg.WeightGap
	var score float64
	breakdown := make(map[string]float64, len(factors))
	for i := range factors {
		factors[i].contribution = factors[i].weight * factors[i].deviation
		score += factors[i].contribution
		breakdown[factors[i].name] = factors[i].deviation
	}
	score = clamp01(score / weightSum)

	var triggered []factor
	for _, f := range factors {
		if f.deviation >= f.trigger && f.deviation > 0 {
			triggered = append(triggered, f)
		}
	}
	// Descending contribution; SliceStable keeps declaration order on ties.
	sort.SliceStable(triggered, func(i, j int) bool {
		return triggered[i].contribution > triggered[j].contribution
	})

	riskFactors := make([]string, 0, len(triggered))
	for _, f := range triggered {
		riskFactors = append(riskFactors, fmt.Sprintf("%s is %s vs baseline %s", f.name, f.measured, f.expected))
	}

	level := s.levelFor(score)

	return Assessment{
		Score:          score,
		Level:          level,
		Factors:        riskFactors,
		Confidence:     s.confidenceFor(historyLen),
		Recommendation: recommendationFor(level, riskFactors),
		Breakdown:      breakdown,
	}
}

func (s *RiskScorer) levelFor(score float64) string {
	t := s.config.Thresholds
	switch {
	case score <= t.LowMax:
		return models.RiskLevelLow
	case score <= t.MediumMax:
		return models.RiskLevelMedium
	case score <= t.HighMax:
		return models.RiskLevelHigh
	default:
		return models.RiskLevelCritical
	}
}

func (s *RiskScorer) confidenceFor(historyLen int) float64 {
	cfg := s.config
	confidence := cfg.MinConfidence + cfg.ConfidencePerFiling*float64(historyLen)
	return math.Min(confidence, cfg.MaxConfidence)
}

var baseRecommendations = map[string]string{
	models.RiskLevelLow:      "Standard processing - no additional review required",
	models.RiskLevelMedium:   "Consider automated verification checks",
	models.RiskLevelHigh:     "Manual review recommended - request supporting documents",
	models.RiskLevelCritical: "Escalate to fraud investigation unit",
}

func recommendationFor(level string, factors []string) string {
	recommendation := baseRecommendations[level]
	for _, f := range factors {
		lower := strings.ToLower(f)
		switch {
		case strings.Contains(lower, "deduction"):
			recommendation += " | Verify deduction documentation"
		case strings.Contains(lower, "income"):
			recommendation += " | Cross-reference income with third-party data"
		case strings.Contains(lower, "filing gaps"):
			recommendation += " | Request missing period filings"
		}
	}
	return recommendation
}

func formatRatio(v *float64) string {
	if v == nil {
		return "undefined"
	}
	return fmt.Sprintf("%.2f", *v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
