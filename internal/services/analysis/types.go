package analysis

import (
	"time"
)

// FeatureSet is the fixed-shape output of the feature extractor. Pointer
// fields are nil when the underlying value is undefined (zero income, empty
// history) so downstream scoring can exclude them instead of treating them
// as zero or infinite.
type FeatureSet struct {
	DeductionRatio      *float64
	SectorBaselineRatio float64
	IncomeDeltaRatio    *float64
	FilingGapCount      int
}

// ExtractorConfig holds the per-sector baselines used for comparison.
type ExtractorConfig struct {
	SectorBaselines      map[string]float64
	DefaultBaselineRatio float64
}

// Thresholds are the ascending risk-level cutoffs. A score above HighMax
// falls into the CRITICAL bucket.
type Thresholds struct {
	LowMax    float64
	MediumMax float64
	HighMax   float64
}

// ScorerConfig holds weights, thresholds and trigger settings for the risk
// scorer. Coefficients are deployment configuration, not canonical values.
type ScorerConfig struct {
	WeightDeduction   float64
	WeightIncomeDelta float64
	WeightGap         float64

	Thresholds Thresholds

	// Per-feature trigger thresholds for reporting risk factors.
	DeductionTrigger   float64
	IncomeDeltaTrigger float64
	GapTrigger         int

	// IncomeDeltaTolerance is the relative income change treated as a full
	// deviation; GapSaturation is the gap count treated as a full deviation.
	IncomeDeltaTolerance float64
	GapSaturation        int

	// Confidence grows with available history, from MinConfidence up to
	// MaxConfidence.
	MinConfidence       float64
	ConfidencePerFiling float64
	MaxConfidence       float64
}

// Assessment is the scorer's output for one filing.
type Assessment struct {
	Score          float64
	Level          string
	Factors        []string
	Confidence     float64
	Recommendation string
	Breakdown      map[string]float64
}

// MetricsCollector defines the interface for collecting analysis metrics.
type MetricsCollector interface {
	RecordAnalysis(level string, score float64)
	RecordOperationDuration(operation string, duration time.Duration)
	RecordError(operation, errType string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}
