package analysis

import (
	"strconv"
	"strings"

	"taxchain/internal/models"
)

// Default sector baseline deduction ratios. The default covers sectors
// without a configured entry.
const DefaultBaselineRatio = 0.35

func defaultSectorBaselines() map[string]float64 {
	return map[string]float64{
		"retail":        0.35,
		"manufacturing": 0.28,
		"services":      0.42,
		"construction":  0.38,
		"agriculture":   0.32,
	}
}

// FeatureExtractor derives comparison features from a filing and the
// taxpayer's history. Extraction is pure: identical inputs always produce
// identical output.
type FeatureExtractor struct {
	config ExtractorConfig
}

// NewFeatureExtractor creates an extractor, filling config defaults.
func NewFeatureExtractor(cfg ExtractorConfig) *FeatureExtractor {
	if cfg.SectorBaselines == nil {
		cfg.SectorBaselines = defaultSectorBaselines()
	}
	if cfg.DefaultBaselineRatio == 0 {
		cfg.DefaultBaselineRatio = DefaultBaselineRatio
	}
	return &FeatureExtractor{config: cfg}
}

// Extract computes the feature set for a filing. History must be ordered by
// tax period ascending and may be empty for first-time filers.
func (e *FeatureExtractor) Extract(filing models.Filing, history models.TaxpayerHistory) FeatureSet {
	features := FeatureSet{
		SectorBaselineRatio: e.baselineFor(filing.BusinessSector),
	}

	// Zero income leaves the ratio undefined, not infinite.
	if filing.Income > 0 {
		ratio := filing.Deductions / filing.Income
		features.DeductionRatio = &ratio
	}

	if len(history) > 0 {
		var sum float64
		for _, h := range history {
			sum += h.Income
		}
		mean := sum / float64(len(history))
		if mean > 0 {
			delta := (filing.Income - mean) / mean
			features.IncomeDeltaRatio = &delta
		}
	}

	features.FilingGapCount = countFilingGaps(history)
	return features
}

func (e *FeatureExtractor) baselineFor(sector string) float64 {
	if ratio, ok := e.config.SectorBaselines[strings.ToLower(strings.TrimSpace(sector))]; ok {
		return ratio
	}
	return e.config.DefaultBaselineRatio
}

// countFilingGaps counts missing expected periods between consecutive
// history entries. Pairs that cannot be compared (unparseable tokens or
// mixed granularity) contribute nothing.
func countFilingGaps(history models.TaxpayerHistory) int {
	if len(history) < 2 {
		return 0
	}

	gaps := 0
	for i := 1; i < len(history); i++ {
		prev, prevGran, okPrev := periodIndex(history[i-1].TaxPeriod)
		cur, curGran, okCur := periodIndex(history[i].TaxPeriod)
		if !okPrev || !okCur || prevGran != curGran {
			continue
		}
		if missing := cur - prev - 1; missing > 0 {
			gaps += missing
		}
	}
	return gaps
}

// periodIndex maps a period token onto a linear scale. Quarterly tokens
// ("2024-Q1") map to year*4 + quarter, annual tokens ("2024") to the year.
func periodIndex(token string) (index, granularity int, ok bool) {
	token = strings.TrimSpace(token)

	if year, quarter, found := strings.Cut(token, "-Q"); found {
		y, err := strconv.Atoi(year)
		if err != nil {
			return 0, 0, false
		}
		q, err := strconv.Atoi(quarter)
		if err != nil || q < 1 || q > 4 {
			return 0, 0, false
		}
		return y*4 + q - 1, 4, true
	}

	y, err := strconv.Atoi(token)
	if err != nil {
		return 0, 0, false
	}
	return y, 1, true
}
