/*
Package analysis provides the fraud risk scoring pipeline for tax filings.

The pipeline has two pure stages and an orchestrating service:

  - FeatureExtractor derives comparison features (deduction ratio, income
    delta against the taxpayer's own history, filing-frequency gaps) from a
    filing plus historical filings.
  - RiskScorer combines the features into a bounded risk score in [0,1], a
    risk level (LOW/MEDIUM/HIGH/CRITICAL), triggered risk factors ordered by
    contribution, a confidence estimate and a recommendation.
  - Service runs both stages, persists the resulting RiskAnalysis and answers
    per-taxpayer history queries through a repository.

Usage:

	extractor := analysis.NewFeatureExtractor(analysis.ExtractorConfig{})
	scorer, err := analysis.NewRiskScorer(analysis.DefaultScorerConfig())
	svc := analysis.NewService(repo, cacheSvc, extractor, scorer, metrics)

	result, err := svc.Analyze(ctx, filing, history, nil)

Scoring is deterministic: identical filing and history always yield identical
score, level and factors. Weights, thresholds and sector baselines are
configuration, not fixed constants.
*/
package analysis
