// Command seed loads demo data: a few ledger transactions and one scored
// filing, so a fresh deployment has something to show.
package main

import (
	"context"
	"log"

	"taxchain/internal/config"
	"taxchain/internal/models"
	"taxchain/internal/repositories"
	"taxchain/internal/services/analysis"
	"taxchain/internal/services/ledger"
)

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()
	ledgerRepo := repositories.NewLedgerRepository(repositories.DB)

	store, err := ledger.NewStore(ctx, ledgerRepo)
	if err != nil {
		log.Fatalf("Failed to open ledger: %v", err)
	}
	ledgerService := ledger.NewService(store, ledgerRepo, repositories.CacheService, nil)

	demo := []struct {
		reference string
		txType    string
		data      models.JSON
	}{
		{"FILING_001", models.TransactionTypeTaxFiling, models.JSON{"taxpayer_id": "TPIN001", "period": "2024-Q1"}},
		{"PAY_001", models.TransactionTypePayment, models.JSON{"amount": 12500.0, "currency": "ZMW"}},
		{"REG_001", models.TransactionTypeRegistration, models.JSON{"taxpayer_id": "TPIN002"}},
	}
	for _, d := range demo {
		tx, err := ledgerService.Record(ctx, d.reference, d.txType, d.data)
		if err != nil {
			log.Fatalf("Failed to record %s: %v", d.reference, err)
		}
		log.Printf("Recorded %s -> %s", d.reference, tx.ShortHash())
	}

	scorer, err := analysis.NewRiskScorer(analysis.DefaultScorerConfig())
	if err != nil {
		log.Fatalf("Failed to build scorer: %v", err)
	}
	analysisService := analysis.NewService(
		repositories.NewAnalysisRepository(repositories.DB),
		repositories.CacheService,
		analysis.NewFeatureExtractor(analysis.ExtractorConfig{}),
		scorer,
		nil,
	)

	filing := models.Filing{
		FilingID:       "FILING_001",
		TaxpayerID:     "TPIN001",
		Income:         50000,
		Deductions:     35000,
		BusinessSector: "retail",
		TaxPeriod:      "2024-Q1",
	}
	history := models.TaxpayerHistory{
		{FilingID: "FILING_000", TaxpayerID: "TPIN001", Income: 48000, Deductions: 30000, BusinessSector: "retail", TaxPeriod: "2023-Q4"},
	}
	result, err := analysisService.Analyze(ctx, filing, history, nil)
	if err != nil {
		log.Fatalf("Failed to analyze demo filing: %v", err)
	}
	log.Printf("Scored %s: %.2f (%s)", filing.FilingID, result.RiskScore, result.RiskLevel)
}
