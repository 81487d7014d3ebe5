// Package routes defines the API routing configuration.
// It wires repositories, services and handlers, and registers all HTTP
// routes.
package routes

import (
	"context"
	"time"

	"taxchain/internal/config"
	"taxchain/internal/handlers"
	"taxchain/internal/metrics"
	"taxchain/internal/repositories"
	"taxchain/internal/services/analysis"
	"taxchain/internal/services/chatbot"
	"taxchain/internal/services/ledger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes. It returns an error when a
// service cannot be constructed, including a failed ledger integrity scan.
func SetupRoutes(app *fiber.App, db *gorm.DB, collector *metrics.Collector) error {
	// Initialize repositories
	analysisRepo := repositories.NewAnalysisRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)

	// Initialize the scoring pipeline
	extractor := analysis.NewFeatureExtractor(analysis.ExtractorConfig{
		DefaultBaselineRatio: config.GetFloatEnv("SECTOR_BASELINE_DEFAULT", analysis.DefaultBaselineRatio),
	})

	scorerCfg := analysis.DefaultScorerConfig()
	scorerCfg.WeightDeduction = config.GetFloatEnv("RISK_WEIGHT_DEDUCTION", scorerCfg.WeightDeduction)
	scorerCfg.WeightIncomeDelta = config.GetFloatEnv("RISK_WEIGHT_INCOME_DELTA", scorerCfg.WeightIncomeDelta)
	scorerCfg.WeightGap = config.GetFloatEnv("RISK_WEIGHT_GAP", scorerCfg.WeightGap)
	scorerCfg.Thresholds.LowMax = config.GetFloatEnv("RISK_THRESHOLD_LOW", scorerCfg.Thresholds.LowMax)
	scorerCfg.Thresholds.MediumMax = config.GetFloatEnv("RISK_THRESHOLD_MEDIUM", scorerCfg.Thresholds.MediumMax)
	scorerCfg.Thresholds.HighMax = config.GetFloatEnv("RISK_THRESHOLD_HIGH", scorerCfg.Thresholds.HighMax)
	scorer, err := analysis.NewRiskScorer(scorerCfg)
	if err != nil {
		return err
	}

	analysisService := analysis.NewService(
		analysisRepo,
		repositories.CacheService,
		extractor,
		scorer,
		collector,
	)

	// Initialize the ledger; corruption discovered at startup is fatal.
	store, err := ledger.NewStore(context.Background(), ledgerRepo)
	if err != nil {
		return err
	}
	if err := store.ScanIntegrity(context.Background()); err != nil {
		return err
	}
	ledgerService := ledger.NewService(store, ledgerRepo, repositories.CacheService, collector)

	// The chatbot delegates language understanding to an upstream service
	// when one is configured.
	var responder chatbot.Responder = &chatbot.StaticResponder{}
	if upstream := config.GetEnv("CHATBOT_UPSTREAM_URL", ""); upstream != "" {
		timeout := time.Duration(config.GetIntEnv("CHATBOT_TIMEOUT_SECONDS", 10)) * time.Second
		responder = chatbot.NewHTTPResponder(upstream, timeout)
	}
	chatbotService := chatbot.NewService(conversationRepo, responder)

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	chatbotHandler := handlers.NewChatbotHandler(chatbotService)
	healthHandler := handlers.NewHealthHandler(analysisRepo, conversationRepo, repositories.CacheService)

	api := app.Group("/api/v1")

	ai := api.Group("/ai")
	ai.Post("/analyze-fraud", analysisHandler.AnalyzeFraud)
	ai.Get("/risk-history/:taxpayer_id", analysisHandler.RiskHistory)
	ai.Post("/chatbot", chatbotHandler.Chat)
	ai.Get("/health", healthHandler.Check)

	blockchain := api.Group("/blockchain")
	blockchain.Post("/transactions", ledgerHandler.RecordTransaction)
	blockchain.Get("/transactions", ledgerHandler.ListTransactions)
	blockchain.Get("/transactions/:hash", ledgerHandler.GetTransaction)
	blockchain.Get("/verify", ledgerHandler.VerifyTransaction)

	return nil
}
