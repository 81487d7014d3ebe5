package repositories

import (
	"context"

	"taxchain/internal/models"
)

// AnalysisRepository persists risk analyses. Analyses are append-only:
// there is no update or delete path through this interface.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *models.RiskAnalysis) error
	ListByTaxpayer(ctx context.Context, taxpayerID string) ([]models.RiskAnalysis, error)
	Count(ctx context.Context) (int64, error)
}
