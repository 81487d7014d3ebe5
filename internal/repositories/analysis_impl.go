package repositories

import (
	"context"
	"fmt"

	"taxchain/internal/models"

	"gorm.io/gorm"
)

type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a gorm-backed analysis repository.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *models.RiskAnalysis) error {
	if err := r.db.WithContext(ctx).Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) ListByTaxpayer(ctx context.Context, taxpayerID string) ([]models.RiskAnalysis, error) {
	var analyses []models.RiskAnalysis
	err := r.db.WithContext(ctx).
		Where("taxpayer_id = ?", taxpayerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&analyses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return analyses, nil
}

func (r *analysisRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RiskAnalysis{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return count, nil
}
