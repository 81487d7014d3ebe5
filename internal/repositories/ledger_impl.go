package repositories

import (
	"context"
	"errors"
	"fmt"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"

	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a gorm-backed ledger repository.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, tx *models.LedgerTransaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetByHash(ctx context.Context, hash string) (*models.LedgerTransaction, error) {
	var tx models.LedgerTransaction
	err := r.db.WithContext(ctx).Where("transaction_hash = ?", hash).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) GetByReference(ctx context.Context, referenceID string) (*models.LedgerTransaction, error) {
	var tx models.LedgerTransaction
	err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("sequence DESC").
		First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) Latest(ctx context.Context) (*models.LedgerTransaction, error) {
	var tx models.LedgerTransaction
	err := r.db.WithContext(ctx).Order("sequence DESC").First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chain tip: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) ListUpTo(ctx context.Context, sequence uint64) ([]models.LedgerTransaction, error) {
	var txs []models.LedgerTransaction
	err := r.db.WithContext(ctx).
		Where("sequence <= ?", sequence).
		Order("sequence ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chain segment: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) ListRecent(ctx context.Context, limit int) ([]models.LedgerTransaction, error) {
	var txs []models.LedgerTransaction
	err := r.db.WithContext(ctx).Order("sequence DESC").Limit(limit).Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *ledgerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LedgerTransaction{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}
