package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/repositories"
	"taxchain/internal/repositories/cache"
)

// Service defines the ledger service interface
type Service interface {
	// Record validates and appends one transaction to the chain.
	Record(ctx context.Context, referenceID, transactionType string, data models.JSON) (*models.LedgerTransaction, error)

	// Verify checks a hash against the chain from genesis.
	Verify(ctx context.Context, hash string) (*VerifyResult, error)

	// VerifyByReference verifies the most recent transaction carrying the
	// given reference ID.
	VerifyByReference(ctx context.Context, referenceID string) (*VerifyResult, error)

	// GetTransaction looks up a single transaction without chain validation.
	GetTransaction(ctx context.Context, hash string) (*models.LedgerTransaction, error)

	// ListRecent returns the newest transactions, most recent first.
	ListRecent(ctx context.Context, limit int) ([]models.LedgerTransaction, error)
}

type service struct {
	store   *Store
	repo    repositories.LedgerRepository
	cache   *cache.CacheService
	metrics MetricsCollector
}

// NewService creates a new ledger service. The cache is optional; metrics
// falls back to a no-op collector when nil.
func NewService(store *Store, repo repositories.LedgerRepository, cacheSvc *cache.CacheService, metrics MetricsCollector) Service {
	if store == nil {
		panic("store is required")
	}
	if repo == nil {
		panic("repo is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		store:   store,
		repo:    repo,
		cache:   cacheSvc,
		metrics: metrics,
	}
}

func (s *service) Record(ctx context.Context, referenceID, transactionType string, data models.JSON) (*models.LedgerTransaction, error) {
	start := time.Now()

	if strings.TrimSpace(referenceID) == "" {
		s.metrics.RecordError("record", "empty_reference")
		return nil, fmt.Errorf("%w: reference_id must not be empty", errs.ErrInvalidTransaction)
	}
	if strings.TrimSpace(transactionType) == "" {
		s.metrics.RecordError("record", "empty_type")
		return nil, fmt.Errorf("%w: transaction_type must not be empty", errs.ErrInvalidTransaction)
	}

	tx, err := s.store.Record(ctx, referenceID, transactionType, data)
	if err != nil {
		s.metrics.RecordError("record", "append_failed")
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if s.cache != nil {
		// Best effort; lookups fall back to the repository.
		s.cache.CacheTransaction(ctx, tx)
	}

	s.metrics.RecordTransaction(transactionType)
	s.metrics.RecordOperationDuration("record", time.Since(start))
	return tx, nil
}

func (s *service) Verify(ctx context.Context, hash string) (*VerifyResult, error) {
	start := time.Now()

	// Verification always walks the persisted chain; the cache is never
	// trusted here.
	result, err := s.store.Verify(ctx, hash)
	if err != nil {
		s.metrics.RecordError("verify", "walk_failed")
		return nil, err
	}

	s.metrics.RecordOperationDuration("verify", time.Since(start))
	return result, nil
}

func (s *service) VerifyByReference(ctx context.Context, referenceID string) (*VerifyResult, error) {
	tx, err := s.repo.GetByReference(ctx, referenceID)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			return &VerifyResult{Exists: false}, nil
		}
		return nil, err
	}
	return s.Verify(ctx, tx.TransactionHash)
}

func (s *service) GetTransaction(ctx context.Context, hash string) (*models.LedgerTransaction, error) {
	if s.cache != nil {
		if tx, found, err := s.cache.GetTransaction(ctx, hash); err == nil && found {
			return tx, nil
		}
	}

	tx, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.CacheTransaction(ctx, tx)
	}
	return tx, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]models.LedgerTransaction, error) {
	return s.repo.ListRecent(ctx, limit)
}
