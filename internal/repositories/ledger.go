package repositories

import (
	"context"

	"taxchain/internal/models"
)

// LedgerRepository persists the hash-chained transaction records. The chain
// tip discipline lives in the ledger store; this layer only appends and
// reads. GetByHash and GetByReference return ErrTransactionNotFound from the
// errors package when no record matches.
type LedgerRepository interface {
	Append(ctx context.Context, tx *models.LedgerTransaction) error
	GetByHash(ctx context.Context, hash string) (*models.LedgerTransaction, error)
	GetByReference(ctx context.Context, referenceID string) (*models.LedgerTransaction, error)
	// Latest returns the highest-sequence record, or nil when the chain is empty.
	Latest(ctx context.Context) (*models.LedgerTransaction, error)
	// ListUpTo returns all records with sequence <= the given value, ascending.
	ListUpTo(ctx context.Context, sequence uint64) ([]models.LedgerTransaction, error)
	ListRecent(ctx context.Context, limit int) ([]models.LedgerTransaction, error)
	Count(ctx context.Context) (int64, error)
}
