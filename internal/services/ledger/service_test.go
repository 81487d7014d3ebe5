package ledger

import (
	"context"
	"testing"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *repositories.MemoryLedgerRepository) {
	t.Helper()
	repo := repositories.NewMemoryLedgerRepository()
	store, err := NewStore(context.Background(), repo)
	require.NoError(t, err)
	return NewService(store, repo, nil, nil), repo
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records and verifies", func(t *testing.T) {
		svc, _ := newTestService(t)

		tx, err := svc.Record(ctx, "FILING_001", models.TransactionTypeTaxFiling, models.JSON{"taxpayer_id": "TPIN001"})
		require.NoError(t, err)
		assert.Equal(t, "FILING_001", tx.ReferenceID)

		result, err := svc.Verify(ctx, tx.TransactionHash)
		require.NoError(t, err)
		assert.True(t, result.Exists)
		assert.True(t, result.Valid)
	})

	t.Run("empty reference rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Record(ctx, "   ", models.TransactionTypePayment, nil)
		assert.ErrorIs(t, err, errs.ErrInvalidTransaction)
	})

	t.Run("empty type rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Record(ctx, "PAY_001", "", nil)
		assert.ErrorIs(t, err, errs.ErrInvalidTransaction)
	})

	t.Run("nil data allowed", func(t *testing.T) {
		svc, _ := newTestService(t)

		tx, err := svc.Record(ctx, "REG_001", models.TransactionTypeRegistration, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, tx.TransactionHash)
	})
}

func TestService_VerifyByReference(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Record(ctx, "FILING_001", models.TransactionTypeTaxFiling, models.JSON{"version": 1.0})
	require.NoError(t, err)
	second, err := svc.Record(ctx, "FILING_001", models.TransactionTypeTaxFiling, models.JSON{"version": 2.0})
	require.NoError(t, err)

	t.Run("resolves the most recent transaction", func(t *testing.T) {
		result, err := svc.VerifyByReference(ctx, "FILING_001")
		require.NoError(t, err)
		assert.True(t, result.Exists)
		assert.True(t, result.Valid)
		require.NotNil(t, result.Transaction)
		assert.Equal(t, second.TransactionHash, result.Transaction.TransactionHash)
	})

	t.Run("unknown reference exists=false", func(t *testing.T) {
		result, err := svc.VerifyByReference(ctx, "NOPE")
		require.NoError(t, err)
		assert.False(t, result.Exists)
	})
}

func TestService_Lookups(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var hashes []string
	for _, ref := range []string{"A", "B", "C"} {
		tx, err := svc.Record(ctx, ref, models.TransactionTypePayment, nil)
		require.NoError(t, err)
		hashes = append(hashes, tx.TransactionHash)
	}

	t.Run("get by hash", func(t *testing.T) {
		tx, err := svc.GetTransaction(ctx, hashes[1])
		require.NoError(t, err)
		assert.Equal(t, "B", tx.ReferenceID)
	})

	t.Run("get unknown hash", func(t *testing.T) {
		_, err := svc.GetTransaction(ctx, HashPrefix+"deadbeef")
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("list recent newest first", func(t *testing.T) {
		txs, err := svc.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, "C", txs[0].ReferenceID)
		assert.Equal(t, "B", txs[1].ReferenceID)
	})
}
