package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHash(t *testing.T) {
	data := models.JSON{"amount": 12500.0, "currency": "ZMW"}

	t.Run("deterministic", func(t *testing.T) {
		first, err := ComputeHash(0, "PAY_001", models.TransactionTypePayment, data, GenesisHash)
		require.NoError(t, err)
		second, err := ComputeHash(0, "PAY_001", models.TransactionTypePayment, data, GenesisHash)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("prefixed uppercase hex", func(t *testing.T) {
		hash, err := ComputeHash(0, "PAY_001", models.TransactionTypePayment, data, GenesisHash)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(hash, HashPrefix))
		digest := strings.TrimPrefix(hash, HashPrefix)
		assert.Len(t, digest, 64)
		assert.Equal(t, strings.ToUpper(digest), digest)
	})

	t.Run("any field change alters the hash", func(t *testing.T) {
		base, err := ComputeHash(0, "PAY_001", models.TransactionTypePayment, data, GenesisHash)
		require.NoError(t, err)

		variants := []string{}
		for _, h := range []func() (string, error){
			func() (string, error) {
				return ComputeHash(1, "PAY_001", models.TransactionTypePayment, data, GenesisHash)
			},
			func() (string, error) {
				return ComputeHash(0, "PAY_002", models.TransactionTypePayment, data, GenesisHash)
			},
			func() (string, error) {
				return ComputeHash(0, "PAY_001", models.TransactionTypeAudit, data, GenesisHash)
			},
			func() (string, error) {
				return ComputeHash(0, "PAY_001", models.TransactionTypePayment, models.JSON{"amount": 1.0}, GenesisHash)
			},
		} {
			hash, err := h()
			require.NoError(t, err)
			variants = append(variants, hash)
		}
		for _, v := range variants {
			assert.NotEqual(t, base, v)
		}
	})
}

func TestStore_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("first record links to genesis", func(t *testing.T) {
		store, err := NewStore(ctx, repositories.NewMemoryLedgerRepository())
		require.NoError(t, err)

		tx, err := store.Record(ctx, "FILING_001", models.TransactionTypeTaxFiling, models.JSON{"period": "2024-Q1"})
		require.NoError(t, err)

		assert.Equal(t, uint64(0), tx.Sequence)
		assert.Equal(t, GenesisHash, tx.PreviousHash)
		assert.Equal(t, models.TransactionStatusConfirmed, tx.Status)
	})

	t.Run("each record links to its predecessor", func(t *testing.T) {
		store, err := NewStore(ctx, repositories.NewMemoryLedgerRepository())
		require.NoError(t, err)

		var prev string
		for i := 0; i < 5; i++ {
			tx, err := store.Record(ctx, fmt.Sprintf("REF_%03d", i), models.TransactionTypePayment, models.JSON{"n": float64(i)})
			require.NoError(t, err)
			if i > 0 {
				assert.Equal(t, prev, tx.PreviousHash)
			}
			assert.Equal(t, uint64(i), tx.Sequence)
			prev = tx.TransactionHash
		}
	})

	t.Run("resumes from a persisted tip", func(t *testing.T) {
		repo := repositories.NewMemoryLedgerRepository()
		store, err := NewStore(ctx, repo)
		require.NoError(t, err)
		first, err := store.Record(ctx, "REF_A", models.TransactionTypeRegistration, nil)
		require.NoError(t, err)

		// A fresh store over the same repository continues the chain.
		reopened, err := NewStore(ctx, repo)
		require.NoError(t, err)
		second, err := reopened.Record(ctx, "REF_B", models.TransactionTypeRegistration, nil)
		require.NoError(t, err)

		assert.Equal(t, first.TransactionHash, second.PreviousHash)
		assert.Equal(t, first.Sequence+1, second.Sequence)
	})

	t.Run("concurrent writers keep the chain sequential", func(t *testing.T) {
		repo := repositories.NewMemoryLedgerRepository()
		store, err := NewStore(ctx, repo)
		require.NoError(t, err)

		const writers = 16
		hashes := make([]string, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				tx, err := store.Record(ctx, fmt.Sprintf("REF_%03d", i), models.TransactionTypePayment, models.JSON{"n": float64(i)})
				assert.NoError(t, err)
				hashes[i] = tx.TransactionHash
			}(i)
		}
		wg.Wait()

		seen := make(map[string]bool, writers)
		for _, h := range hashes {
			assert.False(t, seen[h], "duplicate hash %s", h)
			seen[h] = true
		}

		chain, err := repo.ListUpTo(ctx, writers)
		require.NoError(t, err)
		require.Len(t, chain, writers)
		prev := GenesisHash
		for i, tx := range chain {
			assert.Equal(t, uint64(i), tx.Sequence)
			assert.Equal(t, prev, tx.PreviousHash)
			prev = tx.TransactionHash
		}
	})
}

func TestStore_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("all recorded transactions verify", func(t *testing.T) {
		store, err := NewStore(ctx, repositories.NewMemoryLedgerRepository())
		require.NoError(t, err)

		var hashes []string
		for i := 0; i < 4; i++ {
			tx, err := store.Record(ctx, fmt.Sprintf("REF_%03d", i), models.TransactionTypeTaxFiling, models.JSON{"n": float64(i)})
			require.NoError(t, err)
			hashes = append(hashes, tx.TransactionHash)
		}

		for _, h := range hashes {
			result, err := store.Verify(ctx, h)
			require.NoError(t, err)
			assert.True(t, result.Exists)
			assert.True(t, result.Valid)
			require.NotNil(t, result.Transaction)
			assert.Equal(t, h, result.Transaction.TransactionHash)
		}
	})

	t.Run("unknown hash exists=false", func(t *testing.T) {
		store, err := NewStore(ctx, repositories.NewMemoryLedgerRepository())
		require.NoError(t, err)

		result, err := store.Verify(ctx, HashPrefix+strings.Repeat("F", 64))
		require.NoError(t, err)
		assert.False(t, result.Exists)
		assert.False(t, result.Valid)
	})

	t.Run("tampering invalidates the record and everything after it", func(t *testing.T) {
		repo := repositories.NewMemoryLedgerRepository()
		store, err := NewStore(ctx, repo)
		require.NoError(t, err)

		var hashes []string
		for i := 0; i < 5; i++ {
			tx, err := store.Record(ctx, fmt.Sprintf("REF_%03d", i), models.TransactionTypePayment, models.JSON{"amount": float64(100 * i)})
			require.NoError(t, err)
			hashes = append(hashes, tx.TransactionHash)
		}

		// Mutate the persisted payload of the third record.
		stored, err := repo.GetByHash(ctx, hashes[2])
		require.NoError(t, err)
		stored.Data["amount"] = 999999.0

		for i, h := range hashes {
			result, err := store.Verify(ctx, h)
			require.NoError(t, err)
			require.True(t, result.Exists)
			if i < 2 {
				assert.True(t, result.Valid, "record %d before the tamper point", i)
			} else {
				assert.False(t, result.Valid, "record %d at or after the tamper point", i)
			}
		}
	})
}

func TestStore_ScanIntegrity(t *testing.T) {
	ctx := context.Background()

	t.Run("empty chain is clean", func(t *testing.T) {
		store, err := NewStore(ctx, repositories.NewMemoryLedgerRepository())
		require.NoError(t, err)
		assert.NoError(t, store.ScanIntegrity(ctx))
	})

	t.Run("intact chain is clean", func(t *testing.T) {
		store, err := NewStore(ctx, repositories.NewMemoryLedgerRepository())
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			_, err := store.Record(ctx, fmt.Sprintf("REF_%03d", i), models.TransactionTypeAudit, nil)
			require.NoError(t, err)
		}
		assert.NoError(t, store.ScanIntegrity(ctx))
	})

	t.Run("corruption is reported", func(t *testing.T) {
		repo := repositories.NewMemoryLedgerRepository()
		store, err := NewStore(ctx, repo)
		require.NoError(t, err)

		tx, err := store.Record(ctx, "REF_000", models.TransactionTypeAudit, models.JSON{"k": "v"})
		require.NoError(t, err)

		stored, err := repo.GetByHash(ctx, tx.TransactionHash)
		require.NoError(t, err)
		stored.Data["k"] = "tampered"

		assert.ErrorIs(t, store.ScanIntegrity(ctx), errs.ErrChainCorruption)
	})
}
