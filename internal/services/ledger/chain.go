package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/repositories"
)

// HashPrefix marks ledger hashes, kept for display compatibility with the
// legacy transaction format.
const HashPrefix = "0xZRA"

// GenesisHash is the previous_hash sentinel of the first chain record.
var GenesisHash = HashPrefix + strings.Repeat("0", 64)

// ComputeHash produces the transaction hash over the record's content and
// chain position. The data payload is canonicalized through JSON marshaling
// (map keys are emitted in sorted order), so recomputation from stored
// fields is deterministic.
func ComputeHash(sequence uint64, referenceID, transactionType string, data models.JSON, previousHash string) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize transaction data: %w", err)
	}

	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s|%s", sequence, referenceID, transactionType, payload, previousHash)
	return HashPrefix + strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

// Store maintains the append-only hash chain over a ledger repository. The
// tip pointer is guarded by a single mutex: at most one writer advances the
// chain at a time, and no two records are ever assigned the same
// previous_hash.
type Store struct {
	repo repositories.LedgerRepository

	mu      sync.Mutex
	tipHash string
	nextSeq uint64
}

// NewStore loads the chain tip from the repository and returns a ready
// store.
func NewStore(ctx context.Context, repo repositories.LedgerRepository) (*Store, error) {
	if repo == nil {
		panic("repo is required")
	}

	tip, err := repo.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chain tip: %w", err)
	}

	store := &Store{repo: repo, tipHash: GenesisHash}
	if tip != nil {
		store.tipHash = tip.TransactionHash
		store.nextSeq = tip.Sequence + 1
	}
	return store, nil
}

// Record appends a transaction to the chain and confirms it synchronously.
func (s *Store) Record(ctx context.Context, referenceID, transactionType string, data models.JSON) (*models.LedgerTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := ComputeHash(s.nextSeq, referenceID, transactionType, data, s.tipHash)
	if err != nil {
		return nil, err
	}

	tx := &models.LedgerTransaction{
		Sequence:        s.nextSeq,
		TransactionHash: hash,
		ReferenceID:     referenceID,
		Type:            transactionType,
		Data:            data,
		PreviousHash:    s.tipHash,
		Status:          models.TransactionStatusConfirmed,
		CreatedAt:       time.Now(),
	}

	if err := s.repo.Append(ctx, tx); err != nil {
		// Tip not advanced: the failed position is reused by the next call.
		return nil, err
	}

	s.tipHash = hash
	s.nextSeq++
	return tx, nil
}

// VerifyResult is the outcome of a verification query.
type VerifyResult struct {
	Exists      bool
	Valid       bool
	Transaction *models.LedgerTransaction
}

// Verify checks a transaction hash against the chain. A missing hash yields
// Exists=false rather than an error. Validity requires the stored hash to be
// reproducible from the stored fields and every link from genesis to the
// record to be intact: a break upstream invalidates everything downstream.
func (s *Store) Verify(ctx context.Context, hash string) (*VerifyResult, error) {
	target, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, errs.ErrTransactionNotFound) {
			return &VerifyResult{Exists: false}, nil
		}
		return nil, err
	}

	valid, err := s.verifySegment(ctx, target)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Exists: true, Valid: valid, Transaction: target}, nil
}

func (s *Store) verifySegment(ctx context.Context, target *models.LedgerTransaction) (bool, error) {
	segment, err := s.repo.ListUpTo(ctx, target.Sequence)
	if err != nil {
		return false, err
	}

	prev := GenesisHash
	var expectedSeq uint64
	for i := range segment {
		rec := &segment[i]
		if rec.Sequence != expectedSeq || rec.PreviousHash != prev {
			return false, nil
		}
		recomputed, err := ComputeHash(rec.Sequence, rec.ReferenceID, rec.Type, rec.Data, rec.PreviousHash)
		if err != nil {
			return false, err
		}
		if recomputed != rec.TransactionHash {
			return false, nil
		}
		prev = rec.TransactionHash
		expectedSeq++
	}

	// The walk must actually end at the queried record.
	return len(segment) > 0 && segment[len(segment)-1].TransactionHash == target.TransactionHash, nil
}

// ScanIntegrity walks the whole chain and returns ErrChainCorruption when
// any link or hash does not reproduce. Corruption is fatal: it cannot be
// repaired by retrying.
func (s *Store) ScanIntegrity(ctx context.Context) error {
	tip, err := s.repo.Latest(ctx)
	if err != nil {
		return err
	}
	if tip == nil {
		return nil
	}

	ok, err := s.verifySegment(ctx, tip)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: previous_hash mismatch detected during integrity scan", errs.ErrChainCorruption)
	}
	return nil
}
