package repositories

import (
	"context"
	"sync"
	"time"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
)

// In-memory repository implementations. They back the same interfaces as the
// gorm implementations and are used by tests and cache-less dev setups.

// MemoryAnalysisRepository is an in-memory AnalysisRepository.
type MemoryAnalysisRepository struct {
	mu         sync.RWMutex
	nextID     uint
	byTaxpayer map[string][]*models.RiskAnalysis
	total      int64
}

// NewMemoryAnalysisRepository creates an empty in-memory analysis repository.
func NewMemoryAnalysisRepository() *MemoryAnalysisRepository {
	return &MemoryAnalysisRepository{
		nextID:     1,
		byTaxpayer: make(map[string][]*models.RiskAnalysis),
	}
}

func (r *MemoryAnalysisRepository) Create(ctx context.Context, analysis *models.RiskAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	analysis.ID = r.nextID
	r.nextID++
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}
	stored := *analysis
	r.byTaxpayer[analysis.TaxpayerID] = append(r.byTaxpayer[analysis.TaxpayerID], &stored)
	r.total++
	return nil
}

func (r *MemoryAnalysisRepository) ListByTaxpayer(ctx context.Context, taxpayerID string) ([]models.RiskAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.byTaxpayer[taxpayerID]
	analyses := make([]models.RiskAnalysis, 0, len(stored))
	// Most recent first; records are appended in insertion order.
	for i := len(stored) - 1; i >= 0; i-- {
		analyses = append(analyses, *stored[i])
	}
	return analyses, nil
}

func (r *MemoryAnalysisRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total, nil
}

// MemoryLedgerRepository is an in-memory LedgerRepository. Lookups return
// pointers to the stored records, which lets integrity tests simulate
// tampering with persisted data.
type MemoryLedgerRepository struct {
	mu     sync.RWMutex
	chain  []*models.LedgerTransaction
	byHash map[string]*models.LedgerTransaction
}

// NewMemoryLedgerRepository creates an empty in-memory ledger repository.
func NewMemoryLedgerRepository() *MemoryLedgerRepository {
	return &MemoryLedgerRepository{byHash: make(map[string]*models.LedgerTransaction)}
}

func (r *MemoryLedgerRepository) Append(ctx context.Context, tx *models.LedgerTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = uint(len(r.chain) + 1)
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	r.chain = append(r.chain, tx)
	r.byHash[tx.TransactionHash] = tx
	return nil
}

func (r *MemoryLedgerRepository) GetByHash(ctx context.Context, hash string) (*models.LedgerTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.byHash[hash]
	if !ok {
		return nil, errs.ErrTransactionNotFound
	}
	return tx, nil
}

func (r *MemoryLedgerRepository) GetByReference(ctx context.Context, referenceID string) (*models.LedgerTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.chain) - 1; i >= 0; i-- {
		if r.chain[i].ReferenceID == referenceID {
			return r.chain[i], nil
		}
	}
	return nil, errs.ErrTransactionNotFound
}

func (r *MemoryLedgerRepository) Latest(ctx context.Context) (*models.LedgerTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.chain) == 0 {
		return nil, nil
	}
	return r.chain[len(r.chain)-1], nil
}

func (r *MemoryLedgerRepository) ListUpTo(ctx context.Context, sequence uint64) ([]models.LedgerTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var txs []models.LedgerTransaction
	for _, tx := range r.chain {
		if tx.Sequence <= sequence {
			txs = append(txs, *tx)
		}
	}
	return txs, nil
}

func (r *MemoryLedgerRepository) ListRecent(ctx context.Context, limit int) ([]models.LedgerTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var txs []models.LedgerTransaction
	for i := len(r.chain) - 1; i >= 0 && len(txs) < limit; i-- {
		txs = append(txs, *r.chain[i])
	}
	return txs, nil
}

func (r *MemoryLedgerRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.chain)), nil
}

// MemoryConversationRepository is an in-memory ConversationRepository.
type MemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
	messages      []*models.ChatMessage
}

// NewMemoryConversationRepository creates an empty in-memory conversation repository.
func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{conversations: make(map[string]*models.Conversation)}
}

func (r *MemoryConversationRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv.ID = uint(len(r.conversations) + 1)
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	stored := *conv
	r.conversations[conv.ConversationID] = &stored
	return nil
}

func (r *MemoryConversationRepository) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return nil, errs.ErrConversationNotFound
	}
	copied := *conv
	return &copied, nil
}

func (r *MemoryConversationRepository) UpdateConversation(ctx context.Context, conv *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *conv
	r.conversations[conv.ConversationID] = &stored
	return nil
}

func (r *MemoryConversationRepository) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg.ID = uint(len(r.messages) + 1)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *MemoryConversationRepository) CountConversations(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.conversations)), nil
}

// Messages returns all stored messages in insertion order.
func (r *MemoryConversationRepository) Messages() []models.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := make([]models.ChatMessage, 0, len(r.messages))
	for _, m := range r.messages {
		msgs = append(msgs, *m)
	}
	return msgs
}
