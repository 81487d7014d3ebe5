package models

import (
	"time"
)

// Ledger transaction types
const (
	TransactionTypeTaxFiling    = "TAX_FILING"
	TransactionTypePayment      = "PAYMENT"
	TransactionTypeRegistration = "REGISTRATION"
	TransactionTypeAudit        = "AUDIT"
	TransactionTypeFraudFlag    = "FRAUD_FLAG"
)

// Ledger transaction statuses
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusConfirmed = "CONFIRMED"
)

// LedgerTransaction is one record in the append-only hash chain. Once
// confirmed it is never updated or deleted; every record except the first
// links to its predecessor through PreviousHash.
type LedgerTransaction struct {
	ID              uint      `gorm:"primarykey" json:"-"`
	Sequence        uint64    `gorm:"not null;uniqueIndex" json:"sequence"`
	TransactionHash string    `gorm:"not null;uniqueIndex" json:"transaction_hash"`
	ReferenceID     string    `gorm:"not null;index" json:"reference_id"`
	Type            string    `gorm:"not null" json:"transaction_type"`
	Data            JSON      `gorm:"type:jsonb" json:"transaction_data"`
	PreviousHash    string    `gorm:"not null" json:"previous_hash"`
	Status          string    `gorm:"not null;default:'CONFIRMED'" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// ShortHash returns a shortened hash for display.
func (t *LedgerTransaction) ShortHash() string {
	if len(t.TransactionHash) < 16 {
		return t.TransactionHash
	}
	return t.TransactionHash[:10] + "..." + t.TransactionHash[len(t.TransactionHash)-6:]
}
