package validation

import (
	"taxchain/internal/models"
)

// Filing validates an inbound filing payload
func (v *Validator) Filing(f *models.Filing) {
	v.Required("filing_id", f.FilingID)
	v.Required("taxpayer_id", f.TaxpayerID)
	v.MaxLength("filing_id", f.FilingID, 50)
	v.MaxLength("taxpayer_id", f.TaxpayerID, 20)
	v.NonNegative("income", f.Income)
	v.NonNegative("deductions", f.Deductions)
}

// LedgerEntry validates a record-transaction request
func (v *Validator) LedgerEntry(referenceID, transactionType string) {
	v.Required("reference_id", referenceID)
	v.Required("transaction_type", transactionType)
	v.MaxLength("reference_id", referenceID, 50)
	v.MaxLength("transaction_type", transactionType, 20)
}
