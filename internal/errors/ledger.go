package errors

var (
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrInvalidTransaction = &DomainError{
		Code:    "INVALID_TRANSACTION",
		Message: "invalid transaction data",
	}
	ErrChainCorruption = &DomainError{
		Code:    "CHAIN_CORRUPTION",
		Message: "ledger chain integrity violation",
	}
)
