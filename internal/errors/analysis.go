package errors

var (
	ErrInvalidFiling = &DomainError{
		Code:    "INVALID_FILING",
		Message: "invalid filing data",
	}
	ErrInvalidConfiguration = &DomainError{
		Code:    "INVALID_CONFIGURATION",
		Message: "invalid scorer configuration",
	}
)
