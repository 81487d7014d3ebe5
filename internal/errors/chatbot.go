package errors

var (
	ErrConversationNotFound = &DomainError{
		Code:    "CONVERSATION_NOT_FOUND",
		Message: "conversation not found",
	}
	ErrEmptyQuery = &DomainError{
		Code:    "EMPTY_QUERY",
		Message: "query must not be empty",
	}
)
