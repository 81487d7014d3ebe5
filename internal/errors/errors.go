// Package errors defines the domain error values shared across services
// so handlers can map every failure kind to exactly one response shape.
package errors

// DomainError is an error with a stable machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
