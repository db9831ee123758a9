package usecase

// DomainError: the request itself is wrong (missing fields, unknown id).
// Never retried, reported as a client-side problem.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: the sheet or places backend is unreachable, rate-limited,
// or rejecting calls. Surfaced verbatim, no retry, no backoff.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
