package card

import "errors"

// Erros sentinela do pacote. Callers test them with errors.Is.
var (
	ErrInvalidCard   = errors.New("invalid card")
	ErrInvalidInput  = errors.New("invalid input")
	ErrExhaustedPool = errors.New("card pool exhausted")
)
