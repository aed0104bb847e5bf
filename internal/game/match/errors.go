package match

import "errors"

// Erros sentinela do pacote. Callers test them with errors.Is.
var (
	ErrPropertyReused  = errors.New("property already used this card-game")
	ErrCardAlreadyUsed = errors.New("card already used this match")
	ErrPhaseViolation  = errors.New("operation not allowed in current phase")
	ErrCorruptState    = errors.New("corrupt match state")
)
