package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("access denied")
	ErrConflict            = errors.New("conflict with current state")
	ErrInvalidTransition   = errors.New("invalid lifecycle transition")
	ErrWrongDeliveryMethod = errors.New("operation not supported for delivery method")
	ErrStorage             = errors.New("storage failure")
	ErrAIUnavailable       = errors.New("ai service not configured")
)

// TransitionError describe un movimiento de ciclo de vida rechazado. Se
// desenvuelve a ErrInvalidTransition o ErrWrongDeliveryMethod.
type TransitionError struct {
	Method string
	From   string
	To     string
	Err    error
}

func (e *TransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("%v: %s invoice in %q", e.Err, e.Method, e.From)
	}
	return fmt.Sprintf("%v: %s %q -> %q", e.Err, e.Method, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return e.Err }
