package game

import (
	"errors"
	"fmt"
)

// Taxonomia de erros do core. Handlers HTTP e workers mapeiam cada classe
// para um comportamento distinto (rejeitar, repetir, alertar).
var (
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrConflict          = errors.New("concurrency conflict")
	ErrCollaborator      = errors.New("collaborator error")
	ErrInvariant         = errors.New("invariant violation")

	// ErrAlreadySettled: tentativa de liquidar um concurso já COMPLETED.
	// Tratado como no-op pelo chamador.
	ErrAlreadySettled = fmt.Errorf("%w: draw already completed", ErrConflict)
)

// Códigos de motivo expostos ao cliente em rejeições síncronas.
const (
	ReasonBadMethod          = "bad_method"
	ReasonDuplicateNumbers   = "duplicate_numbers"
	ReasonNumberOutOfRange   = "number_out_of_range"
	ReasonPositionMismatch   = "position_count_mismatch"
	ReasonPositionOutOfRange = "position_out_of_range"
	ReasonSelectedCountRange = "selected_count_out_of_range"
	ReasonTooFewNumbers      = "too_few_numbers"
	ReasonStakeBelowMin      = "stake_below_min"
	ReasonStakeAboveMax      = "stake_above_max"
	ReasonMultiplierRange    = "multiplier_out_of_range"
	ReasonPayoutAboveCap     = "payout_above_cap"
	ReasonDrawNotOpen        = "draw_not_open"
	ReasonNotEligible        = "user_not_eligible"
)

// ValidationError carrega o código do motivo junto da mensagem.
type ValidationError struct {
	Reason string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Reason, e.Detail)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extrai o código de motivo de um erro de validação, se houver.
func ReasonOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}
