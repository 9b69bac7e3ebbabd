package superorganism

import (
	"errors"
	"fmt"

	"github.com/sea212/Masterthesis-Superorganism/registry"
	"github.com/sea212/Masterthesis-Superorganism/types"
)

var (
	// ErrUnknownType is returned for names the registry does not define.
	ErrUnknownType = registry.ErrUnknownType
	// ErrIllegalTransition is wrapped by every TransitionError.
	ErrIllegalTransition = errors.New("illegal state transition")
)

// TransitionError signals a StateRotated event the proposal pallet
// could not have produced, which means the observer missed events or
// is following a different chain.
type TransitionError struct {
	From types.States
	To   types.States
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(from, to types.States) *TransitionError {
	return &TransitionError{From: from, To: to}
}

// IsTransition checks whether an error is a TransitionError and
// returns it.
func IsTransition(err error) (*TransitionError, bool) {
	var t *TransitionError
	if errors.As(err, &t) {
		return t, true
	}
	return nil, false
}

// DefinitionError is a defect in a registry entry.
type DefinitionError = registry.DefinitionError

// IsDefinitionError checks whether an error is a DefinitionError and
// returns it.
func IsDefinitionError(err error) (*DefinitionError, bool) {
	return registry.IsDefinitionError(err)
}
