package game

import (
	"errors"
	"fmt"

	"github.com/lox/quantumholdem/poker"
)

var (
	// ErrIllegalAction is returned when an action breaks betting or turn-order
	// rules. State is unchanged.
	ErrIllegalAction = errors.New("illegal action")
	// ErrBudgetExceeded is returned when a seat is over its gate allowance or
	// its cards are already collapsed. State is unchanged.
	ErrBudgetExceeded = errors.New("gate budget exceeded")
	// ErrInvalidConfig is returned by NewTable for unusable settings.
	ErrInvalidConfig = errors.New("invalid table configuration")
)

// ErrorCategory groups engine errors by how a caller should react.
type ErrorCategory int

const (
	CategoryNone ErrorCategory = iota
	CategoryIllegalAction
	CategoryInsufficientResources
	CategoryBudgetExceeded
	CategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryIllegalAction:
		return "illegal_action"
	case CategoryInsufficientResources:
		return "insufficient_resources"
	case CategoryBudgetExceeded:
		return "budget_exceeded"
	default:
		return "internal_consistency"
	}
}

// Recoverable reports whether the error left the hand intact.
func (c ErrorCategory) Recoverable() bool {
	return c == CategoryIllegalAction || c == CategoryBudgetExceeded
}

// Classify maps an error returned by the engine to its category. Unknown
// errors are treated as internal.
func Classify(err error) ErrorCategory {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrIllegalAction), errors.Is(err, ErrInvalidConfig):
		return CategoryIllegalAction
	case errors.Is(err, ErrBudgetExceeded):
		return CategoryBudgetExceeded
	case errors.Is(err, poker.ErrInsufficientCards):
		return CategoryInsufficientResources
	default:
		return CategoryInternal
	}
}

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

func overBudget(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBudgetExceeded, fmt.Sprintf(format, args...))
}
