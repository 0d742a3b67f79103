package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput is returned when a split is requested for an empty or
	// otherwise malformed set of participants.
	ErrInvalidInput = errors.New("invalid split input")

	// ErrSplitMismatch is returned when custom shares do not add up to the
	// expense total within Tolerance.
	ErrSplitMismatch = errors.New("split does not match total")

	// ErrAmountOutOfRange is returned when an amount has no int64 cent value.
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// MismatchError carries both figures of a rejected custom split so they can be
// shown back to the user.
type MismatchError struct {
	Sum   decimal.Decimal
	Total decimal.Decimal
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("custom split total (%s) does not match expense amount (%s)",
		e.Sum.StringFixed(2), e.Total.StringFixed(2))
}

// Is reports ErrSplitMismatch as the kind of this error.
func (e *MismatchError) Is(target error) bool {
	return target == ErrSplitMismatch
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
