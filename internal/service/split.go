package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/pkg/api"
)

// SplitObserver is told about every split the services compute.
type SplitObserver interface {
	ObserveSplit(mode string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveSplit(string, error) {}

// computeSplit runs the split engine for one request. Even mode divides
// amount among participants; custom mode validates the proposed shares.
func computeSplit(observer SplitObserver, amount decimal.Decimal, mode string, participants []string, proposed []*api.ShareInput) ([]calculator.Share, error) {
	var (
		shares []calculator.Share
		err    error
	)

	switch mode {
	case api.SplitModeEven:
		shares, err = calculator.SplitEvenly(amount, participants)
	case api.SplitModeCustom:
		input := make([]calculator.Share, len(proposed))
		for i, p := range proposed {
			if p == nil {
				return nil, invalidArgument("share %d is empty", i)
			}
			input[i] = calculator.Share{Participant: p.UserID, Amount: p.Amount}
		}
		shares, err = calculator.SplitCustom(amount, input)
	default:
		return nil, invalidArgument("unknown split mode %q", mode)
	}

	observer.ObserveSplit(mode, err)
	return shares, err
}

// splitMode picks the mode when a request leaves it blank: custom when
// shares are given, even otherwise.
func splitMode(mode string, proposed []*api.ShareInput) string {
	if mode != "" {
		return mode
	}
	if len(proposed) > 0 {
		return api.SplitModeCustom
	}
	return api.SplitModeEven
}

// maxAmount is the largest expense or settlement amount accepted for storage.
// Stored values and household totals must stay within int64 cents.
var maxAmount = decimal.New(1, 12)

// validateAmount checks a stored amount: positive, at most maxAmount and with
// at most two decimals.
func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return invalidArgument("%s must be positive", field)
	}
	if amount.GreaterThan(maxAmount) {
		return invalidArgument("%s cannot exceed %s", field, maxAmount)
	}
	if !amount.Equal(calculator.RoundCents(amount)) {
		return invalidArgument("%s must have at most two decimal places", field)
	}
	return nil
}
