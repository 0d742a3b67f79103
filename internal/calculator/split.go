package calculator

import "github.com/shopspring/decimal"

// Share is one participant's portion of a split total. The same shape is used
// for caller-proposed custom amounts before they are validated.
type Share struct {
	Participant string
	Amount      decimal.Decimal
}

// SplitEvenly divides total among participants in the given order.
//
// Every participant receives total/n truncated down to the cent; the last
// participant additionally absorbs the rounding remainder, so the shares
// always add up to total at cent precision.
func SplitEvenly(total decimal.Decimal, participants []string) ([]Share, error) {
	if len(participants) == 0 {
		return nil, invalidInput("cannot split among zero participants")
	}
	if err := checkUnique(participants); err != nil {
		return nil, err
	}

	n := len(participants)
	base := floorCents(total, n)
	remainder := RoundCents(total.Sub(base.Mul(decimal.NewFromInt(int64(n)))))

	shares := make([]Share, n)
	for i, p := range participants {
		shares[i] = Share{Participant: p, Amount: base}
	}
	shares[n-1].Amount = base.Add(remainder)

	return shares, nil
}

// SplitCustom validates caller-proposed shares against total and normalizes
// each amount to the cent.
//
// The proposed amounts may differ from total by at most Tolerance. Each share
// is rounded on its own; any residual difference left after rounding is kept
// as is and not redistributed.
func SplitCustom(total decimal.Decimal, proposed []Share) ([]Share, error) {
	if len(proposed) == 0 {
		return nil, invalidInput("cannot create custom split with no participants")
	}

	ids := make([]string, len(proposed))
	for i, s := range proposed {
		ids[i] = s.Participant
	}
	if err := checkUnique(ids); err != nil {
		return nil, err
	}

	sum := Sum(proposed)
	if sum.Sub(total).Abs().GreaterThan(Tolerance) {
		return nil, &MismatchError{Sum: sum, Total: total}
	}

	shares := make([]Share, len(proposed))
	for i, s := range proposed {
		shares[i] = Share{Participant: s.Participant, Amount: RoundCents(s.Amount)}
	}

	return shares, nil
}

func checkUnique(participants []string) error {
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if _, ok := seen[p]; ok {
			return invalidInput("participant %q appears more than once", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}
