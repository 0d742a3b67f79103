package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CalculateBalance returns the signed balance between two parties given what
// each paid and what each owes according to their splits.
//
// A positive result means A owes B that amount, a negative result means B
// owes A the absolute value, and zero means the two are settled.
func CalculateBalance(paidA, paidB, owedA, owedB decimal.Decimal) decimal.Decimal {
	netA := paidA.Sub(owedA)
	netB := paidB.Sub(owedB)
	return netB.Sub(netA)
}

// BalanceInputs holds the four totals CalculateBalance works on.
type BalanceInputs struct {
	PaidA decimal.Decimal
	PaidB decimal.Decimal
	OwedA decimal.Decimal
	OwedB decimal.Decimal
}

// Net returns CalculateBalance over the inputs.
func (in BalanceInputs) Net() decimal.Decimal {
	return CalculateBalance(in.PaidA, in.PaidB, in.OwedA, in.OwedB)
}

// ExpenseForBalance is an expense reduced to what balance calculations need.
type ExpenseForBalance struct {
	PayerID string
	Total   decimal.Decimal
	Shares  []Share
}

// SettlementForBalance represents a settlement with the minimal information needed for balance calculations.
type SettlementForBalance struct {
	FromUserID string // Who paid (debtor settling up)
	ToUserID   string // Who received (creditor being paid)
	Amount     decimal.Decimal
}

// MemberBalance represents the balance information for one household member.
type MemberBalance struct {
	MemberID   string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal
	TotalOwed  decimal.Decimal
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// PairTotals aggregates what members a and b paid and owe across a ledger of
// expenses and settlements. A settlement counts as money paid by its sender
// and owed by its receiver.
func PairTotals(expenses []ExpenseForBalance, settlements []SettlementForBalance, a, b string) BalanceInputs {
	in := BalanceInputs{
		PaidA: decimal.Zero,
		PaidB: decimal.Zero,
		OwedA: decimal.Zero,
		OwedB: decimal.Zero,
	}

	for _, e := range expenses {
		switch e.PayerID {
		case a:
			in.PaidA = in.PaidA.Add(e.Total)
		case b:
			in.PaidB = in.PaidB.Add(e.Total)
		}
		for _, s := range e.Shares {
			switch s.Participant {
			case a:
				in.OwedA = in.OwedA.Add(s.Amount)
			case b:
				in.OwedB = in.OwedB.Add(s.Amount)
			}
		}
	}

	for _, s := range settlements {
		switch s.FromUserID {
		case a:
			in.PaidA = in.PaidA.Add(s.Amount)
		case b:
			in.PaidB = in.PaidB.Add(s.Amount)
		}
		switch s.ToUserID {
		case a:
			in.OwedA = in.OwedA.Add(s.Amount)
		case b:
			in.OwedB = in.OwedB.Add(s.Amount)
		}
	}

	return in
}

// CalculateGroupBalances computes balances across multiple expenses and settlements.
// It aggregates who paid what and who owes what, returning both individual
// member balances and a simplified list of debts.
//
// Algorithm:
// - For each expense: payer contributed +total, each participant owes their share
// - For each settlement: payer's balance improves, receiver's balance decreases
// - Aggregate: net_balance = total_paid - total_owed
// - Debts: greedy matching of the largest debtor with the largest creditor, in cents
func CalculateGroupBalances(expenses []ExpenseForBalance, settlements []SettlementForBalance) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	member := func(id string) *MemberBalance {
		if bal, ok := balances[id]; ok {
			return bal
		}
		bal := &MemberBalance{MemberID: id, TotalPaid: decimal.Zero, TotalOwed: decimal.Zero}
		balances[id] = bal
		return bal
	}

	for _, e := range expenses {
		// Skip expenses without payer (can't calculate balances)
		if e.PayerID == "" {
			continue
		}
		payer := member(e.PayerID)
		payer.TotalPaid = payer.TotalPaid.Add(e.Total)

		for _, s := range e.Shares {
			p := member(s.Participant)
			p.TotalOwed = p.TotalOwed.Add(s.Amount)
		}
	}

	for _, s := range settlements {
		from := member(s.FromUserID)
		to := member(s.ToUserID)
		from.TotalPaid = from.TotalPaid.Add(s.Amount)
		to.TotalOwed = to.TotalOwed.Add(s.Amount)
	}

	memberBalances := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		memberBalances = append(memberBalances, *bal)
	}
	sort.Slice(memberBalances, func(i, j int) bool {
		return memberBalances[i].MemberID < memberBalances[j].MemberID
	})

	return memberBalances, simplifyDebts(memberBalances)
}

type position struct {
	id    string
	cents int64
}

func simplifyDebts(balances []MemberBalance) []DebtEdge {
	var debtors, creditors []position
	for _, bal := range balances {
		cents := ToCents(bal.NetBalance)
		switch {
		case cents > 0:
			creditors = append(creditors, position{id: bal.MemberID, cents: cents})
		case cents < 0:
			debtors = append(debtors, position{id: bal.MemberID, cents: -cents})
		}
	}
	byLargest := func(ps []position) func(i, j int) bool {
		return func(i, j int) bool {
			if ps[i].cents != ps[j].cents {
				return ps[i].cents > ps[j].cents
			}
			return ps[i].id < ps[j].id
		}
	}
	sort.Slice(debtors, byLargest(debtors))
	sort.Slice(creditors, byLargest(creditors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].cents, creditors[j].cents)
		if amount > 0 {
			edges = append(edges, DebtEdge{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: FromCents(amount),
			})
		}

		debtors[i].cents -= amount
		creditors[j].cents -= amount
		if debtors[i].cents == 0 {
			i++
		}
		if creditors[j].cents == 0 {
			j++
		}
	}

	return edges
}
