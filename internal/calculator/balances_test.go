package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBalance(t *testing.T) {
	tests := []struct {
		name                       string
		paidA, paidB, owedA, owedB string
		want                       string
	}{
		{
			// A: paid 10, owes 15 (net -5). B: paid 20, owes 10 (net +10).
			name:  "A owes B",
			paidA: "10", paidB: "20", owedA: "15", owedB: "10",
			want: "15",
		},
		{
			// A: net +20. B: net -20.
			name:  "B owes A",
			paidA: "30", paidB: "10", owedA: "10", owedB: "30",
			want: "-40",
		},
		{
			name:  "settled",
			paidA: "20", paidB: "20", owedA: "20", owedB: "20",
			want: "0",
		},
		{
			name:  "decimal amounts",
			paidA: "15.50", paidB: "12.25", owedA: "13.75", owedB: "14.00",
			want: "-3.50",
		},
		{
			name:  "negative inputs are not rejected",
			paidA: "-5", paidB: "0", owedA: "0", owedB: "0",
			want: "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBalance(amount(t, tt.paidA), amount(t, tt.paidB), amount(t, tt.owedA), amount(t, tt.owedB))
			assert.True(t, got.Equal(amount(t, tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCalculateBalance_Properties(t *testing.T) {
	values := []decimal.Decimal{
		decimal.Zero,
		FromCents(1),
		FromCents(1001),
		FromCents(2599),
		FromCents(-350),
		FromCents(123456),
	}

	for _, p := range values {
		for _, o := range values {
			require.True(t, CalculateBalance(p, p, o, o).IsZero(), "symmetric inputs %s/%s", p, o)
		}
	}

	for _, paidA := range values {
		for _, paidB := range values {
			for _, owedA := range values {
				for _, owedB := range values {
					ab := CalculateBalance(paidA, paidB, owedA, owedB)
					ba := CalculateBalance(paidB, paidA, owedB, owedA)
					require.True(t, ab.Equal(ba.Neg()), "antisymmetry: %s vs %s", ab, ba)
				}
			}
		}
	}
}

func TestPairTotals(t *testing.T) {
	expenses := []ExpenseForBalance{
		{PayerID: "alice", Total: amount(t, "30.00"), Shares: shares(t, "alice", "10.00", "bob", "10.00", "carol", "10.00")},
		{PayerID: "bob", Total: amount(t, "10.01"), Shares: shares(t, "alice", "3.33", "bob", "3.33", "carol", "3.35")},
		{PayerID: "carol", Total: amount(t, "5.00"), Shares: shares(t, "carol", "5.00")},
	}
	settlements := []SettlementForBalance{
		{FromUserID: "bob", ToUserID: "alice", Amount: amount(t, "2.00")},
	}

	in := PairTotals(expenses, settlements, "alice", "bob")
	assert.True(t, in.PaidA.Equal(amount(t, "30.00")), "PaidA %s", in.PaidA)
	assert.True(t, in.PaidB.Equal(amount(t, "12.01")), "PaidB %s", in.PaidB)
	assert.True(t, in.OwedA.Equal(amount(t, "15.33")), "OwedA %s", in.OwedA)
	assert.True(t, in.OwedB.Equal(amount(t, "13.33")), "OwedB %s", in.OwedB)

	// netA = 14.67, netB = -1.32
	assert.True(t, in.Net().Equal(amount(t, "-15.99")), "Net %s", in.Net())
}

func TestCalculateGroupBalances(t *testing.T) {
	expenses := []ExpenseForBalance{
		{PayerID: "alice", Total: amount(t, "30.00"), Shares: shares(t, "alice", "10.00", "bob", "10.00", "carol", "10.00")},
		{PayerID: "bob", Total: amount(t, "6.00"), Shares: shares(t, "alice", "3.00", "bob", "3.00")},
		{PayerID: "", Total: amount(t, "100.00"), Shares: shares(t, "alice", "100.00")},
	}
	settlements := []SettlementForBalance{
		{FromUserID: "carol", ToUserID: "alice", Amount: amount(t, "4.00")},
	}

	balances, debts := CalculateGroupBalances(expenses, settlements)

	require.Len(t, balances, 3)
	want := map[string]string{
		"alice": "13.00", // paid 30, owes 13, received 4
		"bob":   "-7.00", // paid 6, owes 13
		"carol": "-6.00", // owes 10, settled 4
	}
	total := decimal.Zero
	for i, bal := range balances {
		if i > 0 {
			assert.Less(t, balances[i-1].MemberID, bal.MemberID, "balances are sorted by member")
		}
		assert.True(t, bal.NetBalance.Equal(amount(t, want[bal.MemberID])), "%s net %s", bal.MemberID, bal.NetBalance)
		total = total.Add(bal.NetBalance)
	}
	assert.True(t, total.IsZero(), "net balances must add up to zero, got %s", total)

	require.Len(t, debts, 2)
	assert.Equal(t, "bob", debts[0].From)
	assert.Equal(t, "alice", debts[0].To)
	assert.True(t, debts[0].Amount.Equal(amount(t, "7.00")))
	assert.Equal(t, "carol", debts[1].From)
	assert.Equal(t, "alice", debts[1].To)
	assert.True(t, debts[1].Amount.Equal(amount(t, "6.00")))
}

func TestCalculateGroupBalances_Settled(t *testing.T) {
	expenses := []ExpenseForBalance{
		{PayerID: "alice", Total: amount(t, "20.00"), Shares: shares(t, "alice", "10.00", "bob", "10.00")},
	}
	settlements := []SettlementForBalance{
		{FromUserID: "bob", ToUserID: "alice", Amount: amount(t, "10.00")},
	}

	balances, debts := CalculateGroupBalances(expenses, settlements)
	require.Len(t, balances, 2)
	for _, bal := range balances {
		assert.True(t, bal.NetBalance.IsZero(), "%s net %s", bal.MemberID, bal.NetBalance)
	}
	assert.Empty(t, debts)
}

func TestCalculateGroupBalances_Empty(t *testing.T) {
	balances, debts := CalculateGroupBalances(nil, nil)
	assert.Empty(t, balances)
	assert.Empty(t, debts)
}
