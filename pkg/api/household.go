package api

import "github.com/shopspring/decimal"

type Member struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type Household struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	Members    []*Member `json:"members"`
	AutoSplit  bool      `json:"auto_split"`
	CreatedAt  int64     `json:"created_at"`
}

type CreateHouseholdRequest struct {
	Name      string `json:"name"`
	AutoSplit bool   `json:"auto_split"`
}

type CreateHouseholdResponse struct {
	Household *Household `json:"household"`
}

type JoinHouseholdRequest struct {
	InviteCode string `json:"invite_code"`
}

type JoinHouseholdResponse struct {
	Household *Household `json:"household"`
}

type GetHouseholdRequest struct {
	HouseholdID string `json:"household_id"`
}

type GetHouseholdResponse struct {
	Household *Household `json:"household"`
}

type ListHouseholdsRequest struct{}

type ListHouseholdsResponse struct {
	Households []*Household `json:"households"`
}

type GetPairBalanceRequest struct {
	HouseholdID string `json:"household_id"`
	UserA       string `json:"user_a"`
	UserB       string `json:"user_b"`
}

// GetPairBalanceResponse carries the signed balance between two members and
// the totals it was computed from. Positive means A owes B; negative means B
// owes A; zero means settled.
type GetPairBalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
	PaidA   decimal.Decimal `json:"paid_a"`
	PaidB   decimal.Decimal `json:"paid_b"`
	OwedA   decimal.Decimal `json:"owed_a"`
	OwedB   decimal.Decimal `json:"owed_b"`
}

type MemberBalance struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name"`
	NetBalance  decimal.Decimal `json:"net_balance"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalOwed   decimal.Decimal `json:"total_owed"`
}

// Debt is one payment that settles part of a household's balances.
type Debt struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type GetHouseholdBalancesRequest struct {
	HouseholdID string `json:"household_id"`
}

type GetHouseholdBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
	Debts    []*Debt          `json:"debts"`
}

type Settlement struct {
	ID          string          `json:"id"`
	HouseholdID string          `json:"household_id"`
	FromUserID  string          `json:"from_user_id"`
	ToUserID    string          `json:"to_user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   int64           `json:"created_at"`
}

type RecordSettlementRequest struct {
	HouseholdID string          `json:"household_id"`
	FromUserID  string          `json:"from_user_id"`
	ToUserID    string          `json:"to_user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	HouseholdID string `json:"household_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}
