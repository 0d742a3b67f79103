package api

import "github.com/shopspring/decimal"

// Split modes accepted by PreviewSplit, CreateExpense and UpdateExpense.
const (
	SplitModeEven   = "even"
	SplitModeCustom = "custom"
)

// ShareInput is a proposed amount for one participant in a custom split.
// Amounts are decimal strings ("12.50"); JSON numbers are accepted too.
type ShareInput struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Share is one participant's computed portion of an amount.
type Share struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
	IsPaid bool            `json:"is_paid,omitempty"`
}

type Expense struct {
	ID          string          `json:"id"`
	HouseholdID string          `json:"household_id,omitempty"`
	PayerID     string          `json:"payer_id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        int64           `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	SplitMode   string          `json:"split_mode"`
	Shares      []*Share        `json:"shares"`
	CreatedAt   int64           `json:"created_at"`
}

// PreviewSplitRequest asks for a split without storing anything.
// Even mode reads Participants; custom mode reads Shares.
type PreviewSplitRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	SplitMode    string          `json:"split_mode"`
	Participants []string        `json:"participants,omitempty"`
	Shares       []*ShareInput   `json:"shares,omitempty"`
}

type PreviewSplitResponse struct {
	Shares []*Share        `json:"shares"`
	Total  decimal.Decimal `json:"total"`
}

// ExpenseInput holds the fields shared by create and update.
// With no Participants and no Shares the payer owns the whole amount,
// unless the household splits automatically among all members.
type ExpenseInput struct {
	HouseholdID  string          `json:"household_id,omitempty"`
	PayerID      string          `json:"payer_id,omitempty"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount"`
	Date         int64           `json:"date,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	SplitMode    string          `json:"split_mode,omitempty"`
	Participants []string        `json:"participants,omitempty"`
	Shares       []*ShareInput   `json:"shares,omitempty"`
}

type CreateExpenseRequest struct {
	ExpenseInput
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ListExpensesRequest lists a household's expenses, or the caller's own
// when HouseholdID is empty.
type ListExpensesRequest struct {
	HouseholdID string `json:"household_id,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type UpdateExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
	ExpenseInput
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}
