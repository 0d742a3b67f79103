package models

import "github.com/shopspring/decimal"

// SplitMode tells how an expense was divided among its participants.
type SplitMode string

const (
	SplitEven   SplitMode = "even"
	SplitCustom SplitMode = "custom"
)

// Expense represents an amount paid by one user and shared with others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// HouseholdID is the household the expense belongs to. Empty for personal expenses.
	HouseholdID string

	// PayerID is the user who paid the full amount.
	PayerID string

	// Description is the human-readable name for the expense.
	Description string

	// Category is the category name, resolved per payer.
	Category string

	// Amount is the total paid, at cent precision.
	Amount decimal.Decimal

	// Date is the Unix timestamp of the day the expense happened.
	Date int64

	// Notes is optional free text.
	Notes string

	// SplitMode records how Shares were computed.
	SplitMode SplitMode

	// Shares are the per-user portions of Amount.
	Shares []Share

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Share represents one user's portion of an expense.
type Share struct {
	UserID string
	Amount decimal.Decimal

	// IsPaid marks shares that need no settling, such as the payer's own.
	IsPaid bool
}

// Involves reports whether userID paid for or shares in the expense.
func (e *Expense) Involves(userID string) bool {
	if e.PayerID == userID {
		return true
	}
	for _, s := range e.Shares {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// Participants returns the user IDs holding a share, in share order.
func (e *Expense) Participants() []string {
	ids := make([]string, len(e.Shares))
	for i, s := range e.Shares {
		ids[i] = s.UserID
	}
	return ids
}

// Category is a per-user expense category.
type Category struct {
	ID     string
	UserID string
	Name   string
}
