package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(user *models.User) *api.User {
	return &api.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

func toAPIExpense(expense *models.Expense) *api.Expense {
	shares := make([]*api.Share, len(expense.Shares))
	for i, s := range expense.Shares {
		shares[i] = &api.Share{UserID: s.UserID, Amount: s.Amount, IsPaid: s.IsPaid}
	}
	return &api.Expense{
		ID:          expense.ID,
		HouseholdID: expense.HouseholdID,
		PayerID:     expense.PayerID,
		Description: expense.Description,
		Category:    expense.Category,
		Amount:      expense.Amount,
		Date:        expense.Date,
		Notes:       expense.Notes,
		SplitMode:   string(expense.SplitMode),
		Shares:      shares,
		CreatedAt:   expense.CreatedAt,
	}
}

func toAPISettlement(settlement *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:          settlement.ID,
		HouseholdID: settlement.HouseholdID,
		FromUserID:  settlement.FromUserID,
		ToUserID:    settlement.ToUserID,
		Amount:      settlement.Amount,
		Note:        settlement.Note,
		CreatedBy:   settlement.CreatedBy,
		CreatedAt:   settlement.CreatedAt,
	}
}

func toAPIShares(shares []calculator.Share) []*api.Share {
	out := make([]*api.Share, len(shares))
	for i, s := range shares {
		out[i] = &api.Share{UserID: s.Participant, Amount: s.Amount}
	}
	return out
}

// ledgerInputs converts stored records into the calculator's balance inputs.
func ledgerInputs(expenses []*models.Expense, settlements []*models.Settlement) ([]calculator.ExpenseForBalance, []calculator.SettlementForBalance) {
	calcExpenses := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Shares))
		for j, s := range e.Shares {
			shares[j] = calculator.Share{Participant: s.UserID, Amount: s.Amount}
		}
		calcExpenses[i] = calculator.ExpenseForBalance{
			PayerID: e.PayerID,
			Total:   e.Amount,
			Shares:  shares,
		}
	}

	calcSettlements := make([]calculator.SettlementForBalance, len(settlements))
	for i, s := range settlements {
		calcSettlements[i] = calculator.SettlementForBalance{
			FromUserID: s.FromUserID,
			ToUserID:   s.ToUserID,
			Amount:     s.Amount,
		}
	}

	return calcExpenses, calcSettlements
}
