// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique constraint would be violated.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for splitledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	HouseholdStore
	ExpenseStore
	SettlementStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// HouseholdStore persists households and their members.
type HouseholdStore interface {
	// CreateHousehold persists a new household with its initial members.
	// The household.ID and CreatedAt fields will be populated by the store.
	CreateHousehold(ctx context.Context, household *models.Household) error

	GetHousehold(ctx context.Context, householdID string) (*models.Household, error)
	GetHouseholdByInviteCode(ctx context.Context, code string) (*models.Household, error)

	// ListHouseholdsByMember returns the households userID belongs to.
	ListHouseholdsByMember(ctx context.Context, userID string) ([]*models.Household, error)

	// AddHouseholdMembers adds users to a household, ignoring existing members.
	AddHouseholdMembers(ctx context.Context, householdID string, userIDs []string) error
}

// ExpenseStore persists expenses, their shares and categories.
type ExpenseStore interface {
	// CreateExpense persists an expense and its shares in one transaction.
	// The expense.ID and CreatedAt fields will be populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an expense and all of its shares.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByHousehold returns a household's expenses, newest first.
	ListExpensesByHousehold(ctx context.Context, householdID string) ([]*models.Expense, error)

	// ListExpensesByUser returns expenses the user paid for or shares in, newest first.
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)

	// EnsureCategory returns the user's category with the given name, creating it if needed.
	EnsureCategory(ctx context.Context, userID, name string) (*models.Category, error)

	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
}

// SettlementStore persists settlements between household members.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListSettlementsByHousehold(ctx context.Context, householdID string) ([]*models.Settlement, error)
}
