package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = "id, household_id, payer_id, description, category, amount_cents, date, notes, split_mode, created_at"

// CreateExpense persists a new expense and its shares in a transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	amountCents, err := calculator.CheckedCents(expense.Amount)
	if err != nil {
		return fmt.Errorf("expense amount: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID,
		nullString(expense.HouseholdID),
		expense.PayerID,
		expense.Description,
		expense.Category,
		amountCents,
		expense.Date,
		nullString(expense.Notes),
		string(expense.SplitMode),
		expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense with its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.attachShares(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpense replaces the expense row and all of its shares.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	amountCents, err := calculator.CheckedCents(expense.Amount)
	if err != nil {
		return fmt.Errorf("expense amount: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE expenses
		SET household_id = ?, payer_id = ?, description = ?, category = ?,
		    amount_cents = ?, date = ?, notes = ?, split_mode = ?
		WHERE id = ?
	`,
		nullString(expense.HouseholdID),
		expense.PayerID,
		expense.Description,
		expense.Category,
		amountCents,
		expense.Date,
		nullString(expense.Notes),
		string(expense.SplitMode),
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete expense shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense. Shares go with it through ON DELETE CASCADE.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListExpensesByHousehold returns a household's expenses, newest first.
func (s *SQLiteStore) ListExpensesByHousehold(ctx context.Context, householdID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE household_id = ? ORDER BY date DESC, created_at DESC, id",
		householdID,
	)
}

// ListExpensesByUser returns expenses the user paid for or holds a share in, newest first.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE payer_id = ?
		   OR id IN (SELECT expense_id FROM expense_shares WHERE user_id = ?)
		ORDER BY date DESC, created_at DESC, id
	`, userID, userID)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	rows.Close()

	if err := s.attachShares(ctx, expenses); err != nil {
		return nil, err
	}

	return expenses, nil
}

// attachShares loads the shares of all expenses with a single query.
func (s *SQLiteStore) attachShares(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, user_id, amount_cents, is_paid FROM expense_shares WHERE expense_id IN ("+
			placeholders(len(ids))+") ORDER BY expense_id, position",
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			expenseID string
			share     models.Share
			cents     int64
			isPaid    int
		)
		if err := rows.Scan(&expenseID, &share.UserID, &cents, &isPaid); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		share.Amount = calculator.FromCents(cents)
		share.IsPaid = isPaid != 0
		if e, ok := byID[expenseID]; ok {
			e.Shares = append(e.Shares, share)
		}
	}

	return rows.Err()
}

func insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, share := range expense.Shares {
		cents, err := calculator.CheckedCents(share.Amount)
		if err != nil {
			return fmt.Errorf("share for user %s: %w", share.UserID, err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, user_id, position, amount_cents, is_paid) VALUES (?, ?, ?, ?, ?)",
			expense.ID, share.UserID, i, cents, boolInt(share.IsPaid),
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("share for user %s: %w", share.UserID, storage.ErrAlreadyExists)
		}
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}
	return nil
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var (
		householdID sql.NullString
		notes       sql.NullString
		cents       int64
		splitMode   string
	)
	err := row.Scan(
		&expense.ID,
		&householdID,
		&expense.PayerID,
		&expense.Description,
		&expense.Category,
		&cents,
		&expense.Date,
		&notes,
		&splitMode,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.HouseholdID = householdID.String
	expense.Notes = notes.String
	expense.Amount = calculator.FromCents(cents)
	expense.SplitMode = models.SplitMode(splitMode)
	return expense, nil
}

// EnsureCategory returns the user's category called name, creating it on first use.
func (s *SQLiteStore) EnsureCategory(ctx context.Context, userID, name string) (*models.Category, error) {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO categories (id, user_id, name) VALUES (?, ?, ?)",
		uuid.New().String(), userID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	category := &models.Category{}
	err = s.db.QueryRowContext(ctx,
		"SELECT id, user_id, name FROM categories WHERE user_id = ? AND name = ?", userID, name,
	).Scan(&category.ID, &category.UserID, &category.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// ListCategories returns the user's categories sorted by name.
func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name FROM categories WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
