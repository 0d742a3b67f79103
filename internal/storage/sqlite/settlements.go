package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	amountCents, err := calculator.CheckedCents(settlement.Amount)
	if err != nil {
		return fmt.Errorf("settlement amount: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, household_id, from_user_id, to_user_id, amount_cents, created_at, created_by, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.HouseholdID, settlement.FromUserID, settlement.ToUserID,
		amountCents, settlement.CreatedAt, settlement.CreatedBy, nullString(settlement.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// ListSettlementsByHousehold retrieves all settlements for a household, newest first.
func (s *SQLiteStore) ListSettlementsByHousehold(ctx context.Context, householdID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, from_user_id, to_user_id, amount_cents, created_at, created_by, note
		 FROM settlements WHERE household_id = ? ORDER BY created_at DESC, id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var (
			cents int64
			note  sql.NullString
		)

		if err := rows.Scan(&settlement.ID, &settlement.HouseholdID, &settlement.FromUserID, &settlement.ToUserID,
			&cents, &settlement.CreatedAt, &settlement.CreatedBy, &note); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		settlement.Amount = calculator.FromCents(cents)
		settlement.Note = note.String
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlements: %w", err)
	}

	return settlements, nil
}
