package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateHousehold persists a new household and its initial members in a transaction.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, household *models.Household) error {
	if household.ID == "" {
		household.ID = uuid.New().String()
	}
	if household.CreatedAt == 0 {
		household.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO households (id, name, invite_code, auto_split, created_at) VALUES (?, ?, ?, ?, ?)",
		household.ID, household.Name, household.InviteCode, boolInt(household.AutoSplit), household.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("household invite code %s: %w", household.InviteCode, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert household: %w", err)
	}

	if err := insertMembers(ctx, tx, household.ID, household.Members, household.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetHousehold retrieves a household and its members.
func (s *SQLiteStore) GetHousehold(ctx context.Context, householdID string) (*models.Household, error) {
	return s.getHousehold(ctx, "id = ?", householdID)
}

// GetHouseholdByInviteCode retrieves the household an invite code belongs to.
func (s *SQLiteStore) GetHouseholdByInviteCode(ctx context.Context, code string) (*models.Household, error) {
	return s.getHousehold(ctx, "invite_code = ?", code)
}

func (s *SQLiteStore) getHousehold(ctx context.Context, where string, arg string) (*models.Household, error) {
	household := &models.Household{}
	var autoSplit int

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, invite_code, auto_split, created_at FROM households WHERE "+where, arg,
	).Scan(&household.ID, &household.Name, &household.InviteCode, &autoSplit, &household.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("household %s: %w", arg, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	household.AutoSplit = autoSplit != 0

	members, err := s.loadMembers(ctx, household.ID)
	if err != nil {
		return nil, err
	}
	household.Members = members

	return household, nil
}

// ListHouseholdsByMember returns the households userID belongs to, oldest first.
func (s *SQLiteStore) ListHouseholdsByMember(ctx context.Context, userID string) ([]*models.Household, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.name, h.invite_code, h.auto_split, h.created_at
		FROM households h
		JOIN household_members m ON m.household_id = h.id
		WHERE m.user_id = ?
		ORDER BY h.created_at, h.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}

	var households []*models.Household
	for rows.Next() {
		household := &models.Household{}
		var autoSplit int
		if err := rows.Scan(&household.ID, &household.Name, &household.InviteCode, &autoSplit, &household.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan household: %w", err)
		}
		household.AutoSplit = autoSplit != 0
		households = append(households, household)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating households: %w", err)
	}
	rows.Close()

	// Members are loaded after the cursor is closed; the pool holds one connection.
	for _, household := range households {
		members, err := s.loadMembers(ctx, household.ID)
		if err != nil {
			return nil, err
		}
		household.Members = members
	}

	return households, nil
}

// AddHouseholdMembers adds users to a household. Existing members are left as they are.
func (s *SQLiteStore) AddHouseholdMembers(ctx context.Context, householdID string, userIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMembers(ctx, tx, householdID, userIDs, time.Now().Unix()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertMembers(ctx context.Context, tx *sql.Tx, householdID string, userIDs []string, joinedAt int64) error {
	for _, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO household_members (household_id, user_id, joined_at) VALUES (?, ?, ?)",
			householdID, userID, joinedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert household member: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) loadMembers(ctx context.Context, householdID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM household_members WHERE household_id = ? ORDER BY joined_at, rowid",
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get household members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan household member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating household members: %w", err)
	}

	return members, nil
}
