package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

const settlementColumns = `id, group_id, from_id, to_id, amount, currency, amount_reference, status,
	verified_by, verified_at, completed_at, notes, created_by, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	err := row.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromID, &settlement.ToID,
		&settlement.Amount, &settlement.Currency, &settlement.AmountReference, &status,
		&settlement.VerifiedBy, &settlement.VerifiedAt, &settlement.CompletedAt,
		&settlement.Notes, &settlement.CreatedBy, &settlement.CreatedAt)
	if err != nil {
		return nil, err
	}
	settlement.Status = models.SettlementStatus(status)
	return settlement, nil
}

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Status == "" {
		settlement.Status = models.StatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromID, settlement.ToID,
		settlement.Amount, settlement.Currency, settlement.AmountReference, string(settlement.Status),
		settlement.VerifiedBy, settlement.VerifiedAt, settlement.CompletedAt,
		settlement.Notes, settlement.CreatedBy, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID within a group.
func (s *SQLiteStore) GetSettlement(ctx context.Context, groupID, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = ? AND group_id = ?`,
		settlementID, groupID,
	)
	settlement, err := scanSettlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE group_id = ? ORDER BY created_at DESC, rowid DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	settlements := []*models.Settlement{}
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// UpdateSettlement writes the lifecycle fields of a settlement if its stored
// status still equals expected.
func (s *SQLiteStore) UpdateSettlement(ctx context.Context, settlement *models.Settlement, expected models.SettlementStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE settlements
		 SET status = ?, verified_by = ?, verified_at = ?, completed_at = ?, notes = ?
		 WHERE id = ? AND group_id = ? AND status = ?`,
		string(settlement.Status), settlement.VerifiedBy, settlement.VerifiedAt, settlement.CompletedAt,
		settlement.Notes, settlement.ID, settlement.GroupID, string(expected),
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("settlement %s: %w", settlement.ID, storage.ErrConflict)
	}
	return nil
}
