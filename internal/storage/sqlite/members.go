package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/settleup/internal/models"
)

// UpsertMember inserts a member, or refreshes the name and email of an
// existing one. Empty values never overwrite stored ones.
func (s *SQLiteStore) UpsertMember(ctx context.Context, member *models.Member) error {
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO members (id, name, email, preferred_currency, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = CASE WHEN excluded.name != '' THEN excluded.name ELSE members.name END,
			email = CASE WHEN excluded.email != '' THEN excluded.email ELSE members.email END
	`

	_, err := s.db.ExecContext(ctx, query,
		member.ID,
		member.Name,
		member.Email,
		member.PreferredCurrency,
		member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}

	return nil
}

// GetMembersByIDs retrieves multiple members by their IDs.
// Returns a map of member ID to Member object.
// Members that don't exist are omitted from the result.
func (s *SQLiteStore) GetMembersByIDs(ctx context.Context, ids []string) (map[string]*models.Member, error) {
	members := make(map[string]*models.Member)
	if len(ids) == 0 {
		return members, nil
	}

	query := `
		SELECT id, name, email, preferred_currency, created_at
		FROM members
		WHERE id IN (` + placeholders(len(ids)) + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get members by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		member := &models.Member{}
		if err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.Email,
			&member.PreferredCurrency,
			&member.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members[member.ID] = member
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// SetPreferredCurrency updates the display currency of a member.
func (s *SQLiteStore) SetPreferredCurrency(ctx context.Context, memberID, code string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE members SET preferred_currency = ? WHERE id = ?",
		code, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to set preferred currency: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member %s: %w", memberID, models.ErrNotFound)
	}
	return nil
}
