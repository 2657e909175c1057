// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

// ErrConflict is returned by UpdateSettlement when the stored status no
// longer matches the expected one.
var ErrConflict = errors.New("settlement was modified concurrently")

// GroupStore persists groups and their rosters.
type GroupStore interface {
	// CreateGroup persists a new group with its initial members.
	// The group.ID and CreatedAt fields are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its roster in join order.
	// Returns models.ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// AddGroupMembers appends members to the roster. Existing members are ignored.
	AddGroupMembers(ctx context.Context, groupID string, memberIDs []string) error
}

// MemberStore persists member profiles.
type MemberStore interface {
	// UpsertMember inserts a member or updates its name and email.
	// PreferredCurrency is only written on insert.
	UpsertMember(ctx context.Context, member *models.Member) error

	// GetMembersByIDs returns member ID to Member. Unknown IDs are omitted.
	GetMembersByIDs(ctx context.Context, ids []string) (map[string]*models.Member, error)

	// SetPreferredCurrency updates a member's display currency.
	// Returns models.ErrNotFound if the member does not exist.
	SetPreferredCurrency(ctx context.Context, memberID, code string) error
}

// ExpenseStore persists expenses and their splits.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns every expense of a group, whatever its
	// split type, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
}

// SettlementStore persists settlement records.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement that belongs to groupID.
	// Returns models.ErrNotFound if it does not exist or belongs to another group.
	GetSettlement(ctx context.Context, groupID, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// UpdateSettlement writes the mutable fields of settlement, but only if
	// the stored status is still expected. Returns ErrConflict otherwise.
	UpdateSettlement(ctx context.Context, settlement *models.Settlement, expected models.SettlementStatus) error
}

// Store defines the full set of storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the service layer.
type Store interface {
	GroupStore
	MemberStore
	ExpenseStore
	SettlementStore

	// Close releases any resources held by the store.
	Close() error
}
