package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitType describes how an expense is shared.
type SplitType string

const (
	// SplitNone marks personal spending that never enters group settlement.
	SplitNone       SplitType = "none"
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitCustom     SplitType = "custom"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitNone, SplitEqual, SplitPercentage, SplitCustom:
		return true
	}
	return false
}

// Expense is an amount paid by one member, optionally shared with others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group the expense belongs to.
	GroupID string

	// Description is a free-text label (e.g., "Dinner").
	Description string

	// Amount is the total paid, in Currency.
	Amount decimal.Decimal

	// Currency is the ISO code Amount and every split amount are expressed in.
	Currency string

	// PayerID is the member who paid.
	PayerID string

	// SplitType describes how Splits were derived.
	SplitType SplitType

	// Splits holds the owed amount per member, in Currency.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is one member's owed share of an expense.
type Split struct {
	MemberID string
	Amount   decimal.Decimal
}

// Shared reports whether the expense takes part in group settlement.
func (e *Expense) Shared() bool {
	return e.SplitType != SplitNone
}

// Validate checks the expense invariants.
func (e *Expense) Validate() error {
	if !e.SplitType.Valid() {
		return fmt.Errorf("%w: unknown split type %q", ErrInvalidArgument, e.SplitType)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: expense amount must be positive", ErrInvalidArgument)
	}
	if e.PayerID == "" {
		return fmt.Errorf("%w: payer is required", ErrInvalidArgument)
	}
	if e.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrInvalidArgument)
	}
	if !e.Shared() {
		return nil
	}
	if len(e.Splits) == 0 {
		return fmt.Errorf("%w: %s expense needs split details", ErrInvalidArgument, e.SplitType)
	}
	seen := make(map[string]bool, len(e.Splits))
	for _, s := range e.Splits {
		if s.MemberID == "" {
			return fmt.Errorf("%w: split member is required", ErrInvalidArgument)
		}
		if seen[s.MemberID] {
			return fmt.Errorf("%w: %s appears more than once in splits", ErrInvalidArgument, s.MemberID)
		}
		seen[s.MemberID] = true
		if s.Amount.IsNegative() {
			return fmt.Errorf("%w: split amount for %s is negative", ErrInvalidArgument, s.MemberID)
		}
	}
	return nil
}
