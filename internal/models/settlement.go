package models

import "github.com/shopspring/decimal"

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	StatusPending   SettlementStatus = "pending"
	StatusVerified  SettlementStatus = "verified"
	StatusCompleted SettlementStatus = "completed"
)

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromID is the member who pays (debtor settling up).
	FromID string

	// ToID is the member who receives the payment (creditor being paid).
	ToID string

	// Amount is the payment amount as recorded, in Currency.
	Amount decimal.Decimal

	// Currency is the ISO code of Amount.
	Currency string

	// AmountReference is Amount in the reference currency at creation time.
	AmountReference decimal.Decimal

	// Status is the current lifecycle state.
	Status SettlementStatus

	// VerifiedBy is the party that confirmed the payment happened.
	VerifiedBy string

	// VerifiedAt is the Unix timestamp of verification, 0 if unverified.
	VerifiedAt int64

	// CompletedAt is the Unix timestamp of completion, 0 if not completed.
	CompletedAt int64

	// Notes is an optional free-text description.
	Notes string

	// CreatedBy is the member who recorded this settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}

// IsParty reports whether memberID is the payer or the receiver.
func (s *Settlement) IsParty(memberID string) bool {
	return memberID == s.FromID || memberID == s.ToID
}
