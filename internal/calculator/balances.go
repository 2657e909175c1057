// Package calculator holds the pure settlement math: expense splits, balance
// aggregation, debt minimisation and plan assembly. Nothing here performs I/O.
package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// NoiseFloor is the reference-currency amount below which balances and
// transfers are treated as zero.
var NoiseFloor = decimal.New(1, -2)

// Normalizer converts an amount into the reference currency without rounding.
type Normalizer interface {
	Normalize(amount decimal.Decimal, code string) (decimal.Decimal, error)
}

// MemberBalance represents the balance information for one group member,
// in the reference currency.
type MemberBalance struct {
	MemberID string
	Paid     decimal.Decimal // Total paid across shared expenses
	Owed     decimal.Decimal // Total of this member's shares
	Net      decimal.Decimal // Paid - Owed. Positive = owed money, negative = owes money
}

// BalanceSheet is the aggregated state of a group.
type BalanceSheet struct {
	// Balances are in roster order, followed by any non-roster IDs in the
	// order they were first seen.
	Balances []MemberBalance

	// SharedExpenses counts the expenses that entered the calculation.
	SharedExpenses int

	// TotalReference is the sum of shared expense amounts, unrounded.
	TotalReference decimal.Decimal
}

// Get returns the balance for memberID.
func (b *BalanceSheet) Get(memberID string) (MemberBalance, bool) {
	for _, bal := range b.Balances {
		if bal.MemberID == memberID {
			return bal, true
		}
	}
	return MemberBalance{}, false
}

// Net returns member ID to net balance.
func (b *BalanceSheet) Net() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(b.Balances))
	for _, bal := range b.Balances {
		out[bal.MemberID] = bal.Net
	}
	return out
}

// Sum returns the sum of all net balances. It is zero up to the precision
// of the rates whenever every expense's splits add up to its amount.
func (b *BalanceSheet) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, bal := range b.Balances {
		sum = sum.Add(bal.Net)
	}
	return sum
}

// AggregateBalances computes each member's net balance across the shared
// expenses of a group.
//
// Algorithm:
//   - Every roster member starts at zero
//   - For each shared expense the payer is credited with the amount
//   - Each split member is debited their share, converted with the same
//     expense's currency
//   - Expenses with split type none are skipped
//
// Members referenced by an expense but missing from the roster are still
// counted; membership is validated when expenses are accepted, not here.
func AggregateBalances(conv Normalizer, roster []string, expenses []*models.Expense) (*BalanceSheet, error) {
	sheet := &BalanceSheet{TotalReference: decimal.Zero}
	index := make(map[string]int, len(roster))

	slot := func(memberID string) *MemberBalance {
		i, ok := index[memberID]
		if !ok {
			i = len(sheet.Balances)
			index[memberID] = i
			sheet.Balances = append(sheet.Balances, MemberBalance{
				MemberID: memberID,
				Paid:     decimal.Zero,
				Owed:     decimal.Zero,
			})
		}
		return &sheet.Balances[i]
	}

	for _, m := range roster {
		slot(m)
	}

	for _, exp := range expenses {
		if !exp.Shared() {
			continue
		}

		paid, err := conv.Normalize(exp.Amount, exp.Currency)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", exp.ID, err)
		}
		payer := slot(exp.PayerID)
		payer.Paid = payer.Paid.Add(paid)

		for _, split := range exp.Splits {
			owed, err := conv.Normalize(split.Amount, exp.Currency)
			if err != nil {
				return nil, fmt.Errorf("expense %s: %w", exp.ID, err)
			}
			member := slot(split.MemberID)
			member.Owed = member.Owed.Add(owed)
		}

		sheet.SharedExpenses++
		sheet.TotalReference = sheet.TotalReference.Add(paid)
	}

	for i := range sheet.Balances {
		bal := &sheet.Balances[i]
		bal.Net = bal.Paid.Sub(bal.Owed)
	}

	return sheet, nil
}
