package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ShareInput is one member's raw split value: a percentage for percentage
// splits, an owed amount for custom splits.
type ShareInput struct {
	MemberID string
	Value    decimal.Decimal
}

// EqualSplit divides total equally among members, rounded to cents.
// Rounding leftovers go to the last member, so 100 over three members is
// 33.33 / 33.33 / 33.34.
func EqualSplit(total decimal.Decimal, members []string) ([]models.Split, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: must have at least one member", models.ErrInvalidArgument)
	}
	if total.IsNegative() {
		return nil, fmt.Errorf("%w: total cannot be negative", models.ErrInvalidArgument)
	}

	per := total.Div(decimal.NewFromInt(int64(len(members)))).RoundDown(2)
	splits := make([]models.Split, len(members))
	assigned := decimal.Zero
	for i, m := range members {
		splits[i] = models.Split{MemberID: m, Amount: per}
		assigned = assigned.Add(per)
	}
	last := &splits[len(splits)-1]
	last.Amount = last.Amount.Add(total.Sub(assigned))
	return splits, nil
}

// PercentageSplit turns per-member percentages into owed amounts.
// Percentages must sum to 100. Each member gets the difference between the
// rounded running totals, so the amounts always add up to total and none is
// negative.
func PercentageSplit(total decimal.Decimal, shares []ShareInput) ([]models.Split, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: must have at least one member", models.ErrInvalidArgument)
	}

	sum := decimal.Zero
	for _, s := range shares {
		if s.Value.IsNegative() {
			return nil, fmt.Errorf("%w: percentage for %s is negative", models.ErrInvalidArgument, s.MemberID)
		}
		sum = sum.Add(s.Value)
	}
	if !sum.Equal(hundred) {
		return nil, fmt.Errorf("%w: percentages sum to %s, want 100", models.ErrInvalidArgument, sum)
	}

	splits := make([]models.Split, len(shares))
	cumulative, assigned := decimal.Zero, decimal.Zero
	for i, s := range shares {
		cumulative = cumulative.Add(s.Value)
		upTo := total.Mul(cumulative).Div(hundred).Round(2)
		if i == len(shares)-1 {
			upTo = total
		}
		amount := upTo.Sub(assigned)
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: total %s cannot be split by percentage", models.ErrInvalidArgument, total)
		}
		splits[i] = models.Split{MemberID: s.MemberID, Amount: amount}
		assigned = upTo
	}
	return splits, nil
}

// CustomSplit uses the given owed amounts as-is. They must sum to exactly
// total.
func CustomSplit(total decimal.Decimal, shares []ShareInput) ([]models.Split, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: must have at least one member", models.ErrInvalidArgument)
	}

	sum := decimal.Zero
	splits := make([]models.Split, len(shares))
	for i, s := range shares {
		if s.Value.IsNegative() {
			return nil, fmt.Errorf("%w: amount for %s is negative", models.ErrInvalidArgument, s.MemberID)
		}
		sum = sum.Add(s.Value)
		splits[i] = models.Split{MemberID: s.MemberID, Amount: s.Value}
	}
	if !sum.Equal(total) {
		return nil, fmt.Errorf("%w: split amounts sum to %s, want %s", models.ErrInvalidArgument, sum, total)
	}
	return splits, nil
}

// BuildSplits derives split details for an expense of the given type.
// Equal splits divide over the share member IDs when any are given, otherwise
// over members. None returns no splits.
func BuildSplits(splitType models.SplitType, total decimal.Decimal, members []string, shares []ShareInput) ([]models.Split, error) {
	switch splitType {
	case models.SplitNone:
		return nil, nil
	case models.SplitEqual:
		if len(shares) > 0 {
			ids := make([]string, len(shares))
			for i, s := range shares {
				ids[i] = s.MemberID
			}
			members = ids
		}
		return EqualSplit(total, members)
	case models.SplitPercentage:
		return PercentageSplit(total, shares)
	case models.SplitCustom:
		return CustomSplit(total, shares)
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", models.ErrInvalidArgument, splitType)
	}
}
