package calculator

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Balance statuses as shown to members.
const (
	StatusOwed = "owed" // the group owes this member
	StatusOwes = "owes" // this member owes the group
)

// Converter is what plan assembly needs from the currency service.
type Converter interface {
	Normalizer
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
	Reference() string
	Symbol(code string) string
}

// MemberRef identifies a member in plan output.
type MemberRef struct {
	ID   string
	Name string
}

// PlanBalance is one member's balance in the plan.
type PlanBalance struct {
	User             MemberRef
	BalanceReference decimal.Decimal // signed, reference currency
	Balance          decimal.Decimal // absolute, in Currency
	Currency         string
	Status           string
}

// PlanSide is one side of a transfer, in that member's preferred currency.
type PlanSide struct {
	User     MemberRef
	Amount   decimal.Decimal
	Currency string
}

// PlanTransfer is one suggested payment.
type PlanTransfer struct {
	From            PlanSide
	To              PlanSide
	AmountReference decimal.Decimal
	Description     string
}

// Plan is the externally visible settlement plan of a group.
type Plan struct {
	GroupID              string
	GroupName            string
	TotalExpenses        int
	TotalAmountReference decimal.Decimal
	ReferenceCurrency    string
	Balances             map[string]PlanBalance
	Settlements          []PlanTransfer
	TransactionCount     int
}

// PlanInput gathers everything AssemblePlan needs.
type PlanInput struct {
	GroupID   string
	GroupName string
	Sheet     *BalanceSheet
	Transfers []Transfer
	Members   map[string]*models.Member
}

// AssemblePlan re-expresses balances and transfers in each member's preferred
// currency.
//
// Balances within the noise floor are omitted. A transfer that references a
// member missing from in.Members is dropped and logged rather than failing
// the whole plan.
func AssemblePlan(conv Converter, in PlanInput) (*Plan, error) {
	ref := conv.Reference()
	plan := &Plan{
		GroupID:              in.GroupID,
		GroupName:            in.GroupName,
		TotalExpenses:        in.Sheet.SharedExpenses,
		TotalAmountReference: in.Sheet.TotalReference.Round(2),
		ReferenceCurrency:    ref,
		Balances:             make(map[string]PlanBalance),
		Settlements:          []PlanTransfer{},
	}

	for _, bal := range in.Sheet.Balances {
		if bal.Net.Abs().LessThan(NoiseFloor) {
			continue
		}

		user, code := MemberRef{ID: bal.MemberID, Name: bal.MemberID}, ref
		if m, ok := in.Members[bal.MemberID]; ok {
			user.Name = m.DisplayName()
			code = preferredCurrency(m, ref)
		}

		amount, err := conv.Convert(bal.Net.Abs(), ref, code)
		if err != nil {
			return nil, fmt.Errorf("balance for %s: %w", bal.MemberID, err)
		}

		status := StatusOwed
		if bal.Net.IsNegative() {
			status = StatusOwes
		}

		plan.Balances[bal.MemberID] = PlanBalance{
			User:             user,
			BalanceReference: bal.Net.Round(2),
			Balance:          amount,
			Currency:         code,
			Status:           status,
		}
	}

	for _, t := range in.Transfers {
		from, okFrom := in.Members[t.From]
		to, okTo := in.Members[t.To]
		if !okFrom || !okTo {
			slog.Warn("Dropping transfer with unknown member",
				"group_id", in.GroupID,
				"from", t.From,
				"to", t.To,
				"amount", t.Amount.String(),
			)
			continue
		}

		fromCode := preferredCurrency(from, ref)
		toCode := preferredCurrency(to, ref)

		fromAmount, err := conv.Convert(t.Amount, ref, fromCode)
		if err != nil {
			return nil, fmt.Errorf("transfer from %s: %w", t.From, err)
		}
		toAmount, err := conv.Convert(t.Amount, ref, toCode)
		if err != nil {
			return nil, fmt.Errorf("transfer to %s: %w", t.To, err)
		}

		plan.Settlements = append(plan.Settlements, PlanTransfer{
			From: PlanSide{
				User:     MemberRef{ID: t.From, Name: from.DisplayName()},
				Amount:   fromAmount,
				Currency: fromCode,
			},
			To: PlanSide{
				User:     MemberRef{ID: t.To, Name: to.DisplayName()},
				Amount:   toAmount,
				Currency: toCode,
			},
			AmountReference: t.Amount.Round(2),
			Description: fmt.Sprintf("%s pays %s %s%s",
				from.DisplayName(), to.DisplayName(), conv.Symbol(fromCode), fromAmount.StringFixed(2)),
		})
	}

	plan.TransactionCount = len(plan.Settlements)
	return plan, nil
}

func preferredCurrency(m *models.Member, reference string) string {
	if m.PreferredCurrency == "" {
		return reference
	}
	return m.PreferredCurrency
}
