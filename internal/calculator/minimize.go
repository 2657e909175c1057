package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer is a payment from a debtor to a creditor, in the reference currency.
type Transfer struct {
	From   string // Member who pays
	To     string // Member who is paid
	Amount decimal.Decimal
}

type party struct {
	memberID  string
	remaining decimal.Decimal // always positive
}

// MinimizeTransfers computes payments that bring every balance to zero using
// greedy matching: the largest creditor is paid by the largest debtor until
// one of them is settled, then the walk moves on.
//
// Balances within the noise floor are ignored. Sorting is stable, so equal
// balances keep the order they were given in (roster order for a
// BalanceSheet). The result has at most (non-zero balances - 1) transfers,
// each rounded to cents.
func MinimizeTransfers(balances []MemberBalance) []Transfer {
	var creditors, debtors []party
	for _, bal := range balances {
		switch {
		case bal.Net.GreaterThan(NoiseFloor):
			creditors = append(creditors, party{bal.MemberID, bal.Net})
		case bal.Net.LessThan(NoiseFloor.Neg()):
			debtors = append(debtors, party{bal.MemberID, bal.Net.Neg()})
		}
	}

	sort.SliceStable(creditors, func(a, b int) bool {
		return creditors[a].remaining.GreaterThan(creditors[b].remaining)
	})
	sort.SliceStable(debtors, func(a, b int) bool {
		return debtors[a].remaining.GreaterThan(debtors[b].remaining)
	})

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := decimal.Min(creditor.remaining, debtor.remaining)
		if amount.GreaterThan(NoiseFloor) {
			transfers = append(transfers, Transfer{
				From:   debtor.memberID,
				To:     creditor.memberID,
				Amount: amount.Round(2),
			})
		}

		creditor.remaining = creditor.remaining.Sub(amount)
		debtor.remaining = debtor.remaining.Sub(amount)

		if creditor.remaining.LessThan(NoiseFloor) {
			i++
		}
		if debtor.remaining.LessThan(NoiseFloor) {
			j++
		}
	}

	return transfers
}
