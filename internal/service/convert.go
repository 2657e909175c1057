package service

import (
	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/pkg/api"
)

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:              s.ID,
		GroupID:         s.GroupID,
		From:            s.FromID,
		To:              s.ToID,
		Amount:          s.Amount,
		Currency:        s.Currency,
		AmountReference: s.AmountReference,
		Status:          string(s.Status),
		VerifiedBy:      s.VerifiedBy,
		VerifiedAt:      s.VerifiedAt,
		CompletedAt:     s.CompletedAt,
		Notes:           s.Notes,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
	}
}

func toAPIPlan(p *calculator.Plan) *api.SettlementPlan {
	out := &api.SettlementPlan{
		GroupID:              p.GroupID,
		GroupName:            p.GroupName,
		TotalExpenses:        p.TotalExpenses,
		TotalAmountReference: p.TotalAmountReference,
		ReferenceCurrency:    p.ReferenceCurrency,
		Balances:             make(map[string]*api.PlanBalance, len(p.Balances)),
		Settlements:          make([]*api.PlanTransfer, 0, len(p.Settlements)),
		TransactionCount:     p.TransactionCount,
	}
	for id, b := range p.Balances {
		out.Balances[id] = &api.PlanBalance{
			User:             api.UserRef{ID: b.User.ID, Name: b.User.Name},
			BalanceReference: b.BalanceReference,
			Balance:          b.Balance,
			Currency:         b.Currency,
			Status:           b.Status,
		}
	}
	for _, t := range p.Settlements {
		out.Settlements = append(out.Settlements, &api.PlanTransfer{
			From:            toAPISide(t.From),
			To:              toAPISide(t.To),
			AmountReference: t.AmountReference,
			Description:     t.Description,
		})
	}
	return out
}

func toAPISide(s calculator.PlanSide) api.PlanSide {
	return api.PlanSide{
		User:     api.UserRef{ID: s.User.ID, Name: s.User.Name},
		Amount:   s.Amount,
		Currency: s.Currency,
	}
}

func toAPICurrency(r currency.Rate) *api.Currency {
	return &api.Currency{
		Code:            r.Code,
		Name:            r.DisplayName,
		Symbol:          r.Symbol,
		RateToReference: r.RateToReference,
	}
}

func toAPIMember(m *models.Member) *api.Member {
	return &api.Member{
		ID:                m.ID,
		Name:              m.Name,
		Email:             m.Email,
		PreferredCurrency: m.PreferredCurrency,
	}
}

// toAPIGroup lists members in roster order; members without a profile are
// returned by ID only.
func toAPIGroup(g *models.Group, profiles map[string]*models.Member) *api.Group {
	out := &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		CreatorID: g.CreatorID,
		Members:   make([]*api.Member, 0, len(g.Members)),
		CreatedAt: g.CreatedAt,
	}
	for _, id := range g.Members {
		if m, ok := profiles[id]; ok {
			out.Members = append(out.Members, toAPIMember(m))
		} else {
			out.Members = append(out.Members, &api.Member{ID: id})
		}
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	out := &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		PayerID:     e.PayerID,
		SplitType:   string(e.SplitType),
		Splits:      make([]*api.Split, 0, len(e.Splits)),
		CreatedAt:   e.CreatedAt,
	}
	for _, s := range e.Splits {
		out.Splits = append(out.Splits, &api.Split{MemberID: s.MemberID, Amount: s.Amount})
	}
	return out
}
