package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// PlannerStore is the storage the Planner reads from.
type PlannerStore interface {
	storage.GroupStore
	storage.MemberStore
	storage.ExpenseStore
}

// Planner computes settlement plans. Nothing is cached; every call reads the
// group's current expenses.
type Planner struct {
	store   PlannerStore
	conv    *currency.Converter
	metrics *metrics.Metrics
}

// NewPlanner returns a Planner. m may be nil.
func NewPlanner(store PlannerStore, conv *currency.Converter, m *metrics.Metrics) *Planner {
	return &Planner{store: store, conv: conv, metrics: m}
}

// Plan returns who should pay whom to settle the group, with amounts in each
// member's preferred currency. actorID must be a member of the group.
func (p *Planner) Plan(ctx context.Context, groupID, actorID string) (*calculator.Plan, error) {
	group, err := p.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, fmt.Errorf("%w: %s is not a member of group %s", models.ErrForbidden, actorID, groupID)
	}

	expenses, err := p.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members, err := p.store.GetMembersByIDs(ctx, group.Members)
	if err != nil {
		return nil, err
	}
	// Roster members without a profile still settle, in the reference currency
	for _, id := range group.Members {
		if _, ok := members[id]; !ok {
			members[id] = &models.Member{ID: id}
		}
	}

	sheet, err := calculator.AggregateBalances(p.conv, group.Members, expenses)
	if err != nil {
		return nil, err
	}
	transfers := calculator.MinimizeTransfers(sheet.Balances)

	plan, err := calculator.AssemblePlan(p.conv, calculator.PlanInput{
		GroupID:   group.ID,
		GroupName: group.Name,
		Sheet:     sheet,
		Transfers: transfers,
		Members:   members,
	})
	if err != nil {
		return nil, err
	}

	p.metrics.PlanGenerated(plan.TransactionCount)
	slog.Debug("Settlement plan computed",
		"group_id", group.ID,
		"expenses", len(expenses),
		"shared_expenses", sheet.SharedExpenses,
		"transfers", plan.TransactionCount,
	)
	return plan, nil
}
