package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

func TestGetSettlementPlan(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env)

	_, err := env.groups.AddExpense(ctx, as(t, env, "alice", &api.AddExpenseRequest{
		GroupID: group.ID, Description: "Villa", Amount: dec("90"), Currency: "USD", SplitType: "equal",
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	_, err = env.groups.AddExpense(ctx, as(t, env, "bob", &api.AddExpenseRequest{
		GroupID: group.ID, Description: "Souvenirs", Amount: dec("40"), Currency: "EUR", SplitType: "none",
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	resp, err := env.settlements.GetSettlementPlan(ctx, as(t, env, "carol", &api.GetSettlementPlanRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	plan := resp.Msg.Plan

	if plan.TotalExpenses != 1 {
		t.Errorf("TotalExpenses = %d, want 1", plan.TotalExpenses)
	}
	if plan.ReferenceCurrency != "USD" {
		t.Errorf("ReferenceCurrency = %s, want USD", plan.ReferenceCurrency)
	}
	if plan.TransactionCount != 2 || len(plan.Settlements) != 2 {
		t.Fatalf("got %d transfers, want 2", len(plan.Settlements))
	}

	first := plan.Settlements[0]
	if first.From.User.ID != "bob" || first.To.User.ID != "alice" {
		t.Errorf("first transfer = %s -> %s, want bob -> alice", first.From.User.ID, first.To.User.ID)
	}
	if first.From.Currency != "EUR" || first.From.Amount.StringFixed(2) != "27.78" {
		t.Errorf("bob pays %s %s, want EUR 27.78", first.From.Currency, first.From.Amount)
	}
	if first.To.Currency != "USD" || first.To.Amount.StringFixed(2) != "30.00" {
		t.Errorf("alice receives %s %s, want USD 30.00", first.To.Currency, first.To.Amount)
	}
	if first.Description != "Bob pays Alice €27.78" {
		t.Errorf("Description = %q", first.Description)
	}

	second := plan.Settlements[1]
	if second.From.User.ID != "carol" || second.From.Currency != "INR" || second.From.Amount.StringFixed(2) != "2500.00" {
		t.Errorf("unexpected second transfer: %+v", second.From)
	}

	alice, ok := plan.Balances["alice"]
	if !ok {
		t.Fatal("expected a balance for alice")
	}
	if alice.Status != "owed" || alice.BalanceReference.StringFixed(2) != "60.00" {
		t.Errorf("alice balance = %s %s, want owed 60.00", alice.Status, alice.BalanceReference)
	}
	if plan.Balances["bob"].Status != "owes" {
		t.Errorf("bob status = %s, want owes", plan.Balances["bob"].Status)
	}

	_, err = env.settlements.GetSettlementPlan(ctx, as(t, env, "mallory", &api.GetSettlementPlanRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.settlements.GetSettlementPlan(ctx, as(t, env, "alice", &api.GetSettlementPlanRequest{GroupID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestGetSettlementPlan_NoExpenses(t *testing.T) {
	env := setupTestServer(t)
	group := createGroup(t, env)

	resp, err := env.settlements.GetSettlementPlan(context.Background(), as(t, env, "alice", &api.GetSettlementPlanRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	if resp.Msg.Plan.TransactionCount != 0 || len(resp.Msg.Plan.Balances) != 0 {
		t.Errorf("expected an empty plan, got %+v", resp.Msg.Plan)
	}
	if resp.Msg.Plan.Settlements == nil {
		t.Error("settlements should be an empty list, not null")
	}
}

func TestSettlementLifecycle(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env)

	created, err := env.settlements.CreateSettlement(ctx, as(t, env, "bob", &api.CreateSettlementRequest{
		GroupID: group.ID, From: "bob", To: "alice", Amount: dec("27.78"), Currency: "eur", Notes: "bank transfer",
	}))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	s := created.Msg.Settlement
	if s.Status != "pending" || s.Currency != "EUR" || s.CreatedBy != "bob" {
		t.Errorf("unexpected settlement: %+v", s)
	}
	if s.AmountReference.StringFixed(2) != "30.00" {
		t.Errorf("AmountReference = %s, want 30.00", s.AmountReference)
	}

	complete := func(actor string) error {
		_, err := env.settlements.CompleteSettlement(ctx, as(t, env, actor, &api.CompleteSettlementRequest{
			GroupID: group.ID, SettlementID: s.ID,
		}))
		return err
	}

	// pending cannot be completed
	assertCode(t, complete("alice"), connect.CodeFailedPrecondition)

	// carol is in the group but not a party
	_, err = env.settlements.VerifySettlement(ctx, as(t, env, "carol", &api.VerifySettlementRequest{
		GroupID: group.ID, SettlementID: s.ID,
	}))
	assertCode(t, err, connect.CodePermissionDenied)

	verified, err := env.settlements.VerifySettlement(ctx, as(t, env, "alice", &api.VerifySettlementRequest{
		GroupID: group.ID, SettlementID: s.ID, Notes: "received",
	}))
	if err != nil {
		t.Fatalf("VerifySettlement failed: %v", err)
	}
	if verified.Msg.Settlement.Status != "verified" || verified.Msg.Settlement.VerifiedBy != "alice" {
		t.Errorf("unexpected settlement: %+v", verified.Msg.Settlement)
	}
	if verified.Msg.Settlement.Notes != "received" {
		t.Errorf("Notes = %q, want received", verified.Msg.Settlement.Notes)
	}

	// only the receiver completes
	assertCode(t, complete("bob"), connect.CodePermissionDenied)
	if err := complete("alice"); err != nil {
		t.Fatalf("CompleteSettlement failed: %v", err)
	}
	assertCode(t, complete("alice"), connect.CodeFailedPrecondition)

	got, err := env.settlements.GetSettlement(ctx, as(t, env, "carol", &api.GetSettlementRequest{
		GroupID: group.ID, SettlementID: s.ID,
	}))
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if got.Msg.Settlement.Status != "completed" || got.Msg.Settlement.CompletedAt == 0 {
		t.Errorf("unexpected settlement: %+v", got.Msg.Settlement)
	}
	if !got.Msg.Settlement.Amount.Equal(dec("27.78")) {
		t.Errorf("Amount = %s, want 27.78", got.Msg.Settlement.Amount)
	}
}

func TestCreateSettlement_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env)

	tests := []struct {
		name  string
		actor string
		req   *api.CreateSettlementRequest
		want  connect.Code
	}{
		{"same member", "bob", &api.CreateSettlementRequest{GroupID: group.ID, From: "bob", To: "bob", Amount: dec("5")}, connect.CodeInvalidArgument},
		{"receiver outside group", "bob", &api.CreateSettlementRequest{GroupID: group.ID, From: "bob", To: "mallory", Amount: dec("5")}, connect.CodeInvalidArgument},
		{"zero amount", "bob", &api.CreateSettlementRequest{GroupID: group.ID, From: "bob", To: "alice", Amount: dec("0")}, connect.CodeInvalidArgument},
		{"unsupported currency", "bob", &api.CreateSettlementRequest{GroupID: group.ID, From: "bob", To: "alice", Amount: dec("5"), Currency: "XYZ"}, connect.CodeInvalidArgument},
		{"caller outside group", "mallory", &api.CreateSettlementRequest{GroupID: group.ID, From: "bob", To: "alice", Amount: dec("5")}, connect.CodePermissionDenied},
		{"missing group", "bob", &api.CreateSettlementRequest{GroupID: "missing", From: "bob", To: "alice", Amount: dec("5")}, connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.settlements.CreateSettlement(ctx, as(t, env, tt.actor, tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestSettlements_GroupScoped(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env)

	other, err := env.groups.CreateGroup(ctx, as(t, env, "alice", &api.CreateGroupRequest{
		Name:    "Flat",
		Members: []*api.Member{{ID: "bob"}},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	first, err := env.settlements.CreateSettlement(ctx, as(t, env, "bob", &api.CreateSettlementRequest{
		GroupID: group.ID, From: "bob", To: "alice", Amount: dec("10"),
	}))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	_, err = env.settlements.CreateSettlement(ctx, as(t, env, "carol", &api.CreateSettlementRequest{
		GroupID: group.ID, From: "carol", To: "alice", Amount: dec("20"),
	}))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	// a settlement is only visible through its own group
	_, err = env.settlements.GetSettlement(ctx, as(t, env, "bob", &api.GetSettlementRequest{
		GroupID: other.Msg.Group.ID, SettlementID: first.Msg.Settlement.ID,
	}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.settlements.VerifySettlement(ctx, as(t, env, "alice", &api.VerifySettlementRequest{
		GroupID: other.Msg.Group.ID, SettlementID: first.Msg.Settlement.ID,
	}))
	assertCode(t, err, connect.CodeNotFound)

	list, err := env.settlements.ListSettlements(ctx, as(t, env, "alice", &api.ListSettlementsRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(list.Msg.Settlements) != 2 {
		t.Errorf("got %d settlements, want 2", len(list.Msg.Settlements))
	}

	empty, err := env.settlements.ListSettlements(ctx, as(t, env, "alice", &api.ListSettlementsRequest{GroupID: other.Msg.Group.ID}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(empty.Msg.Settlements) != 0 {
		t.Errorf("got %d settlements, want 0", len(empty.Msg.Settlements))
	}

	_, err = env.settlements.ListSettlements(ctx, as(t, env, "mallory", &api.ListSettlementsRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.settlements.ListSettlements(ctx, connect.NewRequest(&api.ListSettlementsRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodeUnauthenticated)
}
