package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/pkg/api"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// createGroup creates a group owned by alice with bob and carol.
func createGroup(t *testing.T, env *testEnv) *api.Group {
	t.Helper()
	resp, err := env.groups.CreateGroup(context.Background(), named(t, env, "alice", "Alice", &api.CreateGroupRequest{
		Name: "Goa trip",
		Members: []*api.Member{
			{ID: "bob", Name: "Bob", PreferredCurrency: "eur"},
			{ID: "carol", Name: "Carol", PreferredCurrency: "INR"},
		},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)
	group := createGroup(t, env)

	if group.ID == "" {
		t.Error("expected group ID to be generated")
	}
	if group.CreatorID != "alice" {
		t.Errorf("CreatorID = %s, want alice", group.CreatorID)
	}
	if group.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}

	want := []string{"alice", "bob", "carol"}
	if len(group.Members) != len(want) {
		t.Fatalf("got %d members, want %d", len(group.Members), len(want))
	}
	for i, m := range group.Members {
		if m.ID != want[i] {
			t.Errorf("member %d = %s, want %s", i, m.ID, want[i])
		}
	}
	if group.Members[0].Name != "Alice" {
		t.Errorf("creator name = %q, want Alice", group.Members[0].Name)
	}
	if group.Members[1].PreferredCurrency != "EUR" {
		t.Errorf("bob currency = %q, want EUR", group.Members[1].PreferredCurrency)
	}
}

func TestCreateGroup_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.groups.CreateGroup(ctx, as(t, env, "alice", &api.CreateGroupRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.groups.CreateGroup(ctx, as(t, env, "alice", &api.CreateGroupRequest{
		Name:    "Bad",
		Members: []*api.Member{{ID: "bob", PreferredCurrency: "XYZ"}},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.groups.CreateGroup(ctx, as(t, env, "alice", &api.CreateGroupRequest{
		Name:    "Bad",
		Members: []*api.Member{{Name: "No ID"}},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	// no token
	_, err = env.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Anon"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestGetGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env)

	resp, err := env.groups.GetGroup(ctx, as(t, env, "carol", &api.GetGroupRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Goa trip" {
		t.Errorf("Name = %s, want 'Goa trip'", resp.Msg.Group.Name)
	}

	_, err = env.groups.GetGroup(ctx, as(t, env, "mallory", &api.GetGroupRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = env.groups.GetGroup(ctx, as(t, env, "alice", &api.GetGroupRequest{GroupID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.groups.GetGroup(ctx, as(t, env, "alice", &api.GetGroupRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestAddMembers(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env)

	resp, err := env.groups.AddMembers(ctx, as(t, env, "bob", &api.AddMembersRequest{
		GroupID: group.ID,
		Members: []*api.Member{{ID: "dave", Name: "Dave"}, {ID: "alice"}},
	}))
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	members := resp.Msg.Group.Members
	if len(members) != 4 || members[3].ID != "dave" {
		t.Errorf("unexpected roster: %+v", members)
	}
	// re-adding alice must not clobber her name
	if members[0].Name != "Alice" {
		t.Errorf("alice name = %q, want Alice", members[0].Name)
	}

	_, err = env.groups.AddMembers(ctx, as(t, env, "mallory", &api.AddMembersRequest{
		GroupID: group.ID,
		Members: []*api.Member{{ID: "mallory"}},
	}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestAddExpense(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env)

	tests := []struct {
		name       string
		req        *api.AddExpenseRequest
		wantCode   connect.Code
		wantSplits map[string]string
	}{
		{
			name: "equal over the whole group",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Description: "Dinner", Amount: dec("100"), Currency: "USD", SplitType: "equal",
			},
			wantSplits: map[string]string{"alice": "33.33", "bob": "33.33", "carol": "33.34"},
		},
		{
			name: "equal over listed members",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("10"), Currency: "eur", PayerID: "bob", SplitType: "equal",
				Splits: []*api.SplitInput{{MemberID: "bob"}, {MemberID: "carol"}},
			},
			wantSplits: map[string]string{"bob": "5.00", "carol": "5.00"},
		},
		{
			name: "percentage",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("200"), Currency: "GBP", SplitType: "percentage",
				Splits: []*api.SplitInput{{MemberID: "alice", Value: dec("25")}, {MemberID: "bob", Value: dec("75")}},
			},
			wantSplits: map[string]string{"alice": "50.00", "bob": "150.00"},
		},
		{
			name: "custom",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("30"), Currency: "USD", SplitType: "custom",
				Splits: []*api.SplitInput{{MemberID: "carol", Value: dec("30")}},
			},
			wantSplits: map[string]string{"carol": "30.00"},
		},
		{
			name: "personal",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("12"), Currency: "USD", SplitType: "none",
			},
			wantSplits: map[string]string{},
		},
		{
			name: "custom not adding up",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("30"), Currency: "USD", SplitType: "custom",
				Splits: []*api.SplitInput{{MemberID: "carol", Value: dec("20")}},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "unsupported currency",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("30"), Currency: "XYZ", SplitType: "equal",
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "payer outside group",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("30"), Currency: "USD", PayerID: "mallory", SplitType: "equal",
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "split member outside group",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("30"), Currency: "USD", SplitType: "custom",
				Splits: []*api.SplitInput{{MemberID: "mallory", Value: dec("30")}},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "member listed twice",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("30"), Currency: "USD", SplitType: "custom",
				Splits: []*api.SplitInput{{MemberID: "bob", Value: dec("10")}, {MemberID: "bob", Value: dec("20")}},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "member listed twice in equal split",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("30"), Currency: "USD", SplitType: "equal",
				Splits: []*api.SplitInput{{MemberID: "bob"}, {MemberID: "bob"}},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "custom a cent short",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("10"), Currency: "USD", SplitType: "custom",
				Splits: []*api.SplitInput{{MemberID: "bob", Value: dec("4.99")}, {MemberID: "carol", Value: dec("5")}},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "non-positive amount",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("0"), Currency: "USD", SplitType: "equal",
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "unknown split type",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Amount: dec("10"), Currency: "USD", SplitType: "shares",
			},
			wantCode: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.groups.AddExpense(ctx, as(t, env, "alice", tt.req))
			if tt.wantCode != 0 {
				assertCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("AddExpense failed: %v", err)
			}

			got := make(map[string]string)
			for _, s := range resp.Msg.Expense.Splits {
				got[s.MemberID] = s.Amount.StringFixed(2)
			}
			if len(got) != len(tt.wantSplits) {
				t.Fatalf("splits = %v, want %v", got, tt.wantSplits)
			}
			for id, want := range tt.wantSplits {
				if got[id] != want {
					t.Errorf("%s owes %s, want %s", id, got[id], want)
				}
			}
		})
	}

	list, err := env.groups.ListExpenses(ctx, as(t, env, "bob", &api.ListExpensesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 5 {
		t.Errorf("got %d expenses, want 5", len(list.Msg.Expenses))
	}
	if list.Msg.Expenses[1].Currency != "EUR" {
		t.Errorf("currency = %s, want EUR", list.Msg.Expenses[1].Currency)
	}

	_, err = env.groups.ListExpenses(ctx, as(t, env, "mallory", &api.ListExpensesRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestSetPreferredCurrency(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	resp, err := env.groups.SetPreferredCurrency(ctx, as(t, env, "dave", &api.SetPreferredCurrencyRequest{Currency: "jpy"}))
	if err != nil {
		t.Fatalf("SetPreferredCurrency failed: %v", err)
	}
	if resp.Msg.Member.ID != "dave" || resp.Msg.Member.PreferredCurrency != "JPY" {
		t.Errorf("unexpected member: %+v", resp.Msg.Member)
	}

	_, err = env.groups.SetPreferredCurrency(ctx, as(t, env, "dave", &api.SetPreferredCurrencyRequest{Currency: "XYZ"}))
	assertCode(t, err, connect.CodeInvalidArgument)
}
