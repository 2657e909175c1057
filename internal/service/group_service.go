package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

// GroupService implements the Connect GroupService: rosters, expenses and
// member preferences that settlement plans are computed from.
type GroupService struct {
	store storage.Store
	conv  *currency.Converter
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, conv *currency.Converter) *GroupService {
	return &GroupService{store: store, conv: conv}
}

// CreateGroup creates a new group. The caller becomes its creator and first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
		"member_id", actor,
	)
	if err := required("name", req.Msg.Name); err != nil {
		return nil, err
	}

	if err := s.upsertCaller(ctx); err != nil {
		return nil, fail("CreateGroup", err)
	}
	roster := []string{actor}
	ids, err := s.upsertMembers(ctx, req.Msg.Members)
	if err != nil {
		return nil, fail("CreateGroup", err)
	}
	roster = append(roster, ids...)

	group := &models.Group{
		Name:      req.Msg.Name,
		CreatorID: actor,
		Members:   roster,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fail("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID)

	out, err := s.loadGroup(ctx, group.ID)
	if err != nil {
		return nil, fail("CreateGroup", err, "group_id", group.ID)
	}
	return connect.NewResponse(&api.CreateGroupResponse{Group: out}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("group_id", req.Msg.GroupID); err != nil {
		return nil, err
	}

	if _, err := s.memberGroup(ctx, req.Msg.GroupID, actor); err != nil {
		return nil, fail("GetGroup", err, "group_id", req.Msg.GroupID)
	}
	out, err := s.loadGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("GetGroup", err, "group_id", req.Msg.GroupID)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: out}), nil
}

// AddMembers adds members to a group the caller belongs to.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("group_id", req.Msg.GroupID); err != nil {
		return nil, err
	}

	if _, err := s.memberGroup(ctx, req.Msg.GroupID, actor); err != nil {
		return nil, fail("AddMembers", err, "group_id", req.Msg.GroupID)
	}
	ids, err := s.upsertMembers(ctx, req.Msg.Members)
	if err != nil {
		return nil, fail("AddMembers", err, "group_id", req.Msg.GroupID)
	}
	if err := s.store.AddGroupMembers(ctx, req.Msg.GroupID, ids); err != nil {
		return nil, fail("AddMembers", err, "group_id", req.Msg.GroupID)
	}

	slog.Info("Members added", "group_id", req.Msg.GroupID, "count", len(ids))

	out, err := s.loadGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("AddMembers", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.AddMembersResponse{Group: out}), nil
}

// AddExpense records an expense paid by a group member and derives each
// member's share from the split type.
func (s *GroupService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg
	if err := required("group_id", msg.GroupID); err != nil {
		return nil, err
	}

	group, err := s.memberGroup(ctx, msg.GroupID, actor)
	if err != nil {
		return nil, fail("AddExpense", err, "group_id", msg.GroupID)
	}

	expense, err := s.buildExpense(group, actor, msg)
	if err != nil {
		return nil, fail("AddExpense", err, "group_id", msg.GroupID)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fail("AddExpense", err, "group_id", msg.GroupID)
	}

	slog.Info("Expense added",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"amount", expense.Amount.String(),
		"currency", expense.Currency,
		"split_type", expense.SplitType,
	)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

func (s *GroupService) buildExpense(group *models.Group, actor string, msg *api.AddExpenseRequest) (*models.Expense, error) {
	payer := msg.PayerID
	if payer == "" {
		payer = actor
	}
	if !group.HasMember(payer) {
		return nil, fmt.Errorf("%w: payer %s is not in the group", models.ErrInvalidArgument, payer)
	}

	code := currency.NormalizeCode(msg.Currency)
	if code == "" {
		code = s.conv.Reference()
	}
	if !s.conv.Supported(code) {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedCurrency, code)
	}

	splitType := models.SplitType(msg.SplitType)
	if splitType == "" {
		splitType = models.SplitEqual
	}

	shares := make([]calculator.ShareInput, 0, len(msg.Splits))
	for _, sp := range msg.Splits {
		if !group.HasMember(sp.MemberID) {
			return nil, fmt.Errorf("%w: %s is not in the group", models.ErrInvalidArgument, sp.MemberID)
		}
		shares = append(shares, calculator.ShareInput{MemberID: sp.MemberID, Value: sp.Value})
	}

	splits, err := calculator.BuildSplits(splitType, msg.Amount, group.Members, shares)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: msg.Description,
		Amount:      msg.Amount,
		Currency:    code,
		PayerID:     payer,
		SplitType:   splitType,
		Splits:      splits,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns every expense of a group, including personal ones.
func (s *GroupService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("group_id", req.Msg.GroupID); err != nil {
		return nil, err
	}

	if _, err := s.memberGroup(ctx, req.Msg.GroupID, actor); err != nil {
		return nil, fail("ListExpenses", err, "group_id", req.Msg.GroupID)
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("ListExpenses", err, "group_id", req.Msg.GroupID)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// SetPreferredCurrency changes the currency the caller's amounts are shown in.
func (s *GroupService) SetPreferredCurrency(ctx context.Context, req *connect.Request[api.SetPreferredCurrencyRequest]) (*connect.Response[api.SetPreferredCurrencyResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	code := currency.NormalizeCode(req.Msg.Currency)
	if !s.conv.Supported(code) {
		return nil, fail("SetPreferredCurrency", fmt.Errorf("%w: %q", models.ErrUnsupportedCurrency, req.Msg.Currency))
	}

	if err := s.upsertCaller(ctx); err != nil {
		return nil, fail("SetPreferredCurrency", err)
	}
	if err := s.store.SetPreferredCurrency(ctx, actor, code); err != nil {
		return nil, fail("SetPreferredCurrency", err)
	}

	members, err := s.store.GetMembersByIDs(ctx, []string{actor})
	if err != nil {
		return nil, fail("SetPreferredCurrency", err)
	}
	member, ok := members[actor]
	if !ok {
		return nil, fail("SetPreferredCurrency", fmt.Errorf("member %s: %w", actor, models.ErrNotFound))
	}

	slog.Info("Preferred currency updated", "member_id", actor, "currency", code)

	return connect.NewResponse(&api.SetPreferredCurrencyResponse{Member: toAPIMember(member)}), nil
}

// upsertCaller stores the caller's profile from the token claims.
func (s *GroupService) upsertCaller(ctx context.Context) error {
	return s.store.UpsertMember(ctx, &models.Member{
		ID:    middleware.GetMemberID(ctx),
		Name:  middleware.GetName(ctx),
		Email: middleware.GetEmail(ctx),
	})
}

// upsertMembers stores the given profiles and returns their IDs in order.
func (s *GroupService) upsertMembers(ctx context.Context, members []*api.Member) ([]string, error) {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m == nil || m.ID == "" {
			return nil, fmt.Errorf("%w: member id required", models.ErrInvalidArgument)
		}
		code := currency.NormalizeCode(m.PreferredCurrency)
		if code != "" && !s.conv.Supported(code) {
			return nil, fmt.Errorf("%w: %q for member %s", models.ErrUnsupportedCurrency, m.PreferredCurrency, m.ID)
		}
		if err := s.store.UpsertMember(ctx, &models.Member{
			ID:                m.ID,
			Name:              m.Name,
			Email:             m.Email,
			PreferredCurrency: code,
		}); err != nil {
			return nil, err
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (s *GroupService) memberGroup(ctx context.Context, groupID, actor string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actor) {
		return nil, fmt.Errorf("%w: %s is not a member of group %s", models.ErrForbidden, actor, groupID)
	}
	return group, nil
}

func (s *GroupService) loadGroup(ctx context.Context, groupID string) (*api.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.store.GetMembersByIDs(ctx, group.Members)
	if err != nil {
		return nil, err
	}
	return toAPIGroup(group, profiles), nil
}
