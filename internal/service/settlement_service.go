package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/settlement"
	"github.com/mmynk/settleup/pkg/api"
)

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	planner *settlement.Planner
	manager *settlement.Manager
}

var _ api.SettlementServiceHandler = (*SettlementService)(nil)

// NewSettlementService creates a new SettlementService.
func NewSettlementService(planner *settlement.Planner, manager *settlement.Manager) *SettlementService {
	return &SettlementService{planner: planner, manager: manager}
}

// GetSettlementPlan computes who should pay whom to settle a group.
func (s *SettlementService) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID
	if err := required("group_id", groupID); err != nil {
		return nil, err
	}

	plan, err := s.planner.Plan(ctx, groupID, actor)
	if err != nil {
		return nil, fail("GetSettlementPlan", err, "group_id", groupID, "member_id", actor)
	}

	slog.Info("GetSettlementPlan successful",
		"group_id", groupID,
		"expenses", plan.TotalExpenses,
		"transactions", plan.TransactionCount,
	)

	return connect.NewResponse(&api.GetSettlementPlanResponse{Plan: toAPIPlan(plan)}), nil
}

// CreateSettlement records a pending payment between two members.
func (s *SettlementService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("group_id", req.Msg.GroupID); err != nil {
		return nil, err
	}

	created, err := s.manager.Create(ctx, settlement.CreateRequest{
		GroupID:  req.Msg.GroupID,
		ActorID:  actor,
		FromID:   req.Msg.From,
		ToID:     req.Msg.To,
		Amount:   req.Msg.Amount,
		Currency: req.Msg.Currency,
		Notes:    req.Msg.Notes,
	})
	if err != nil {
		return nil, fail("CreateSettlement", err, "group_id", req.Msg.GroupID, "member_id", actor)
	}

	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: toAPISettlement(created)}), nil
}

// GetSettlement returns one settlement of a group.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("settlement_id", req.Msg.SettlementID); err != nil {
		return nil, err
	}

	found, err := s.manager.Get(ctx, req.Msg.GroupID, req.Msg.SettlementID, actor)
	if err != nil {
		return nil, fail("GetSettlement", err, "settlement_id", req.Msg.SettlementID, "group_id", req.Msg.GroupID)
	}

	return connect.NewResponse(&api.GetSettlementResponse{Settlement: toAPISettlement(found)}), nil
}

// ListSettlements returns a group's settlements, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("group_id", req.Msg.GroupID); err != nil {
		return nil, err
	}

	list, err := s.manager.List(ctx, req.Msg.GroupID, actor)
	if err != nil {
		return nil, fail("ListSettlements", err, "group_id", req.Msg.GroupID)
	}

	out := make([]*api.Settlement, len(list))
	for i, st := range list {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// VerifySettlement confirms a payment on behalf of the payer or receiver.
func (s *SettlementService) VerifySettlement(ctx context.Context, req *connect.Request[api.VerifySettlementRequest]) (*connect.Response[api.VerifySettlementResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("settlement_id", req.Msg.SettlementID); err != nil {
		return nil, err
	}

	verified, err := s.manager.Verify(ctx, settlement.TransitionRequest{
		GroupID:      req.Msg.GroupID,
		SettlementID: req.Msg.SettlementID,
		ActorID:      actor,
		Notes:        req.Msg.Notes,
	})
	if err != nil {
		return nil, fail("VerifySettlement", err, "settlement_id", req.Msg.SettlementID, "member_id", actor)
	}

	return connect.NewResponse(&api.VerifySettlementResponse{Settlement: toAPISettlement(verified)}), nil
}

// CompleteSettlement closes a verified settlement on behalf of the receiver.
func (s *SettlementService) CompleteSettlement(ctx context.Context, req *connect.Request[api.CompleteSettlementRequest]) (*connect.Response[api.CompleteSettlementResponse], error) {
	actor, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := required("settlement_id", req.Msg.SettlementID); err != nil {
		return nil, err
	}

	completed, err := s.manager.Complete(ctx, settlement.TransitionRequest{
		GroupID:      req.Msg.GroupID,
		SettlementID: req.Msg.SettlementID,
		ActorID:      actor,
	})
	if err != nil {
		return nil, fail("CompleteSettlement", err, "settlement_id", req.Msg.SettlementID, "member_id", actor)
	}

	return connect.NewResponse(&api.CompleteSettlementResponse{Settlement: toAPISettlement(completed)}), nil
}
