// Package settlement records payments between group members and drives them
// through their lifecycle:
//
//	pending --verify--> verified --complete--> completed
//
// It also builds settlement plans on demand from a group's expenses.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// maxAttempts bounds the re-read loop after a lost compare-and-swap.
const maxAttempts = 3

// Store is the storage the Manager needs.
type Store interface {
	storage.GroupStore
	storage.SettlementStore
}

// Manager creates settlement records and applies status transitions.
type Manager struct {
	store   Store
	conv    *currency.Converter
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewManager returns a Manager. m may be nil.
func NewManager(store Store, conv *currency.Converter, m *metrics.Metrics) *Manager {
	return &Manager{store: store, conv: conv, metrics: m, now: time.Now}
}

// CreateRequest describes a payment one member records against another.
type CreateRequest struct {
	GroupID  string
	ActorID  string
	FromID   string
	ToID     string
	Amount   decimal.Decimal
	Currency string
	Notes    string
}

// TransitionRequest names a settlement and who is acting on it.
type TransitionRequest struct {
	GroupID      string
	SettlementID string
	ActorID      string
	Notes        string
}

// Create records a pending settlement. The reference amount is fixed at the
// rates in effect now.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*models.Settlement, error) {
	group, err := m.memberGroup(ctx, req.GroupID, req.ActorID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.FromID == "" || req.ToID == "":
		return nil, fmt.Errorf("%w: payer and receiver are required", models.ErrInvalidArgument)
	case req.FromID == req.ToID:
		return nil, fmt.Errorf("%w: payer and receiver must differ", models.ErrInvalidArgument)
	case !group.HasMember(req.FromID):
		return nil, fmt.Errorf("%w: payer %s is not in group %s", models.ErrInvalidArgument, req.FromID, group.ID)
	case !group.HasMember(req.ToID):
		return nil, fmt.Errorf("%w: receiver %s is not in group %s", models.ErrInvalidArgument, req.ToID, group.ID)
	case !req.Amount.IsPositive():
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrInvalidArgument)
	}

	code := currency.NormalizeCode(req.Currency)
	if code == "" {
		code = m.conv.Reference()
	}
	ref, err := m.conv.ToReference(req.Amount, code)
	if err != nil {
		return nil, err
	}

	s := &models.Settlement{
		GroupID:         group.ID,
		FromID:          req.FromID,
		ToID:            req.ToID,
		Amount:          req.Amount,
		Currency:        code,
		AmountReference: ref,
		Status:          models.StatusPending,
		Notes:           req.Notes,
		CreatedBy:       req.ActorID,
		CreatedAt:       m.now().Unix(),
	}
	if err := m.store.CreateSettlement(ctx, s); err != nil {
		return nil, err
	}

	m.metrics.Transition(string(s.Status))
	slog.Info("Settlement recorded",
		"settlement_id", s.ID,
		"group_id", s.GroupID,
		"from", s.FromID,
		"to", s.ToID,
		"amount", s.Amount.String(),
		"currency", s.Currency,
	)
	return s, nil
}

// Get returns a settlement of the group, if actorID belongs to it.
func (m *Manager) Get(ctx context.Context, groupID, settlementID, actorID string) (*models.Settlement, error) {
	if _, err := m.memberGroup(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	return m.store.GetSettlement(ctx, groupID, settlementID)
}

// List returns the group's settlements, newest first.
func (m *Manager) List(ctx context.Context, groupID, actorID string) ([]*models.Settlement, error) {
	if _, err := m.memberGroup(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	return m.store.ListSettlementsByGroup(ctx, groupID)
}

// Verify confirms that the payment happened. Either party may verify, and a
// verified settlement may be verified again; a completed one may not.
func (m *Manager) Verify(ctx context.Context, req TransitionRequest) (*models.Settlement, error) {
	return m.transition(ctx, req, "verify", func(s *models.Settlement) error {
		if !s.IsParty(req.ActorID) {
			return fmt.Errorf("%w: only the payer or receiver can verify settlement %s", models.ErrForbidden, s.ID)
		}
		if s.Status == models.StatusCompleted {
			return &models.InvalidStateError{SettlementID: s.ID, Current: s.Status, Action: "verify"}
		}
		s.Status = models.StatusVerified
		s.VerifiedBy = req.ActorID
		s.VerifiedAt = m.now().Unix()
		if req.Notes != "" {
			s.Notes = req.Notes
		}
		return nil
	})
}

// Complete closes a verified settlement. Only the receiver may complete.
func (m *Manager) Complete(ctx context.Context, req TransitionRequest) (*models.Settlement, error) {
	return m.transition(ctx, req, "complete", func(s *models.Settlement) error {
		if req.ActorID != s.ToID {
			return fmt.Errorf("%w: only the receiver can complete settlement %s", models.ErrForbidden, s.ID)
		}
		if s.Status != models.StatusVerified {
			return &models.InvalidStateError{SettlementID: s.ID, Current: s.Status, Action: "complete"}
		}
		s.Status = models.StatusCompleted
		s.CompletedAt = m.now().Unix()
		return nil
	})
}

// transition loads the settlement, lets apply validate and mutate it, then
// writes it back only if nobody changed its status in between. A lost race
// re-reads and re-validates, so the loser sees the winner's state.
func (m *Manager) transition(ctx context.Context, req TransitionRequest, action string, apply func(*models.Settlement) error) (*models.Settlement, error) {
	if _, err := m.memberGroup(ctx, req.GroupID, req.ActorID); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		s, err := m.store.GetSettlement(ctx, req.GroupID, req.SettlementID)
		if err != nil {
			return nil, err
		}

		expected := s.Status
		if err := apply(s); err != nil {
			return nil, err
		}

		err = m.store.UpdateSettlement(ctx, s, expected)
		if err == nil {
			m.metrics.Transition(string(s.Status))
			slog.Info("Settlement transitioned",
				"settlement_id", s.ID,
				"group_id", s.GroupID,
				"action", action,
				"from_status", expected,
				"to_status", s.Status,
				"actor", req.ActorID,
			)
			return s, nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return nil, err
		}

		slog.Debug("Settlement changed concurrently, retrying",
			"settlement_id", req.SettlementID,
			"action", action,
			"attempt", attempt,
		)
	}

	return nil, fmt.Errorf("%s settlement %s: %w", action, req.SettlementID, storage.ErrConflict)
}

// memberGroup loads the group and checks that actorID is a current member.
func (m *Manager) memberGroup(ctx context.Context, groupID, actorID string) (*models.Group, error) {
	group, err := m.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, fmt.Errorf("%w: %s is not a member of group %s", models.ErrForbidden, actorID, groupID)
	}
	return group, nil
}
