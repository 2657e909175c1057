// Package memory provides an in-process implementation of storage.Store.
// Data lives only as long as the process.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps everything in maps guarded by one mutex. Values are copied on
// the way in and out so callers never share memory with the store.
type Store struct {
	mu          sync.RWMutex
	groups      map[string]*models.Group
	members     map[string]*models.Member
	expenses    map[string][]*models.Expense // by group ID, insertion order
	settlements map[string]*models.Settlement
	seq         map[string]int // settlement ID -> insertion sequence
	next        int
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		groups:      make(map[string]*models.Group),
		members:     make(map[string]*models.Member),
		expenses:    make(map[string][]*models.Expense),
		settlements: make(map[string]*models.Settlement),
		seq:         make(map[string]int),
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) CreateGroup(_ context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[group.ID]; ok {
		return fmt.Errorf("group %s already exists", group.ID)
	}
	stored := *group
	stored.Members = appendUnique(nil, group.Members)
	s.groups[group.ID] = &stored
	return nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	out := *g
	out.Members = append([]string(nil), g.Members...)
	return &out, nil
}

func (s *Store) AddGroupMembers(_ context.Context, groupID string, memberIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	g.Members = appendUnique(g.Members, memberIDs)
	return nil
}

func appendUnique(roster, ids []string) []string {
	seen := make(map[string]bool, len(roster))
	for _, id := range roster {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			roster = append(roster, id)
		}
	}
	return roster
}

func (s *Store) UpsertMember(_ context.Context, member *models.Member) error {
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.members[member.ID]
	if !ok {
		stored := *member
		s.members[member.ID] = &stored
		return nil
	}
	if member.Name != "" {
		existing.Name = member.Name
	}
	if member.Email != "" {
		existing.Email = member.Email
	}
	return nil
}

func (s *Store) GetMembersByIDs(_ context.Context, ids []string) (map[string]*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*models.Member, len(ids))
	for _, id := range ids {
		if m, ok := s.members[id]; ok {
			cp := *m
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *Store) SetPreferredCurrency(_ context.Context, memberID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok {
		return fmt.Errorf("member %s: %w", memberID, models.ErrNotFound)
	}
	m.PreferredCurrency = code
	return nil
}

func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[expense.GroupID]; !ok {
		return fmt.Errorf("group %s: %w", expense.GroupID, models.ErrNotFound)
	}
	s.expenses[expense.GroupID] = append(s.expenses[expense.GroupID], copyExpense(expense))
	return nil
}

func (s *Store) ListExpensesByGroup(_ context.Context, groupID string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.expenses[groupID]
	out := make([]*models.Expense, 0, len(stored))
	for _, e := range stored {
		out = append(out, copyExpense(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

func copyExpense(e *models.Expense) *models.Expense {
	cp := *e
	cp.Splits = append([]models.Split(nil), e.Splits...)
	return &cp
}

func (s *Store) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	if settlement.Status == "" {
		settlement.Status = models.StatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[settlement.GroupID]; !ok {
		return fmt.Errorf("group %s: %w", settlement.GroupID, models.ErrNotFound)
	}
	if _, ok := s.settlements[settlement.ID]; ok {
		return fmt.Errorf("settlement %s already exists", settlement.ID)
	}
	stored := *settlement
	s.settlements[settlement.ID] = &stored
	s.seq[settlement.ID] = s.next
	s.next++
	return nil
}

func (s *Store) GetSettlement(_ context.Context, groupID, settlementID string) (*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.settlements[settlementID]
	if !ok || st.GroupID != groupID {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, models.ErrNotFound)
	}
	out := *st
	return &out, nil
}

func (s *Store) ListSettlementsByGroup(_ context.Context, groupID string) ([]*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Settlement{}
	for _, st := range s.settlements {
		if st.GroupID == groupID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}

func (s *Store) UpdateSettlement(_ context.Context, settlement *models.Settlement, expected models.SettlementStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.settlements[settlement.ID]
	if !ok || st.GroupID != settlement.GroupID || st.Status != expected {
		return fmt.Errorf("settlement %s: %w", settlement.ID, storage.ErrConflict)
	}
	st.Status = settlement.Status
	st.VerifiedBy = settlement.VerifiedBy
	st.VerifiedAt = settlement.VerifiedAt
	st.CompletedAt = settlement.CompletedAt
	st.Notes = settlement.Notes
	return nil
}
