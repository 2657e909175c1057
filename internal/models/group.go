package models

// Group represents a roster of members who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Lisbon trip").
	Name string

	// CreatorID is the member who created the group.
	CreatorID string

	// Members is the ordered list of member IDs in this group.
	// The order is the join order and is used as the tie-break order when
	// balances are equal.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether memberID is currently in the group.
func (g *Group) HasMember(memberID string) bool {
	for _, m := range g.Members {
		if m == memberID {
			return true
		}
	}
	return false
}

// Member represents a person that can belong to groups.
type Member struct {
	// ID is the unique identifier for the member.
	ID string

	// Name is the display name of the member.
	Name string

	// Email is optional contact information.
	Email string

	// PreferredCurrency is the ISO code amounts are displayed in.
	// Empty means the reference currency.
	PreferredCurrency string

	// CreatedAt is the Unix timestamp when the member was first seen.
	CreatedAt int64
}

// DisplayName returns Name, falling back to the ID when no name is set.
func (m *Member) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}
