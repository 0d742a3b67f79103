package models

// Household represents a group of users who share expenses.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Name is the display name of the household (e.g., "Flat 3B").
	Name string

	// InviteCode lets other users join the household.
	InviteCode string

	// Members is the list of user IDs in this household.
	Members []string

	// AutoSplit splits new expenses equally among all members when the
	// expense names no participants.
	AutoSplit bool

	// CreatedAt is the Unix timestamp when the household was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the household.
func (h *Household) HasMember(userID string) bool {
	for _, m := range h.Members {
		if m == userID {
			return true
		}
	}
	return false
}
