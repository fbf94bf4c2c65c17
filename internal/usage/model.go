package usage

import "resume-builder/internal/users"

// Usage represents a user's analysis consumption snapshot.
type Usage struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	IsPremium bool `json:"isPremium"`
}

// FromUser builds the snapshot for a user. Remaining is -1 for premium accounts.
func FromUser(u users.User) Usage {
	return Usage{
		Used:      u.UsageCount,
		Limit:     u.UsageLimit,
		Remaining: u.Remaining(),
		IsPremium: u.IsPremium,
	}
}
