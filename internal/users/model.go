package users

import "time"

// User is an account holder. UsageCount counts completed ATS analyses and is
// compared against UsageLimit unless IsPremium is set.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PictureURL   string    `json:"picture_url,omitempty"`
	GoogleSub    string    `json:"-"`
	PasswordHash string    `json:"-"`
	IsPremium    bool      `json:"is_premium"`
	UsageCount   int       `json:"ats_checks_used"`
	UsageLimit   int       `json:"ats_checks_limit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Remaining returns the analyses left before the limit, or -1 for premium users.
func (u User) Remaining() int {
	if u.IsPremium {
		return -1
	}
	if left := u.UsageLimit - u.UsageCount; left > 0 {
		return left
	}
	return 0
}
