package model

// User is the account shown on the settings screen.
type User struct {
	ID       string `json:"ID"`
	Name     string `json:"Name"`
	Email    string `json:"Email"`
	PlanName string `json:"PlanName"`
	// MaxTier 0 is the free plan. Paid features are restricted below tier 1.
	MaxTier int `json:"MaxTier"`
}

// UserResponse is the body of GET /core/v4/users.
type UserResponse struct {
	Code int  `json:"Code"`
	User User `json:"User"`
}

func (u User) IsFree() bool { return u.MaxTier < 1 }
