package auth

import "time"

// User represents a staff account able to sign in.
type User struct {
	ID           int64
	Username     string
	LastName     string
	PasswordHash string
	Role         string
	BranchCode   string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the user payload returned by login and /me, with the branch joined
// in the way the sale screen expects it.
type Profile struct {
	Username   string `json:"username"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	BranchCode string `json:"branchCode"`
	BranchName string `json:"branchName"`
	Address    string `json:"address"`
}
