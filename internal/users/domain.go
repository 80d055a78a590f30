package users

import "time"

// User is a staff account. PasswordHash never leaves the repository layer in
// API responses.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	BranchCode   string    `json:"branchCode"`
	BranchName   string    `json:"branchName"`
	Address      string    `json:"address"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserForm carries create/update input. Password is required on create and
// optional on update, where an empty value keeps the current hash.
type UserForm struct {
	Username   string `json:"username"`
	LastName   string `json:"lastName"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	BranchCode string `json:"branchCode"`
	Status     string `json:"status"`
}
