package branches

import "time"

// Branch represents a sales branch.
type Branch struct {
	ID         int64     `json:"id"`
	BranchCode string    `json:"branchCode"`
	BranchName string    `json:"branchName"`
	Address    string    `json:"address"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
