package groups

import "time"

// Group is a top level product grouping.
type Group struct {
	ID        int64     `json:"id"`
	GroupName string    `json:"groupName"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type GroupForm struct {
	GroupName string `json:"groupName"`
	Status    string `json:"status"`
}
