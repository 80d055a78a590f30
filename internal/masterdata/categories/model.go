package categories

import "time"

// Category is a product category inside a group.
type Category struct {
	ID           int64     `json:"id"`
	CategoryName string    `json:"categoryName"`
	GroupID      int64     `json:"groupId"`
	GroupName    string    `json:"groupName"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CategoryForm struct {
	CategoryName string `json:"categoryName"`
	GroupID      int64  `json:"groupId"`
	Status       string `json:"status"`
}
