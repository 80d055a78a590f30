package shared

const (
	DefaultPage  = 1
	DefaultLimit = 15

	SortAsc  = "asc"
	SortDesc = "desc"

	StatusActive   = "Active"
	StatusInactive = "Inactive"
)
