package reports

import "time"

// BillFilters are the raw query parameters of the bill listing. Dates are
// YYYY-MM-DD strings; both empty means "today" in the report timezone.
type BillFilters struct {
	StartDate  string
	EndDate    string
	BranchCode string
	BillStatus string
	BillType   string
	BillNumber string
	MemberName string
	RecordBy   string
}

// SummaryFilters are the raw query parameters of the sales summary.
type SummaryFilters struct {
	StartDate string
	EndDate   string
	RecordBy  string
}

// BillQuery is a resolved bill listing query with an absolute time window.
type BillQuery struct {
	Start      time.Time
	End        time.Time
	BranchCode string
	BillStatus string
	BillType   string
	BillNumber string
	MemberName string
	RecordBy   string
}

// SummaryQuery is a resolved summary query. Completed bills only.
type SummaryQuery struct {
	Start      time.Time
	End        time.Time
	BranchCode string
	RecordBy   string
}

// SummaryRow is one aggregation group: bills by the same cashier, branch and
// purchase type at the same recorded second.
type SummaryRow struct {
	BillType   string  `json:"billType"`
	BranchCode string  `json:"branchCode"`
	RecordBy   string  `json:"recordBy"`
	StartDate  string  `json:"startDate"`
	BillAmount int     `json:"billAmount"`
	TotalPrice float64 `json:"totalPrice"`
}

// SummaryResult is the summary payload: the grouped rows plus the grand
// total across them.
type SummaryResult struct {
	Bills      []SummaryRow `json:"bills"`
	TotalPrice float64      `json:"totalPrice"`
}
