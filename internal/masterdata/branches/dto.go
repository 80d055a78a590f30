package branches

type BranchForm struct {
	BranchCode string `json:"branchCode"`
	BranchName string `json:"branchName"`
	Address    string `json:"address"`
	Status     string `json:"status"`
}
