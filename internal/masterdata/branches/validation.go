package branches

import (
	"strings"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
)

func branchFromForm(form BranchForm) (Branch, error) {
	if strings.TrimSpace(form.BranchCode) == "" {
		return Branch{}, shared.Validation("branch code is required")
	}
	if strings.TrimSpace(form.BranchName) == "" {
		return Branch{}, shared.Validation("branch name is required")
	}
	status := form.Status
	if status == "" {
		status = shared.StatusActive
	}
	if status != shared.StatusActive && status != shared.StatusInactive {
		return Branch{}, shared.Validation("status must be Active or Inactive")
	}
	return Branch{
		BranchCode: strings.TrimSpace(form.BranchCode),
		BranchName: strings.TrimSpace(form.BranchName),
		Address:    strings.TrimSpace(form.Address),
		Status:     status,
	}, nil
}
