package shared

import "context"

// Role names used across the application. There are exactly two staff roles
// and no permission matrix behind them.
const (
	RoleAdmin   = "Admin"
	RoleCashier = "Cashier"
)

// Identity carries the authenticated actor attached to a request. BranchCode and
// Username are trusted as given once the token resolves; sale recording and report
// scoping read them without re-validating against the branch store.
type Identity struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	BranchCode string `json:"branch_code"`
}

// IsAdmin reports whether the identity holds the Admin role.
func (id *Identity) IsAdmin() bool {
	return id != nil && id.Role == RoleAdmin
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context, nil when absent.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}
