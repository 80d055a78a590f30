package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sabai-pos/sabai-pos/internal/shared"
)

type mockRepo struct {
	users    map[string]*User
	branches map[string][2]string
	failWith error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:    make(map[string]*User),
		branches: make(map[string][2]string),
	}
}

func (m *mockRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockRepo) FindByID(_ context.Context, id int64) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepo) BranchInfo(_ context.Context, branchCode string) (string, string, error) {
	info, ok := m.branches[branchCode]
	if !ok {
		return "", "", shared.ErrNotFound
	}
	return info[0], info[1], nil
}

func seedUser(t *testing.T, repo *mockRepo, username, password, role, branch string, active bool) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &User{
		ID:           int64(len(repo.users) + 1),
		Username:     username,
		LastName:     "Tester",
		PasswordHash: string(hash),
		Role:         role,
		BranchCode:   branch,
		IsActive:     active,
	}
	repo.users[username] = u
	return u
}

func TestAuthenticate(t *testing.T) {
	repo := newMockRepo()
	seedUser(t, repo, "somchai", "s3cret", shared.RoleCashier, "PNH", true)
	seedUser(t, repo, "dormant", "s3cret", shared.RoleCashier, "PNH", false)
	svc := NewService(repo)

	t.Run("valid credentials", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), "somchai", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "somchai", u.Username)
		assert.Equal(t, "PNH", u.BranchCode)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "somchai", "nope")
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "ghost", "s3cret")
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "dormant", "s3cret")
		assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	})
}

func TestProfileFor(t *testing.T) {
	repo := newMockRepo()
	user := seedUser(t, repo, "somchai", "s3cret", shared.RoleCashier, "PNH", true)
	repo.branches["PNH"] = [2]string{"Phnom Penh Central", "12 Street 310, Phnom Penh"}
	svc := NewService(repo)

	t.Run("known branch", func(t *testing.T) {
		p, err := svc.ProfileFor(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, "Phnom Penh Central", p.BranchName)
		assert.Equal(t, "12 Street 310, Phnom Penh", p.Address)
		assert.Equal(t, shared.RoleCashier, p.Role)
	})

	t.Run("missing branch falls back", func(t *testing.T) {
		orphan := seedUser(t, repo, "orphan", "s3cret", shared.RoleCashier, "ZZZ", true)
		p, err := svc.ProfileFor(context.Background(), orphan)
		require.NoError(t, err)
		assert.Equal(t, "Unknown Branch", p.BranchName)
		assert.Equal(t, "Unknown Address", p.Address)
	})
}
