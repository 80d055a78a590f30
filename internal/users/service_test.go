package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	mdshared "github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
	"github.com/sabai-pos/sabai-pos/internal/shared"
)

type mockRepo struct {
	byID     map[int64]User
	branches map[string]bool
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:     make(map[int64]User),
		branches: map[string]bool{"PNH": true},
		nextID:   1,
	}
}

func (m *mockRepo) List(_ context.Context, _ mdshared.ListFilters) ([]User, error) {
	var all []User
	for _, u := range m.byID {
		all = append(all, u)
	}
	return all, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (User, error) {
	u, ok := m.byID[id]
	if !ok {
		return User{}, mdshared.NotFound("user")
	}
	return u, nil
}

func (m *mockRepo) Create(_ context.Context, user User) (User, error) {
	for _, u := range m.byID {
		if u.Username == user.Username {
			return User{}, mdshared.Duplicate("username " + user.Username)
		}
	}
	if !m.branches[user.BranchCode] {
		return User{}, mdshared.Validation("branch " + user.BranchCode + " does not exist")
	}
	user.ID = m.nextID
	m.nextID++
	m.byID[user.ID] = user
	return user, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, user User) error {
	if _, ok := m.byID[id]; !ok {
		return mdshared.NotFound("user")
	}
	user.ID = id
	m.byID[id] = user
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return mdshared.NotFound("user")
	}
	delete(m.byID, id)
	return nil
}

func TestCreateUser(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	form := UserForm{Username: "somchai", LastName: "Srisuk", Password: "s3cret", Role: shared.RoleCashier, BranchCode: "PNH"}
	created, err := svc.Create(ctx, form)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.byID[created.ID].PasswordHash), []byte("s3cret")))

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Create(ctx, form)
		assert.ErrorIs(t, err, httpx.ErrDuplicate)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := svc.Create(ctx, UserForm{Username: "other", Role: shared.RoleCashier, BranchCode: "PNH"})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})

	t.Run("unknown branch", func(t *testing.T) {
		_, err := svc.Create(ctx, UserForm{Username: "other", Password: "x", Role: shared.RoleCashier, BranchCode: "ZZZ"})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})

	t.Run("bad role", func(t *testing.T) {
		_, err := svc.Create(ctx, UserForm{Username: "other", Password: "x", Role: "Owner", BranchCode: "PNH"})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})
}

func TestUpdateUserKeepsPassword(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, UserForm{Username: "somchai", Password: "s3cret", Role: shared.RoleCashier, BranchCode: "PNH"})
	require.NoError(t, err)
	originalHash := repo.byID[created.ID].PasswordHash

	_, err = svc.Update(ctx, created.ID, UserForm{Username: "somchai", LastName: "Changed", Role: shared.RoleAdmin, BranchCode: "PNH"})
	require.NoError(t, err)
	assert.Equal(t, originalHash, repo.byID[created.ID].PasswordHash)

	_, err = svc.Update(ctx, created.ID, UserForm{Username: "somchai", Role: shared.RoleAdmin, BranchCode: "PNH", Password: "newpass"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.byID[created.ID].PasswordHash), []byte("newpass")))
}

func TestDeleteUserRequiresInactive(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, UserForm{Username: "somchai", Password: "s3cret", Role: shared.RoleCashier, BranchCode: "PNH"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), httpx.ErrConflict)

	_, err = svc.Update(ctx, created.ID, UserForm{Username: "somchai", Role: shared.RoleCashier, BranchCode: "PNH", Status: mdshared.StatusInactive})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
}
