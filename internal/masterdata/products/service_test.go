package products

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
)

type mockRepo struct {
	byID   map[int64]Product
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: make(map[int64]Product), nextID: 1}
}

func (m *mockRepo) List(_ context.Context, _ shared.ListFilters) ([]Product, int, error) {
	var all []Product
	for _, p := range m.byID {
		all = append(all, p)
	}
	return all, len(all), nil
}

func (m *mockRepo) ListActive(_ context.Context) ([]Product, error) {
	var active []Product
	for _, p := range m.byID {
		if p.Status == shared.StatusActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return Product{}, shared.NotFound("product")
	}
	return p, nil
}

func (m *mockRepo) FindByCode(_ context.Context, code string) (Product, error) {
	for _, p := range m.byID {
		if p.ProductCode == code {
			return p, nil
		}
	}
	return Product{}, shared.NotFound("product " + code)
}

func (m *mockRepo) Create(_ context.Context, product Product) (Product, error) {
	for _, p := range m.byID {
		if p.ProductCode == product.ProductCode {
			return Product{}, shared.Duplicate("product code " + product.ProductCode)
		}
	}
	product.ID = m.nextID
	m.nextID++
	m.byID[product.ID] = product
	return product, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, product Product) error {
	if _, ok := m.byID[id]; !ok {
		return shared.NotFound("product")
	}
	product.ID = id
	m.byID[id] = product
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return shared.NotFound("product")
	}
	delete(m.byID, id)
	return nil
}

type mockResolver struct {
	ids    map[string]int64
	nextID int64
}

func newMockResolver() *mockResolver {
	return &mockResolver{ids: make(map[string]int64), nextID: 1}
}

func (m *mockResolver) ensure(name string) int64 {
	if id, ok := m.ids[name]; ok {
		return id
	}
	id := m.nextID
	m.nextID++
	m.ids[name] = id
	return id
}

func (m *mockResolver) EnsureByName(_ context.Context, name string) (int64, error) {
	return m.ensure(name), nil
}

type mockCategoryResolver struct{ *mockResolver }

func (m mockCategoryResolver) EnsureByName(_ context.Context, name string, _ int64) (int64, error) {
	return m.ensure(name), nil
}

func newTestService() (*Service, *mockRepo, *mockResolver, *mockResolver) {
	repo := newMockRepo()
	groups := newMockResolver()
	categories := newMockResolver()
	return NewService(repo, groups, mockCategoryResolver{categories}), repo, groups, categories
}

func TestCreateProduct(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	form := ProductForm{ProductCode: "P001", ProductName: "Herbal Soap", GroupID: 1, CategoryID: 1, PV: 5, UnitPrice: 12.5}
	created, err := svc.Create(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, shared.StatusActive, created.Status)

	t.Run("duplicate code rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, form)
		assert.ErrorIs(t, err, httpx.ErrDuplicate)
	})

	t.Run("missing code rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, ProductForm{ProductName: "X", GroupID: 1, CategoryID: 1})
		assert.ErrorIs(t, err, httpx.ErrValidation)
	})
}

func TestDeleteProductRequiresInactive(t *testing.T) {
	svc, repo, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, ProductForm{ProductCode: "P001", ProductName: "Herbal Soap", GroupID: 1, CategoryID: 1})
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, httpx.ErrConflict)

	retired := repo.byID[created.ID]
	retired.Status = shared.StatusInactive
	repo.byID[created.ID] = retired

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImport(t *testing.T) {
	svc, repo, groups, categories := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductForm{ProductCode: "DUP1", ProductName: "Existing", GroupID: 1, CategoryID: 1})
	require.NoError(t, err)

	buf := buildWorkbook(t, [][]interface{}{
		{"productCode", "productName", "groupName", "categoryName", "pv", "unitPrice"},
		{"P100", "Green Tea", "Beverages", "Tea", 3, 10},
		{"P101", "Black Tea", "Beverages", "Tea", 4, "11.5"},
		{"DUP1", "Existing", "Beverages", "Tea", 1, 1},
		{"P102", "", "Beverages", "Tea", 1, 1},
		{"P103", "No Group", "", "Tea", 1, 1},
	})

	result, err := svc.Import(ctx, buf)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 3, result.Skipped)
	require.Len(t, result.Errors, 3)

	imported, err := repo.FindByCode(ctx, "P101")
	require.NoError(t, err)
	assert.Equal(t, 11.5, imported.UnitPrice)
	assert.Equal(t, shared.StatusActive, imported.Status)

	// Beverages and Tea were created once each.
	assert.Len(t, groups.ids, 1)
	assert.Len(t, categories.ids, 1)
}

func TestImportMissingColumn(t *testing.T) {
	svc, _, _, _ := newTestService()

	buf := buildWorkbook(t, [][]interface{}{
		{"productCode", "productName", "groupName", "categoryName", "pv"},
		{"P100", "Green Tea", "Beverages", "Tea", 3},
	})

	_, err := svc.Import(context.Background(), buf)
	require.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "unitPrice")
}
