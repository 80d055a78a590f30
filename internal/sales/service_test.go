package sales

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/products"
	mdshared "github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
	"github.com/sabai-pos/sabai-pos/internal/shared"
)

type mockRepo struct {
	mu         sync.Mutex
	counters   map[string]int64
	sales      map[int64]Sale
	nextID     int64
	failInsert error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		counters: make(map[string]int64),
		sales:    make(map[int64]Sale),
		nextID:   1,
	}
}

func (m *mockRepo) NextBillNumber(_ context.Context, purchaseType, branchCode string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := purchaseType + "_" + branchCode
	m.counters[key]++
	return fmt.Sprintf("%s-%s-%08d", purchaseType, branchCode, m.counters[key]), nil
}

func (m *mockRepo) InsertSale(_ context.Context, sale Sale) (Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return Sale{}, m.failInsert
	}
	sale.ID = m.nextID
	m.nextID++
	m.sales[sale.ID] = sale
	return sale, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sale, ok := m.sales[id]
	if !ok {
		return Sale{}, ErrNotFound
	}
	return sale, nil
}

func (m *mockRepo) Cancel(_ context.Context, id int64, actor string) (Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sale, ok := m.sales[id]
	if !ok {
		return Sale{}, ErrNotFound
	}
	if sale.BillStatus != StatusCompleted {
		return Sale{}, ErrAlreadyCanceled
	}
	sale.BillStatus = StatusCanceled
	sale.CancelBy = &actor
	m.sales[id] = sale
	return sale, nil
}

func (m *mockRepo) counter(purchaseType, branchCode string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[purchaseType+"_"+branchCode]
}

type mockCatalog struct {
	codes map[string]bool
}

func (m *mockCatalog) FindByCode(_ context.Context, code string) (products.Product, error) {
	if !m.codes[code] {
		return products.Product{}, mdshared.NotFound("product " + code)
	}
	return products.Product{ProductCode: code, Status: mdshared.StatusActive}, nil
}

func newTestService(codes ...string) (*Service, *mockRepo) {
	repo := newMockRepo()
	catalog := &mockCatalog{codes: make(map[string]bool)}
	for _, c := range codes {
		catalog.codes[c] = true
	}
	return NewService(repo, catalog, nil), repo
}

func cashier(branch string) *shared.Identity {
	return &shared.Identity{UserID: 1, Username: "somchai", Role: shared.RoleCashier, BranchCode: branch}
}

func saleRequest(purchaseType string, items ...SaleItemRequest) CreateSaleRequest {
	return CreateSaleRequest{
		MemberID:     "M001",
		MemberName:   "Dara",
		PurchaseType: purchaseType,
		Items:        items,
	}
}

func TestConcurrentSalesDistinctBillNumbers(t *testing.T) {
	svc, _ := newTestService("P001")
	ctx := context.Background()
	const n = 100

	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			sale, err := svc.CreateSale(ctx, cashier("PNH"), saleRequest("CMC",
				SaleItemRequest{ProductCode: "P001", UnitPrice: 10, PV: 1, Amount: 1}))
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[sale.BillNumber] {
				return fmt.Errorf("duplicate bill number %s", sale.BillNumber)
			}
			seen[sale.BillNumber] = true
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, seen, n)
}

func TestBillNumberFormatAndMonotonicity(t *testing.T) {
	svc, _ := newTestService("P001")
	ctx := context.Background()

	var last string
	for i := 1; i <= 7; i++ {
		sale, err := svc.CreateSale(ctx, cashier("PNH"), saleRequest("CMC",
			SaleItemRequest{ProductCode: "P001", UnitPrice: 10, PV: 1, Amount: 1}))
		require.NoError(t, err)
		expected := fmt.Sprintf("CMC-PNH-%08d", i)
		assert.Equal(t, expected, sale.BillNumber)
		assert.Greater(t, sale.BillNumber, last)
		last = sale.BillNumber
	}
	assert.Equal(t, "CMC-PNH-00000007", last)
}

func TestCounterKeysAreIndependent(t *testing.T) {
	svc, _ := newTestService("P001")
	ctx := context.Background()
	item := SaleItemRequest{ProductCode: "P001", UnitPrice: 10, PV: 1, Amount: 1}

	first, err := svc.CreateSale(ctx, cashier("PNH"), saleRequest("CMC", item))
	require.NoError(t, err)
	second, err := svc.CreateSale(ctx, cashier("PNH"), saleRequest("STK", item))
	require.NoError(t, err)
	third, err := svc.CreateSale(ctx, cashier("KCM"), saleRequest("CMC", item))
	require.NoError(t, err)

	assert.Equal(t, "CMC-PNH-00000001", first.BillNumber)
	assert.Equal(t, "STK-PNH-00000001", second.BillNumber)
	assert.Equal(t, "CMC-KCM-00000001", third.BillNumber)
}

func TestTotalsRecomputedServerSide(t *testing.T) {
	svc, _ := newTestService("P001", "P002")
	ctx := context.Background()

	// Client-sent aggregates are garbage on purpose; the persisted totals
	// must come from unitPrice*amount and pv*amount.
	sale, err := svc.CreateSale(ctx, cashier("PNH"), saleRequest("CMC",
		SaleItemRequest{ProductCode: "P001", UnitPrice: 10, PV: 2, Amount: 2, TotalPrice: 999, TotalPV: 999},
		SaleItemRequest{ProductCode: "P002", UnitPrice: 5, PV: 1, Amount: 3, TotalPrice: 999, TotalPV: 999},
	))
	require.NoError(t, err)

	assert.Equal(t, 35.0, sale.TotalPrice)
	assert.Equal(t, 7.0, sale.TotalPV)
	assert.Equal(t, 20.0, sale.Items[0].TotalPrice)
	assert.Equal(t, 4.0, sale.Items[0].TotalPV)
	assert.Equal(t, 15.0, sale.Items[1].TotalPrice)
	assert.Equal(t, StatusCompleted, sale.BillStatus)
	assert.Equal(t, "somchai", sale.RecordBy)
	assert.Equal(t, "PNH", sale.BranchCode)
}

func TestRejectionsConsumeNoSequence(t *testing.T) {
	svc, repo := newTestService("P001")
	ctx := context.Background()

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.CreateSale(ctx, cashier("PNH"), saleRequest("CMC",
			SaleItemRequest{ProductCode: "GHOST", UnitPrice: 10, Amount: 1}))
		require.ErrorIs(t, err, ErrProductNotFound)
		assert.Contains(t, err.Error(), "GHOST")
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := svc.CreateSale(ctx, cashier("PNH"), saleRequest("CMC",
			SaleItemRequest{ProductCode: "P001", UnitPrice: 10, Amount: 0}))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("missing member", func(t *testing.T) {
		req := saleRequest("CMC", SaleItemRequest{ProductCode: "P001", UnitPrice: 10, Amount: 1})
		req.MemberName = ""
		_, err := svc.CreateSale(ctx, cashier("PNH"), req)
		require.Error(t, err)
	})

	assert.Equal(t, int64(0), repo.counter("CMC", "PNH"))
}

func TestPersistFailureLeavesGap(t *testing.T) {
	svc, repo := newTestService("P001")
	ctx := context.Background()
	item := SaleItemRequest{ProductCode: "P001", UnitPrice: 10, PV: 1, Amount: 1}

	_, err := svc.CreateSale(ctx, cashier("KCM"), saleRequest("STK", item))
	require.NoError(t, err)

	repo.failInsert = errors.New("connection reset")
	_, err = svc.CreateSale(ctx, cashier("KCM"), saleRequest("STK", item))
	require.Error(t, err)

	// The failed attempt consumed 00000002; the retry gets 00000003.
	repo.failInsert = nil
	sale, err := svc.CreateSale(ctx, cashier("KCM"), saleRequest("STK", item))
	require.NoError(t, err)
	assert.Equal(t, "STK-KCM-00000003", sale.BillNumber)
}

func TestCancelSale(t *testing.T) {
	svc, _ := newTestService("P001")
	ctx := context.Background()

	sale, err := svc.CreateSale(ctx, cashier("PNH"), saleRequest("CMC",
		SaleItemRequest{ProductCode: "P001", UnitPrice: 10, PV: 1, Amount: 1}))
	require.NoError(t, err)

	admin := &shared.Identity{UserID: 2, Username: "boss", Role: shared.RoleAdmin, BranchCode: "PNH"}

	canceled, err := svc.CancelSale(ctx, admin, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, canceled.BillStatus)
	require.NotNil(t, canceled.CancelBy)
	assert.Equal(t, "boss", *canceled.CancelBy)

	_, err = svc.CancelSale(ctx, admin, sale.ID)
	assert.ErrorIs(t, err, ErrAlreadyCanceled)

	_, err = svc.CancelSale(ctx, admin, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSequencePerKeyEndToEnd(t *testing.T) {
	svc, _ := newTestService("P001")
	ctx := context.Background()
	item := SaleItemRequest{ProductCode: "P001", UnitPrice: 10, PV: 1, Amount: 1}

	first, err := svc.CreateSale(ctx, cashier("KCM"), saleRequest("STK", item))
	require.NoError(t, err)
	assert.Equal(t, "STK-KCM-00000001", first.BillNumber)

	second, err := svc.CreateSale(ctx, cashier("KCM"), saleRequest("STK", item))
	require.NoError(t, err)
	assert.Equal(t, "STK-KCM-00000002", second.BillNumber)
}
