package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists bills and issues bill numbers.
type Repository interface {
	// NextBillNumber atomically increments the counter for the
	// (purchaseType, branchCode) pair and returns the formatted bill number.
	// The increment and the read happen in a single statement; concurrent
	// callers always observe distinct values. On error nothing is consumed.
	NextBillNumber(ctx context.Context, purchaseType, branchCode string) (string, error)
	// InsertSale writes the order and its item snapshots in one transaction.
	InsertSale(ctx context.Context, sale Sale) (Sale, error)
	Get(ctx context.Context, id int64) (Sale, error)
	// Cancel flips a Completed bill to Canceled. ErrAlreadyCanceled when the
	// transition already happened, ErrNotFound when the id is unknown.
	Cancel(ctx context.Context, id int64, actor string) (Sale, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) NextBillNumber(ctx context.Context, purchaseType, branchCode string) (string, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO bill_counters (purchase_type, branch_code, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (purchase_type, branch_code)
		DO UPDATE SET seq = bill_counters.seq + 1
		RETURNING seq
	`, purchaseType, branchCode).Scan(&seq)
	if err != nil {
		return "", fmt.Errorf("issue bill number: %w", err)
	}
	return fmt.Sprintf("%s-%s-%08d", purchaseType, branchCode, seq), nil
}

func (r *repository) InsertSale(ctx context.Context, sale Sale) (Sale, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Sale{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (bill_number, member_id, member_name, purchase_type, branch_code,
			total_price, total_pv, bill_status, record_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, sale.BillNumber, sale.MemberID, sale.MemberName, sale.PurchaseType, sale.BranchCode,
		sale.TotalPrice, sale.TotalPV, sale.BillStatus, sale.RecordBy,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return Sale{}, fmt.Errorf("insert order: %w", err)
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_code, product_name, unit_price, pv, amount, total_price, total_pv)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		`, sale.ID, item.ProductCode, item.ProductName, item.UnitPrice, item.PV,
			item.Amount, item.TotalPrice, item.TotalPV,
		).Scan(&item.ID)
		if err != nil {
			return Sale{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Sale{}, err
	}
	return sale, nil
}

const saleColumns = `id, bill_number, member_id, member_name, purchase_type, branch_code,
	total_price, total_pv, bill_status, record_by, cancel_by, canceled_at, created_at`

func (r *repository) Get(ctx context.Context, id int64) (Sale, error) {
	sale, err := scanSale(r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, ErrNotFound
		}
		return Sale{}, err
	}
	items, err := r.itemsFor(ctx, sale.ID)
	if err != nil {
		return Sale{}, err
	}
	sale.Items = items
	return sale, nil
}

func (r *repository) Cancel(ctx context.Context, id int64, actor string) (Sale, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET bill_status = $1, cancel_by = $2, canceled_at = now()
		WHERE id = $3 AND bill_status = $4
	`, StatusCanceled, actor, id, StatusCompleted)
	if err != nil {
		return Sale{}, err
	}
	if tag.RowsAffected() == 0 {
		// Either the bill does not exist or it already left Completed.
		if _, err := r.Get(ctx, id); err != nil {
			return Sale{}, err
		}
		return Sale{}, ErrAlreadyCanceled
	}
	return r.Get(ctx, id)
}

func (r *repository) itemsFor(ctx context.Context, orderID int64) ([]SaleItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_code, product_name, unit_price, pv, amount, total_price, total_pv
		FROM order_items WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SaleItem
	for rows.Next() {
		var it SaleItem
		if err := rows.Scan(&it.ID, &it.ProductCode, &it.ProductName, &it.UnitPrice, &it.PV,
			&it.Amount, &it.TotalPrice, &it.TotalPV); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.BillNumber, &s.MemberID, &s.MemberName, &s.PurchaseType, &s.BranchCode,
		&s.TotalPrice, &s.TotalPV, &s.BillStatus, &s.RecordBy, &s.CancelBy, &s.CanceledAt, &s.CreatedAt)
	return s, err
}
