package reports

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sabai-pos/sabai-pos/internal/sales"
)

type Repository interface {
	ListBills(ctx context.Context, q BillQuery) ([]sales.Sale, error)
	Summarize(ctx context.Context, q SummaryQuery, tz string) ([]SummaryRow, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListBills(ctx context.Context, q BillQuery) ([]sales.Sale, error) {
	query := `SELECT id, bill_number, member_id, member_name, purchase_type, branch_code,
		total_price, total_pv, bill_status, record_by, cancel_by, canceled_at, created_at
		FROM orders WHERE created_at >= $1 AND created_at <= $2`
	args := []interface{}{q.Start, q.End}
	argCount := 2

	if q.BranchCode != "" {
		argCount++
		query += ` AND branch_code = $` + strconv.Itoa(argCount)
		args = append(args, q.BranchCode)
	}
	if q.BillStatus != "" {
		argCount++
		query += ` AND bill_status = $` + strconv.Itoa(argCount)
		args = append(args, q.BillStatus)
	}
	if q.BillType != "" {
		argCount++
		query += ` AND purchase_type = $` + strconv.Itoa(argCount)
		args = append(args, q.BillType)
	}
	if q.BillNumber != "" {
		argCount++
		query += ` AND bill_number ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+q.BillNumber+"%")
	}
	if q.MemberName != "" {
		argCount++
		query += ` AND member_name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+q.MemberName+"%")
	}
	if q.RecordBy != "" {
		argCount++
		query += ` AND record_by ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+q.RecordBy+"%")
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []sales.Sale
	var ids []int64
	for rows.Next() {
		var s sales.Sale
		if err := rows.Scan(&s.ID, &s.BillNumber, &s.MemberID, &s.MemberName, &s.PurchaseType,
			&s.BranchCode, &s.TotalPrice, &s.TotalPV, &s.BillStatus, &s.RecordBy,
			&s.CancelBy, &s.CanceledAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		bills = append(bills, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return bills, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bills {
		bills[i].Items = items[bills[i].ID]
	}
	return bills, nil
}

func (r *repository) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]sales.SaleItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, id, product_code, product_name, unit_price, pv, amount, total_price, total_pv
		FROM order_items WHERE order_id = ANY($1) ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]sales.SaleItem)
	for rows.Next() {
		var orderID int64
		var it sales.SaleItem
		if err := rows.Scan(&orderID, &it.ID, &it.ProductCode, &it.ProductName, &it.UnitPrice,
			&it.PV, &it.Amount, &it.TotalPrice, &it.TotalPV); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], it)
	}
	return items, rows.Err()
}

// Summarize groups completed bills the way the daily sales report expects:
// one row per (purchase type, branch, cashier, recorded second), timestamps
// rendered in the report timezone.
func (r *repository) Summarize(ctx context.Context, q SummaryQuery, tz string) ([]SummaryRow, error) {
	query := `SELECT purchase_type, branch_code, record_by,
		to_char(created_at AT TIME ZONE $1, 'YYYY-MM-DD HH24:MI:SS') AS sold_at,
		COUNT(*), SUM(total_price)
		FROM orders
		WHERE bill_status = 'Completed' AND created_at >= $2 AND created_at <= $3`
	args := []interface{}{tz, q.Start, q.End}
	argCount := 3

	if q.BranchCode != "" {
		argCount++
		query += ` AND branch_code = $` + strconv.Itoa(argCount)
		args = append(args, q.BranchCode)
	}
	if q.RecordBy != "" {
		argCount++
		query += ` AND record_by ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+q.RecordBy+"%")
	}

	query += ` GROUP BY purchase_type, branch_code, record_by, sold_at ORDER BY sold_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.BillType, &row.BranchCode, &row.RecordBy, &row.StartDate,
			&row.BillAmount, &row.TotalPrice); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
