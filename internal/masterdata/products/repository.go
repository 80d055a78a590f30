package products

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	ListActive(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	FindByCode(ctx context.Context, code string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productSelect = `SELECT p.id, p.product_code, p.product_name, p.group_id, g.group_name,
	p.category_id, c.category_name, p.pv, p.unit_price, p.status, p.created_at, p.updated_at
	FROM products p
	JOIN groups g ON g.id = p.group_id
	JOIN categories c ON c.id = p.category_id`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND (p.product_code ILIKE $` + strconv.Itoa(argCount) + ` OR p.product_name ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.GroupID != nil {
		argCount++
		where += ` AND p.group_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.GroupID)
	}
	if filters.CategoryID != nil {
		argCount++
		where += ` AND p.category_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.CategoryID)
	}
	if filters.Status != "" {
		argCount++
		where += ` AND p.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := productSelect + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset())
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListActive returns the sellable catalog for the sale screen.
func (r *repository) ListActive(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, productSelect+` WHERE p.status = 'Active' ORDER BY p.product_code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.NotFound("product " + strconv.FormatInt(id, 10))
	}
	return p, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.product_code = $1`, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.NotFound("product " + code)
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (product_code, product_name, group_id, category_id, pv, unit_price, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		product.ProductCode, product.ProductName, product.GroupID, product.CategoryID,
		product.PV, product.UnitPrice, product.Status,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return Product{}, mapWriteError(err, product)
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET product_code = $1, product_name = $2, group_id = $3, category_id = $4,
		 pv = $5, unit_price = $6, status = $7, updated_at = now()
		 WHERE id = $8`,
		product.ProductCode, product.ProductName, product.GroupID, product.CategoryID,
		product.PV, product.UnitPrice, product.Status, id,
	)
	if err != nil {
		return mapWriteError(err, product)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("product " + strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("product " + strconv.FormatInt(id, 10))
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.ProductCode, &p.ProductName, &p.GroupID, &p.GroupName,
		&p.CategoryID, &p.CategoryName, &p.PV, &p.UnitPrice, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "name":
		return "p.product_name " + dir
	case "price":
		return "p.unit_price " + dir
	default:
		return "p.product_code " + dir
	}
}

func mapWriteError(err error, product Product) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return shared.Duplicate("product code " + product.ProductCode)
		case "23503":
			return shared.Validation("group or category does not exist")
		}
	}
	return err
}
