package categories

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
	List(ctx context.Context, filters shared.ListFilters) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	FindByName(ctx context.Context, name string) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id int64, category Category) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const categorySelect = `SELECT c.id, c.category_name, c.group_id, g.group_name, c.status, c.created_at, c.updated_at
	FROM categories c JOIN groups g ON g.id = c.group_id`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Category, error) {
	query := categorySelect + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.GroupID != nil {
		argCount++
		query += ` AND c.group_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.GroupID)
	}
	if filters.Search != "" {
		argCount++
		query += ` AND c.category_name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		query += ` AND c.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	query += ` ORDER BY c.category_name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.CategoryName, &c.GroupID, &c.GroupName, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, categorySelect+` WHERE c.id = $1`, id).
		Scan(&c.ID, &c.CategoryName, &c.GroupID, &c.GroupName, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.NotFound("category " + strconv.FormatInt(id, 10))
	}
	return c, err
}

func (r *repository) FindByName(ctx context.Context, name string) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, categorySelect+` WHERE c.category_name = $1`, name).
		Scan(&c.ID, &c.CategoryName, &c.GroupID, &c.GroupName, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.NotFound("category " + name)
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (category_name, group_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		category.CategoryName, category.GroupID, category.Status,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return Category{}, mapWriteError(err, category)
	}
	return category, nil
}

func (r *repository) Update(ctx context.Context, id int64, category Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET category_name = $1, group_id = $2, status = $3, updated_at = now()
		 WHERE id = $4`,
		category.CategoryName, category.GroupID, category.Status, id,
	)
	if err != nil {
		return mapWriteError(err, category)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("category " + strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("category " + strconv.FormatInt(id, 10))
	}
	return nil
}

func mapWriteError(err error, category Category) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return shared.Duplicate("category " + category.CategoryName)
		case "23503":
			return shared.Validation("group " + strconv.FormatInt(category.GroupID, 10) + " does not exist")
		}
	}
	return err
}
