package branches

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
	List(ctx context.Context, filters shared.ListFilters) ([]Branch, error)
	Get(ctx context.Context, id int64) (Branch, error)
	Create(ctx context.Context, branch Branch) (Branch, error)
	Update(ctx context.Context, id int64, branch Branch) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const branchColumns = `id, branch_code, branch_name, address, status, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND (branch_code ILIKE $` + strconv.Itoa(argCount) + ` OR branch_name ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.BranchCode, &b.BranchName, &b.Address, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Branch, error) {
	var b Branch
	err := r.db.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id).
		Scan(&b.ID, &b.BranchCode, &b.BranchName, &b.Address, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Branch{}, shared.NotFound("branch " + strconv.FormatInt(id, 10))
	}
	return b, err
}

func (r *repository) Create(ctx context.Context, branch Branch) (Branch, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO branches (branch_code, branch_name, address, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		branch.BranchCode, branch.BranchName, branch.Address, branch.Status,
	).Scan(&branch.ID, &branch.CreatedAt, &branch.UpdatedAt)
	if isUniqueViolation(err) {
		return Branch{}, shared.Duplicate("branch code " + branch.BranchCode)
	}
	return branch, err
}

func (r *repository) Update(ctx context.Context, id int64, branch Branch) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE branches SET branch_code = $1, branch_name = $2, address = $3, status = $4, updated_at = now()
		 WHERE id = $5`,
		branch.BranchCode, branch.BranchName, branch.Address, branch.Status, id,
	)
	if isUniqueViolation(err) {
		return shared.Duplicate("branch code " + branch.BranchCode)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("branch " + strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("branch " + strconv.FormatInt(id, 10))
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
