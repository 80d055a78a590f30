package users

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	mdshared "github.com/sabai-pos/sabai-pos/internal/masterdata/shared"
)

type Repository interface {
	List(ctx context.Context, filters mdshared.ListFilters) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, id int64, user User) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const userSelect = `SELECT u.id, u.username, u.last_name, u.password_hash, u.role, u.branch_code,
	b.branch_name, b.address, u.status, u.created_at, u.updated_at
	FROM users u JOIN branches b ON b.branch_code = u.branch_code`

func (r *repository) List(ctx context.Context, filters mdshared.ListFilters) ([]User, error) {
	query := userSelect + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND (u.username ILIKE $` + strconv.Itoa(argCount) + ` OR u.last_name ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		query += ` AND u.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	query += ` ORDER BY u.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, mdshared.NotFound("user " + strconv.FormatInt(id, 10))
	}
	return u, err
}

func (r *repository) Create(ctx context.Context, user User) (User, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, last_name, password_hash, role, branch_code, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		user.Username, user.LastName, user.PasswordHash, user.Role, user.BranchCode, user.Status,
	).Scan(&user.ID)
	if err != nil {
		return User{}, mapWriteError(err, user)
	}
	return r.Get(ctx, user.ID)
}

func (r *repository) Update(ctx context.Context, id int64, user User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET username = $1, last_name = $2, password_hash = $3, role = $4,
		 branch_code = $5, status = $6, updated_at = now()
		 WHERE id = $7`,
		user.Username, user.LastName, user.PasswordHash, user.Role, user.BranchCode, user.Status, id,
	)
	if err != nil {
		return mapWriteError(err, user)
	}
	if tag.RowsAffected() == 0 {
		return mdshared.NotFound("user " + strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mdshared.NotFound("user " + strconv.FormatInt(id, 10))
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.LastName, &u.PasswordHash, &u.Role, &u.BranchCode,
		&u.BranchName, &u.Address, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func mapWriteError(err error, user User) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return mdshared.Duplicate("username " + user.Username)
		case "23503":
			return mdshared.Validation("branch " + user.BranchCode + " does not exist")
		}
	}
	return err
}
