package groups

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
	List(ctx context.Context, filters shared.ListFilters) ([]Group, error)
	Get(ctx context.Context, id int64) (Group, error)
	FindByName(ctx context.Context, name string) (Group, error)
	Create(ctx context.Context, group Group) (Group, error)
	Update(ctx context.Context, id int64, group Group) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const groupColumns = `id, group_name, status, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND group_name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	query += ` ORDER BY group_name ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.GroupName, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Group, error) {
	var g Group
	err := r.db.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id).
		Scan(&g.ID, &g.GroupName, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Group{}, shared.NotFound("group " + strconv.FormatInt(id, 10))
	}
	return g, err
}

func (r *repository) FindByName(ctx context.Context, name string) (Group, error) {
	var g Group
	err := r.db.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups WHERE group_name = $1`, name).
		Scan(&g.ID, &g.GroupName, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Group{}, shared.NotFound("group " + name)
	}
	return g, err
}

func (r *repository) Create(ctx context.Context, group Group) (Group, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO groups (group_name, status) VALUES ($1, $2) RETURNING id, created_at, updated_at`,
		group.GroupName, group.Status,
	).Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if isUniqueViolation(err) {
		return Group{}, shared.Duplicate("group " + group.GroupName)
	}
	return group, err
}

func (r *repository) Update(ctx context.Context, id int64, group Group) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE groups SET group_name = $1, status = $2, updated_at = now() WHERE id = $3`,
		group.GroupName, group.Status, id,
	)
	if isUniqueViolation(err) {
		return shared.Duplicate("group " + group.GroupName)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("group " + strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("group " + strconv.FormatInt(id, 10))
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
