package coach

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const coachColumns = `id, name, email, active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreateCoachRequest) (*Coach, error) {
	query := `
		INSERT INTO coaches (name, email)
		VALUES ($1, $2)
		RETURNING ` + coachColumns

	var c Coach
	if err := r.db.GetContext(ctx, &c, query, req.Name, req.Email); err != nil {
		return nil, fmt.Errorf("insert coach: %w", err)
	}
	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches WHERE id = $1`

	var c Coach
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get coach %d: %w", id, err)
	}
	return &c, nil
}

// GetByIDs returns the coaches that exist among ids, ordered by id.
func (r *repository) GetByIDs(ctx context.Context, ids []int64) ([]Coach, error) {
	coaches := []Coach{}
	if len(ids) == 0 {
		return coaches, nil
	}

	query := `SELECT ` + coachColumns + ` FROM coaches WHERE id = ANY($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &coaches, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("get coaches: %w", err)
	}
	return coaches, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Coach, error) {
	query := `
		SELECT ` + coachColumns + `
		FROM coaches
		WHERE ($1 = FALSE OR active)
		ORDER BY name, id
	`

	coaches := []Coach{}
	if err := r.db.SelectContext(ctx, &coaches, query, activeOnly); err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	return coaches, nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) (*Coach, error) {
	query := `
		UPDATE coaches
		SET active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + coachColumns

	var c Coach
	err := r.db.GetContext(ctx, &c, query, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCoachNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update coach %d: %w", id, err)
	}
	return &c, nil
}
