package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const planColumns = `id, name, description, price, duration_days, class_count, weekly_limit, active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req PlanRequest) (*Plan, error) {
	query := `
		INSERT INTO membership_plans (name, description, price, duration_days, class_count, weekly_limit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + planColumns

	var p Plan
	err := r.db.GetContext(ctx, &p, query,
		req.Name, req.Description, req.Price, req.DurationDays, req.ClassCount, req.WeeklyLimit)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error) {
	query := `
		UPDATE membership_plans
		SET name = $2, description = $3, price = $4,
		    duration_days = $5, class_count = $6, weekly_limit = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + planColumns

	var p Plan
	err := r.db.GetContext(ctx, &p, query,
		id, req.Name, req.Description, req.Price, req.DurationDays, req.ClassCount, req.WeeklyLimit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update plan %d: %w", id, err)
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	query := `SELECT ` + planColumns + ` FROM membership_plans WHERE id = $1`

	var p Plan
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %d: %w", id, err)
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM membership_plans
		WHERE ($1 = FALSE OR active)
		ORDER BY name, id
	`

	plans := []Plan{}
	if err := r.db.SelectContext(ctx, &plans, query, activeOnly); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) (*Plan, error) {
	query := `
		UPDATE membership_plans
		SET active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + planColumns

	var p Plan
	err := r.db.GetContext(ctx, &p, query, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update plan %d: %w", id, err)
	}
	return &p, nil
}
