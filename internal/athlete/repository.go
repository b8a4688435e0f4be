package athlete

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const athleteColumns = `id, first_name, last_name, email, phone, level, active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreateAthleteRequest) (*Athlete, error) {
	query := `
		INSERT INTO athletes (first_name, last_name, email, phone, level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + athleteColumns

	var a Athlete
	err := r.db.GetContext(ctx, &a, query, req.FirstName, req.LastName, req.Email, req.Phone, req.Level)
	if err != nil {
		return nil, fmt.Errorf("insert athlete: %w", err)
	}
	return &a, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Athlete, error) {
	query := `SELECT ` + athleteColumns + ` FROM athletes WHERE id = $1`

	var a Athlete
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAthleteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get athlete %d: %w", id, err)
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Athlete, error) {
	query := `
		SELECT ` + athleteColumns + `
		FROM athletes
		WHERE ($1 = FALSE OR active)
		ORDER BY last_name, first_name, id
	`

	athletes := []Athlete{}
	if err := r.db.SelectContext(ctx, &athletes, query, activeOnly); err != nil {
		return nil, fmt.Errorf("list athletes: %w", err)
	}
	return athletes, nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) (*Athlete, error) {
	query := `
		UPDATE athletes
		SET active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + athleteColumns

	var a Athlete
	err := r.db.GetContext(ctx, &a, query, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAthleteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update athlete %d: %w", id, err)
	}
	return &a, nil
}
