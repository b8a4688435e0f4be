package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fightclub/internal/clock"
	"fightclub/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	patternColumns = `id, name, type, days_of_week, start_time, end_time, capacity, color, level_required, created_at, updated_at`
	classColumns   = `id, pattern_id, name, type, day_of_week, start_time, end_time, capacity, color, level_required, active, created_at, updated_at`
)

type expansionStore struct {
	q db.Queryer
}

func (s *expansionStore) LockSlot(ctx context.Context, name string, day clock.Weekday, start clock.TimeOfDay) error {
	return db.AdvisoryXactLockText(ctx, s.q, slotKey(name, day, start))
}

func (s *expansionStore) FindActiveClass(ctx context.Context, name string, day clock.Weekday, start clock.TimeOfDay) (*Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes
		WHERE name = $1 AND day_of_week = $2 AND start_time = $3 AND active
	`

	var c Class
	err := sqlx.GetContext(ctx, s.q, &c, query, name, int64(day), start.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find class slot: %w", err)
	}
	return &c, nil
}

func (s *expansionStore) InsertClass(ctx context.Context, c *Class) (bool, error) {
	query := `
		INSERT INTO classes (pattern_id, name, type, day_of_week, start_time, end_time, capacity, color, level_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name, day_of_week, start_time) WHERE active DO NOTHING
		RETURNING ` + classColumns

	err := sqlx.GetContext(ctx, s.q, c, query,
		c.PatternID, c.Name, c.Type, int64(c.DayOfWeek), c.StartTime.String(), c.EndTime.String(),
		c.Capacity, c.Color, c.LevelRequired,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert class: %w", err)
	}
	return true, nil
}

func slotKey(name string, day clock.Weekday, start clock.TimeOfDay) string {
	return fmt.Sprintf("class-slot:%s:%d:%s", name, int(day), start)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InExpansion(ctx context.Context, fn func(ExpansionStore) error) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&expansionStore{q: tx})
	})
}

func (r *repository) CreatePattern(ctx context.Context, p *ClassPattern) error {
	query := `
		INSERT INTO class_patterns (name, type, days_of_week, start_time, end_time, capacity, color, level_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + patternColumns

	err := r.db.GetContext(ctx, p, query,
		p.Name, p.Type, p.DaysOfWeek, p.StartTime.String(), p.EndTime.String(), p.Capacity, p.Color, p.LevelRequired,
	)
	if err != nil {
		return fmt.Errorf("insert pattern: %w", err)
	}
	return nil
}

func (r *repository) UpdatePattern(ctx context.Context, p *ClassPattern) error {
	query := `
		UPDATE class_patterns
		SET name = $2, type = $3, days_of_week = $4, start_time = $5, end_time = $6,
		    capacity = $7, color = $8, level_required = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + patternColumns

	err := r.db.GetContext(ctx, p, query,
		p.ID, p.Name, p.Type, p.DaysOfWeek, p.StartTime.String(), p.EndTime.String(), p.Capacity, p.Color, p.LevelRequired,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPatternNotFound
	}
	if err != nil {
		return fmt.Errorf("update pattern %d: %w", p.ID, err)
	}
	return nil
}

func (r *repository) GetPattern(ctx context.Context, id int64) (*ClassPattern, error) {
	query := `SELECT ` + patternColumns + ` FROM class_patterns WHERE id = $1`

	var p ClassPattern
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPatternNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pattern %d: %w", id, err)
	}
	return &p, nil
}

func (r *repository) ListPatterns(ctx context.Context) ([]ClassPattern, error) {
	query := `SELECT ` + patternColumns + ` FROM class_patterns ORDER BY name, start_time, id`

	patterns := []ClassPattern{}
	if err := r.db.SelectContext(ctx, &patterns, query); err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	return patterns, nil
}

// DeletePattern removes the template only; classes keep existing with a
// NULL pattern_id.
func (r *repository) DeletePattern(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM class_patterns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete pattern %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pattern %d: %w", id, err)
	}
	if n == 0 {
		return ErrPatternNotFound
	}
	return nil
}

func (r *repository) CreateClass(ctx context.Context, c *Class, coachIDs []int64) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO classes (pattern_id, name, type, day_of_week, start_time, end_time, capacity, color, level_required)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + classColumns

		err := tx.GetContext(ctx, c, query,
			c.PatternID, c.Name, c.Type, int64(c.DayOfWeek), c.StartTime.String(), c.EndTime.String(),
			c.Capacity, c.Color, c.LevelRequired,
		)
		if db.IsUniqueViolation(err) {
			return ErrClassSlotTaken
		}
		if err != nil {
			return fmt.Errorf("insert class: %w", err)
		}
		return insertCoaches(ctx, tx, c.ID, coachIDs)
	})
}

func (r *repository) GetClass(ctx context.Context, id int64) (*Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`

	var c Class
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get class %d: %w", id, err)
	}
	return &c, nil
}

func (r *repository) ListClasses(ctx context.Context, day *clock.Weekday, activeOnly bool) ([]Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM classes
		WHERE ($1::smallint IS NULL OR day_of_week = $1)
		  AND ($2 = FALSE OR active)
		ORDER BY day_of_week, start_time, name, id
	`

	var dayArg interface{}
	if day != nil {
		dayArg = int64(*day)
	}

	classes := []Class{}
	if err := r.db.SelectContext(ctx, &classes, query, dayArg, activeOnly); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

func (r *repository) SetClassActive(ctx context.Context, id int64, active bool) (*Class, error) {
	query := `
		UPDATE classes
		SET active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + classColumns

	var c Class
	err := r.db.GetContext(ctx, &c, query, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if db.IsUniqueViolation(err) {
		return nil, ErrClassSlotTaken
	}
	if err != nil {
		return nil, fmt.Errorf("update class %d: %w", id, err)
	}
	return &c, nil
}

func (r *repository) ReplaceCoaches(ctx context.Context, classID int64, coachIDs []int64) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM class_coaches WHERE class_id = $1`, classID); err != nil {
			return fmt.Errorf("clear coaches of class %d: %w", classID, err)
		}
		return insertCoaches(ctx, tx, classID, coachIDs)
	})
}

func insertCoaches(ctx context.Context, q db.Queryer, classID int64, coachIDs []int64) error {
	if len(coachIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO class_coaches (class_id, coach_id)
		SELECT $1, unnest($2::bigint[])
	`
	if _, err := q.ExecContext(ctx, query, classID, pq.Array(coachIDs)); err != nil {
		return fmt.Errorf("assign coaches to class %d: %w", classID, err)
	}
	return nil
}

func (r *repository) CoachesForClasses(ctx context.Context, classIDs []int64) (map[int64][]CoachRef, error) {
	out := make(map[int64][]CoachRef, len(classIDs))
	if len(classIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT cc.class_id, c.id, c.name
		FROM class_coaches cc
		JOIN coaches c ON c.id = cc.coach_id
		WHERE cc.class_id = ANY($1)
		ORDER BY cc.class_id, c.name, c.id
	`

	var rows []struct {
		ClassID int64 `db:"class_id"`
		CoachRef
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(classIDs)); err != nil {
		return nil, fmt.Errorf("load class coaches: %w", err)
	}
	for _, row := range rows {
		out[row.ClassID] = append(out[row.ClassID], row.CoachRef)
	}
	return out, nil
}

func (r *repository) UpsertOverride(ctx context.Context, classID int64, day string, coachID int64) (*Override, error) {
	query := `
		WITH upserted AS (
			INSERT INTO schedule_overrides (class_id, override_date, coach_id)
			VALUES ($1, $2::date, $3)
			ON CONFLICT (class_id, override_date)
			DO UPDATE SET coach_id = EXCLUDED.coach_id, created_at = NOW()
			RETURNING class_id, override_date, coach_id, created_at
		)
		SELECT u.class_id, to_char(u.override_date, 'YYYY-MM-DD') AS override_date,
		       u.coach_id, c.name AS coach_name, u.created_at
		FROM upserted u
		JOIN coaches c ON c.id = u.coach_id
	`

	var o Override
	if err := r.db.GetContext(ctx, &o, query, classID, day, coachID); err != nil {
		return nil, fmt.Errorf("upsert override for class %d on %s: %w", classID, day, err)
	}
	return &o, nil
}

// DeleteOverride succeeds whether or not an override existed.
func (r *repository) DeleteOverride(ctx context.Context, classID int64, day string) error {
	query := `DELETE FROM schedule_overrides WHERE class_id = $1 AND override_date = $2::date`
	if _, err := r.db.ExecContext(ctx, query, classID, day); err != nil {
		return fmt.Errorf("delete override for class %d on %s: %w", classID, day, err)
	}
	return nil
}

func (r *repository) OverridesBetween(ctx context.Context, from, to string) ([]Override, error) {
	query := `
		SELECT o.class_id, to_char(o.override_date, 'YYYY-MM-DD') AS override_date,
		       o.coach_id, c.name AS coach_name, o.created_at
		FROM schedule_overrides o
		JOIN coaches c ON c.id = o.coach_id
		WHERE o.override_date BETWEEN $1::date AND $2::date
		ORDER BY o.override_date, o.class_id
	`

	overrides := []Override{}
	if err := r.db.SelectContext(ctx, &overrides, query, from, to); err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return overrides, nil
}
