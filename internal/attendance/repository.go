package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fightclub/internal/clock"
	"fightclub/internal/db"
	"fightclub/internal/subscription"

	"github.com/jmoiron/sqlx"
)

const attendanceColumns = `id, athlete_id, class_id, to_char(attended_on, 'YYYY-MM-DD') AS attended_on, created_at`

type txStore struct {
	q db.Queryer
}

func (s *txStore) Insert(ctx context.Context, athleteID, classID int64, day string) (*Attendance, bool, error) {
	insert := `
		INSERT INTO attendances (athlete_id, class_id, attended_on)
		VALUES ($1, $2, $3::date)
		ON CONFLICT (athlete_id, class_id, attended_on) DO NOTHING
		RETURNING ` + attendanceColumns

	var att Attendance
	err := sqlx.GetContext(ctx, s.q, &att, insert, athleteID, classID, day)
	if err == nil {
		return &att, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("insert attendance: %w", err)
	}

	existing := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE athlete_id = $1 AND class_id = $2 AND attended_on = $3::date
	`
	if err := sqlx.GetContext(ctx, s.q, &att, existing, athleteID, classID, day); err != nil {
		return nil, false, fmt.Errorf("load existing attendance: %w", err)
	}
	return &att, false, nil
}

func (s *txStore) Subscriptions() subscription.Store {
	return subscription.NewStore(s.q)
}

type repository struct {
	conn *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{conn: conn}
}

func (r *repository) InTx(ctx context.Context, fn func(Store) error) error {
	return db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		return fn(&txStore{q: tx})
	})
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	var att Attendance
	err := r.conn.GetContext(ctx, &att, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttendanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attendance %d: %w", id, err)
	}
	return &att, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete attendance %d: %w", id, err)
	}
	if n == 0 {
		return ErrAttendanceNotFound
	}
	return nil
}

func (r *repository) Roster(ctx context.Context, classID int64, day string) ([]RosterEntry, error) {
	query := `
		SELECT att.id, att.athlete_id, att.class_id, to_char(att.attended_on, 'YYYY-MM-DD') AS attended_on, att.created_at,
		       a.first_name, a.last_name
		FROM attendances att
		JOIN athletes a ON a.id = att.athlete_id
		WHERE att.class_id = $1 AND att.attended_on = $2::date
		ORDER BY a.last_name, a.first_name
	`

	roster := []RosterEntry{}
	if err := r.conn.SelectContext(ctx, &roster, query, classID, day); err != nil {
		return nil, fmt.Errorf("class roster: %w", err)
	}
	return roster, nil
}

// CountForAthleteBetween counts attendances whose civil day lies in
// [from, to], both read as calendar days in their own location.
func (r *repository) CountForAthleteBetween(ctx context.Context, athleteID int64, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM attendances
		WHERE athlete_id = $1
		  AND attended_on BETWEEN $2::date AND $3::date
	`

	var n int
	if err := r.conn.GetContext(ctx, &n, query, athleteID, clock.DateKey(from), clock.DateKey(to)); err != nil {
		return 0, fmt.Errorf("count attendances: %w", err)
	}
	return n, nil
}
