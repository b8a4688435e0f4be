package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fightclub/internal/apperr"
	"fightclub/internal/db"

	"github.com/jmoiron/sqlx"
)

const subscriptionColumns = `id, athlete_id, plan_id, start_date, end_date, status, classes_used, created_at, updated_at`

const paymentColumns = `id, athlete_id, subscription_id, plan_id, amount, method, status, period_start, period_end,
	receipt_number, notes, void_reason, voided_at, created_at`

type store struct {
	q db.Queryer
}

// NewStore builds a Store over q, which may be the pool or an open transaction.
func NewStore(q db.Queryer) Store {
	return &store{q: q}
}

type repository struct {
	*store
	conn *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{store: &store{q: conn}, conn: conn}
}

func (r *repository) InTx(ctx context.Context, fn func(Store) error) error {
	return db.WithTx(ctx, r.conn, func(tx *sqlx.Tx) error {
		return fn(NewStore(tx))
	})
}

func (s *store) LockAthlete(ctx context.Context, athleteID int64) error {
	return db.AdvisoryXactLock(ctx, s.q, db.LockKey(db.LockNamespaceAthlete, athleteID))
}

func (s *store) LatestActiveEndingAfter(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE athlete_id = $1
		  AND status = 'ACTIVE'
		  AND end_date > $2
		ORDER BY end_date DESC
		LIMIT 1
	`
	return s.optionalSubscription(ctx, query, athleteID, t)
}

func (s *store) CurrentForAthlete(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE athlete_id = $1
		  AND status IN ('ACTIVE', 'EXPIRED')
		  AND start_date <= $2
		ORDER BY (status = 'ACTIVE' AND (end_date IS NULL OR end_date >= $2)) DESC,
		         start_date DESC, id DESC
		LIMIT 1
	`
	return s.optionalSubscription(ctx, query, athleteID, t)
}

func (s *store) ActiveBonoForAthlete(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error) {
	query := `
		SELECT s.id, s.athlete_id, s.plan_id, s.start_date, s.end_date, s.status, s.classes_used, s.created_at, s.updated_at
		FROM subscriptions s
		JOIN membership_plans p ON p.id = s.plan_id
		WHERE s.athlete_id = $1
		  AND s.status = 'ACTIVE'
		  AND p.class_count IS NOT NULL
		  AND s.start_date <= $2
		  AND (s.end_date IS NULL OR s.end_date >= $2)
		ORDER BY s.start_date, s.id
		LIMIT 1
		FOR UPDATE OF s
	`
	return s.optionalSubscription(ctx, query, athleteID, t)
}

func (s *store) optionalSubscription(ctx context.Context, query string, args ...interface{}) (*Subscription, error) {
	var sub Subscription
	err := sqlx.GetContext(ctx, s.q, &sub, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query subscription: %w", err)
	}
	return &sub, nil
}

func (s *store) CreateSubscription(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO subscriptions (athlete_id, plan_id, start_date, end_date, status, classes_used)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + subscriptionColumns

	err := sqlx.GetContext(ctx, s.q, sub, query,
		sub.AthleteID, sub.PlanID, sub.StartDate, sub.EndDate, sub.Status, sub.ClassesUsed)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *store) GetSubscription(ctx context.Context, id int64) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	var sub Subscription
	err := sqlx.GetContext(ctx, s.q, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription %d: %w", id, err)
	}
	return &sub, nil
}

func (s *store) CancelSubscription(ctx context.Context, id int64) error {
	query := `
		UPDATE subscriptions
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1
	`
	if _, err := s.q.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("cancel subscription %d: %w", id, err)
	}
	return nil
}

func (s *store) IncrementClassesUsed(ctx context.Context, id int64) (*Subscription, error) {
	query := `
		UPDATE subscriptions s
		SET classes_used = s.classes_used + 1,
		    status = CASE WHEN s.classes_used + 1 >= p.class_count THEN 'EXPIRED' ELSE s.status END,
		    updated_at = NOW()
		FROM membership_plans p
		WHERE s.id = $1
		  AND p.id = s.plan_id
		  AND p.class_count IS NOT NULL
		  AND s.status = 'ACTIVE'
		RETURNING s.id, s.athlete_id, s.plan_id, s.start_date, s.end_date, s.status, s.classes_used, s.created_at, s.updated_at
	`

	var sub Subscription
	err := sqlx.GetContext(ctx, s.q, &sub, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotActive
	}
	if err != nil {
		return nil, fmt.Errorf("consume class on subscription %d: %w", id, err)
	}
	return &sub, nil
}

func (s *store) ListByAthlete(ctx context.Context, athleteID int64) ([]Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE athlete_id = $1
		ORDER BY start_date DESC, id DESC
	`

	subs := []Subscription{}
	if err := sqlx.SelectContext(ctx, s.q, &subs, query, athleteID); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *store) CreatePayment(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (athlete_id, subscription_id, plan_id, amount, method, status,
		                      period_start, period_end, receipt_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + paymentColumns

	err := sqlx.GetContext(ctx, s.q, p, query,
		p.AthleteID, p.SubscriptionID, p.PlanID, p.Amount, p.Method, p.Status,
		p.PeriodStart, p.PeriodEnd, p.ReceiptNumber, p.Notes)
	if db.IsUniqueViolation(err) {
		return apperr.Conflict("receipt number %s already used", p.ReceiptNumber)
	}
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (s *store) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	return s.getPayment(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
}

func (s *store) GetPaymentForUpdate(ctx context.Context, id int64) (*Payment, error) {
	return s.getPayment(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, id)
}

func (s *store) getPayment(ctx context.Context, query string, id int64) (*Payment, error) {
	var p Payment
	err := sqlx.GetContext(ctx, s.q, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return &p, nil
}

func (s *store) MarkPaymentVoid(ctx context.Context, id int64, reason *string, at time.Time) (*Payment, error) {
	query := `
		UPDATE payments
		SET status = 'VOID', void_reason = $2, voided_at = $3
		WHERE id = $1 AND status = 'PAID'
		RETURNING ` + paymentColumns

	var p Payment
	err := sqlx.GetContext(ctx, s.q, &p, query, id, reason, at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentAlreadyVoided
	}
	if err != nil {
		return nil, fmt.Errorf("void payment %d: %w", id, err)
	}
	return &p, nil
}

func (s *store) ListPaymentsByAthlete(ctx context.Context, athleteID int64) ([]Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE athlete_id = $1
		ORDER BY created_at DESC, id DESC
	`

	payments := []Payment{}
	if err := sqlx.SelectContext(ctx, s.q, &payments, query, athleteID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
