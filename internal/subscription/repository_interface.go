package subscription

import (
	"context"
	"time"
)

// Store is the set of subscription and payment queries. The same Store can be
// backed by the pool or by a single transaction.
type Store interface {
	// LockAthlete serializes payment registration for one athlete until the
	// surrounding transaction ends.
	LockAthlete(ctx context.Context, athleteID int64) error

	// LatestActiveEndingAfter returns the ACTIVE subscription with the latest
	// end date after t, or nil when there is none.
	LatestActiveEndingAfter(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error)

	// CurrentForAthlete returns the ACTIVE subscription covering t. When none
	// covers t it falls back to the most recently started ACTIVE or EXPIRED
	// subscription that had started by t, or nil.
	CurrentForAthlete(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error)

	// ActiveBonoForAthlete returns the oldest ACTIVE class-count subscription
	// valid at t, locked for update, or nil.
	ActiveBonoForAthlete(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error)

	CreateSubscription(ctx context.Context, sub *Subscription) error
	GetSubscription(ctx context.Context, id int64) (*Subscription, error)
	CancelSubscription(ctx context.Context, id int64) error

	// IncrementClassesUsed adds one used class and expires the subscription
	// when the plan's class count is reached.
	IncrementClassesUsed(ctx context.Context, id int64) (*Subscription, error)

	ListByAthlete(ctx context.Context, athleteID int64) ([]Subscription, error)

	CreatePayment(ctx context.Context, p *Payment) error
	GetPayment(ctx context.Context, id int64) (*Payment, error)
	GetPaymentForUpdate(ctx context.Context, id int64) (*Payment, error)
	MarkPaymentVoid(ctx context.Context, id int64, reason *string, at time.Time) (*Payment, error)
	ListPaymentsByAthlete(ctx context.Context, athleteID int64) ([]Payment, error)
}

type Repository interface {
	Store
	// InTx runs fn inside one transaction. Returning an error rolls back.
	InTx(ctx context.Context, fn func(Store) error) error
}
