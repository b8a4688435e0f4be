package attendance

import (
	"context"
	"time"

	"fightclub/internal/subscription"
)

// Store is the transactional view used by check-in.
type Store interface {
	// Insert records the attendance unless (athlete, class, day) already
	// exists, in which case it returns the existing row and created=false.
	Insert(ctx context.Context, athleteID, classID int64, day string) (att *Attendance, created bool, err error)
	// Subscriptions shares the same transaction.
	Subscriptions() subscription.Store
}

type Repository interface {
	InTx(ctx context.Context, fn func(Store) error) error
	GetByID(ctx context.Context, id int64) (*Attendance, error)
	Delete(ctx context.Context, id int64) error
	Roster(ctx context.Context, classID int64, day string) ([]RosterEntry, error)
	CountForAthleteBetween(ctx context.Context, athleteID int64, from, to time.Time) (int, error)
}
