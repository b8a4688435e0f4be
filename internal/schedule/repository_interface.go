package schedule

import (
	"context"

	"fightclub/internal/clock"
)

// ExpansionStore is the transactional view used while expanding a pattern.
type ExpansionStore interface {
	// LockSlot serializes expansions touching the same (name, day, start)
	// until the surrounding transaction ends.
	LockSlot(ctx context.Context, name string, day clock.Weekday, start clock.TimeOfDay) error
	// FindActiveClass returns the active class in that slot, or nil.
	FindActiveClass(ctx context.Context, name string, day clock.Weekday, start clock.TimeOfDay) (*Class, error)
	// InsertClass writes c unless an active class already holds its slot,
	// reporting whether a row was written.
	InsertClass(ctx context.Context, c *Class) (bool, error)
}

type Repository interface {
	InExpansion(ctx context.Context, fn func(ExpansionStore) error) error

	CreatePattern(ctx context.Context, p *ClassPattern) error
	UpdatePattern(ctx context.Context, p *ClassPattern) error
	GetPattern(ctx context.Context, id int64) (*ClassPattern, error)
	ListPatterns(ctx context.Context) ([]ClassPattern, error)
	DeletePattern(ctx context.Context, id int64) error

	// CreateClass inserts c together with its base coaches.
	CreateClass(ctx context.Context, c *Class, coachIDs []int64) error
	GetClass(ctx context.Context, id int64) (*Class, error)
	// ListClasses filters by weekday when day is non-nil. Coaches are not loaded.
	ListClasses(ctx context.Context, day *clock.Weekday, activeOnly bool) ([]Class, error)
	SetClassActive(ctx context.Context, id int64, active bool) (*Class, error)
	// ReplaceCoaches swaps the base coach set of a class.
	ReplaceCoaches(ctx context.Context, classID int64, coachIDs []int64) error
	CoachesForClasses(ctx context.Context, classIDs []int64) (map[int64][]CoachRef, error)

	UpsertOverride(ctx context.Context, classID int64, day string, coachID int64) (*Override, error)
	DeleteOverride(ctx context.Context, classID int64, day string) error
	OverridesBetween(ctx context.Context, from, to string) ([]Override, error)
}
