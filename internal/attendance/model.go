package attendance

import (
	"time"

	"fightclub/internal/subscription"
)

// Attendance is one athlete present at one class on one civil day.
type Attendance struct {
	ID         int64     `db:"id" json:"id"`
	AthleteID  int64     `db:"athlete_id" json:"athlete_id"`
	ClassID    int64     `db:"class_id" json:"class_id"`
	AttendedOn string    `db:"attended_on" json:"attended_on"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type RosterEntry struct {
	Attendance
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

type CheckInRequest struct {
	AthleteID int64 `json:"athlete_id" validate:"required,gt=0"`
	ClassID   int64 `json:"class_id" validate:"required,gt=0"`
	// Date defaults to today in the club's timezone.
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// CheckInResult reports whether a new attendance was written. A repeated
// check-in returns the existing row with Created=false and consumes nothing.
type CheckInResult struct {
	Attendance   *Attendance                `json:"attendance"`
	Created      bool                       `json:"created"`
	BonoConsumed bool                       `json:"bono_consumed"`
	Subscription *subscription.Subscription `json:"subscription,omitempty"`
}
