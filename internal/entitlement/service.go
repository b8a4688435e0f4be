package entitlement

import (
	"context"
	"time"

	"fightclub/internal/athlete"
	"fightclub/internal/clock"
	"fightclub/internal/membership"
	"fightclub/internal/subscription"
)

type AthleteLookup interface {
	GetByID(ctx context.Context, id int64) (*athlete.Athlete, error)
}

type PlanLookup interface {
	GetByID(ctx context.Context, id int64) (*membership.Plan, error)
}

type SubscriptionFinder interface {
	CurrentForAthlete(ctx context.Context, athleteID int64, t time.Time) (*subscription.Subscription, error)
}

// AttendanceCounter counts an athlete's check-ins on civil days in [from, to].
type AttendanceCounter interface {
	CountForAthleteBetween(ctx context.Context, athleteID int64, from, to time.Time) (int, error)
}

type Service interface {
	ResolveForAthlete(ctx context.Context, athleteID int64, at time.Time) (*Status, error)
}

type service struct {
	athletes      AthleteLookup
	plans         PlanLookup
	subscriptions SubscriptionFinder
	attendance    AttendanceCounter
	loc           *time.Location
}

func NewService(athletes AthleteLookup, plans PlanLookup, subs SubscriptionFinder, attendance AttendanceCounter, loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		athletes:      athletes,
		plans:         plans,
		subscriptions: subs,
		attendance:    attendance,
		loc:           loc,
	}
}

// ResolveForAthlete reads the athlete's current subscription and this week's
// attendance and resolves them at the instant at. It never writes.
func (s *service) ResolveForAthlete(ctx context.Context, athleteID int64, at time.Time) (*Status, error) {
	if _, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return nil, err
	}

	now := at.In(s.loc)

	sub, err := s.subscriptions.CurrentForAthlete(ctx, athleteID, now)
	if err != nil {
		return nil, err
	}

	var plan *membership.Plan
	if sub != nil {
		plan, err = s.plans.GetByID(ctx, sub.PlanID)
		if err != nil {
			return nil, err
		}
	}

	weekStart, weekEnd := clock.WeekBounds(now)
	used, err := s.attendance.CountForAthleteBetween(ctx, athleteID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	st := Resolve(sub, plan, used, now)
	st.AthleteID = athleteID
	return &st, nil
}
