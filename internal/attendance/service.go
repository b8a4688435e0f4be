package attendance

import (
	"context"
	"time"

	"fightclub/internal/apperr"
	"fightclub/internal/athlete"
	"fightclub/internal/clock"
	"fightclub/internal/logger"
	"fightclub/internal/metrics"
	"fightclub/internal/schedule"
	"fightclub/internal/subscription"
	"fightclub/internal/validation"
)

var (
	ErrAttendanceNotFound = apperr.NotFound("attendance not found")
	ErrClassInactive      = apperr.Conflict("class is inactive")
)

type AthleteLookup interface {
	GetByID(ctx context.Context, id int64) (*athlete.Athlete, error)
}

type ClassLookup interface {
	GetClass(ctx context.Context, id int64) (*schedule.Class, error)
}

type Service interface {
	CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error)
	Remove(ctx context.Context, id int64) error
	Roster(ctx context.Context, classID int64, day time.Time) ([]RosterEntry, error)
}

type service struct {
	repo     Repository
	athletes AthleteLookup
	classes  ClassLookup
	plans    subscription.PlanLookup
	clock    clock.Clock
	loc      *time.Location
}

func NewService(
	repo Repository,
	athletes AthleteLookup,
	classes ClassLookup,
	plans subscription.PlanLookup,
	clk clock.Clock,
	loc *time.Location,
) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:     repo,
		athletes: athletes,
		classes:  classes,
		plans:    plans,
		clock:    clk,
		loc:      loc,
	}
}

// CheckIn records attendance and, for a first check-in only, consumes one
// class from the athlete's running bono in the same transaction.
func (s *service) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	day := clock.StartOfDay(s.clock.Now().In(s.loc))
	if req.Date != "" {
		parsed, err := clock.ParseDate(req.Date, s.loc)
		if err != nil {
			return nil, apperr.Invalid("invalid date: %v", err)
		}
		day = parsed
	}

	a, err := s.athletes.GetByID(ctx, req.AthleteID)
	if err != nil {
		return nil, err
	}
	if !a.Active {
		return nil, athlete.ErrAthleteInactive
	}

	class, err := s.classes.GetClass(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	if !class.Active {
		return nil, ErrClassInactive
	}
	if clock.WeekdayOf(day) != class.DayOfWeek {
		return nil, apperr.Invalid("class %d runs on %s, not on %s", class.ID, class.DayOfWeek, clock.WeekdayOf(day))
	}

	result := &CheckInResult{}
	err = s.repo.InTx(ctx, func(st Store) error {
		att, created, err := st.Insert(ctx, a.ID, class.ID, clock.DateKey(day))
		if err != nil {
			return err
		}
		result.Attendance = att
		result.Created = created
		if !created {
			return nil
		}

		subs := st.Subscriptions()
		bono, err := subs.ActiveBonoForAthlete(ctx, a.ID, day)
		if err != nil || bono == nil {
			return err
		}

		updated, err := subscription.ConsumeBono(ctx, subs, s.plans, bono.ID)
		if err != nil {
			return err
		}
		result.BonoConsumed = true
		result.Subscription = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordCheckIn(result.Created)
	if result.Created {
		logger.Info("check-in recorded",
			"athlete_id", a.ID,
			"class_id", class.ID,
			"date", result.Attendance.AttendedOn,
			"bono_consumed", result.BonoConsumed,
		)
	} else {
		logger.Debug("duplicate check-in ignored", "attendance_id", result.Attendance.ID)
	}
	return result, nil
}

// Remove deletes an attendance. A consumed bono class is not refunded.
func (s *service) Remove(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("attendance removed", "attendance_id", id)
	return nil
}

func (s *service) Roster(ctx context.Context, classID int64, day time.Time) ([]RosterEntry, error) {
	if _, err := s.classes.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	return s.repo.Roster(ctx, classID, clock.DateKey(day))
}
