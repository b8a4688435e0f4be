package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fightclub/internal/apperr"
	"fightclub/internal/athlete"
	"fightclub/internal/clock"
	"fightclub/internal/membership"
	"fightclub/internal/schedule"
	"fightclub/internal/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo keeps attendances keyed by (athlete, class, day) like the unique
// constraint on the table.
type memRepo struct {
	nextID int64
	rows   map[string]*Attendance
	subs   *bonoStore
}

func newMemRepo(subs *bonoStore) *memRepo {
	return &memRepo{rows: map[string]*Attendance{}, subs: subs}
}

func attendanceKey(athleteID, classID int64, day string) string {
	return fmt.Sprintf("%d:%d:%s", athleteID, classID, day)
}

func (r *memRepo) InTx(ctx context.Context, fn func(Store) error) error {
	return fn(r)
}

func (r *memRepo) Insert(ctx context.Context, athleteID, classID int64, day string) (*Attendance, bool, error) {
	key := attendanceKey(athleteID, classID, day)
	if existing, ok := r.rows[key]; ok {
		return existing, false, nil
	}
	r.nextID++
	att := &Attendance{ID: r.nextID, AthleteID: athleteID, ClassID: classID, AttendedOn: day}
	r.rows[key] = att
	return att, true, nil
}

func (r *memRepo) Subscriptions() subscription.Store {
	return r.subs
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (*Attendance, error) {
	for _, att := range r.rows {
		if att.ID == id {
			return att, nil
		}
	}
	return nil, ErrAttendanceNotFound
}

func (r *memRepo) Delete(ctx context.Context, id int64) error {
	for key, att := range r.rows {
		if att.ID == id {
			delete(r.rows, key)
			return nil
		}
	}
	return ErrAttendanceNotFound
}

func (r *memRepo) Roster(ctx context.Context, classID int64, day string) ([]RosterEntry, error) {
	out := []RosterEntry{}
	for _, att := range r.rows {
		if att.ClassID == classID && att.AttendedOn == day {
			out = append(out, RosterEntry{Attendance: *att})
		}
	}
	return out, nil
}

func (r *memRepo) CountForAthleteBetween(ctx context.Context, athleteID int64, from, to time.Time) (int, error) {
	n := 0
	for _, att := range r.rows {
		if att.AthleteID == athleteID && att.AttendedOn >= clock.DateKey(from) && att.AttendedOn <= clock.DateKey(to) {
			n++
		}
	}
	return n, nil
}

// bonoStore holds at most one bono subscription. Methods check-in never
// uses fall through to the nil embedded Store.
type bonoStore struct {
	subscription.Store
	bono       *subscription.Subscription
	classCount int
}

func (s *bonoStore) ActiveBonoForAthlete(ctx context.Context, athleteID int64, t time.Time) (*subscription.Subscription, error) {
	if s.bono == nil || s.bono.AthleteID != athleteID || s.bono.Status != subscription.StatusActive {
		return nil, nil
	}
	b := *s.bono
	return &b, nil
}

func (s *bonoStore) GetSubscription(ctx context.Context, id int64) (*subscription.Subscription, error) {
	if s.bono == nil || s.bono.ID != id {
		return nil, subscription.ErrSubscriptionNotFound
	}
	b := *s.bono
	return &b, nil
}

func (s *bonoStore) IncrementClassesUsed(ctx context.Context, id int64) (*subscription.Subscription, error) {
	s.bono.ClassesUsed++
	if s.bono.ClassesUsed >= s.classCount {
		s.bono.Status = subscription.StatusExpired
	}
	b := *s.bono
	return &b, nil
}

type stubAthletes map[int64]*athlete.Athlete

func (s stubAthletes) GetByID(ctx context.Context, id int64) (*athlete.Athlete, error) {
	a, ok := s[id]
	if !ok {
		return nil, athlete.ErrAthleteNotFound
	}
	return a, nil
}

type stubClasses map[int64]*schedule.Class

func (s stubClasses) GetClass(ctx context.Context, id int64) (*schedule.Class, error) {
	c, ok := s[id]
	if !ok {
		return nil, schedule.ErrClassNotFound
	}
	return c, nil
}

type stubPlans map[int64]*membership.Plan

func (s stubPlans) GetByID(ctx context.Context, id int64) (*membership.Plan, error) {
	p, ok := s[id]
	if !ok {
		return nil, membership.ErrPlanNotFound
	}
	return p, nil
}

const (
	athleteID      int64 = 1
	inactiveID     int64 = 2
	mondayBoxing   int64 = 10
	mondayBJJ      int64 = 11
	retiredClassID int64 = 12
	bonoPlanID     int64 = 5
)

type fixture struct {
	svc   Service
	repo  *memRepo
	subs  *bonoStore
	loc   *time.Location
}

func newFixture(t *testing.T, classCount int) *fixture {
	t.Helper()
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	count := classCount
	subs := &bonoStore{
		bono: &subscription.Subscription{
			ID:        100,
			AthleteID: athleteID,
			PlanID:    bonoPlanID,
			StartDate: time.Date(2023, time.December, 20, 0, 0, 0, 0, madrid),
			Status:    subscription.StatusActive,
		},
		classCount: classCount,
	}
	repo := newMemRepo(subs)

	athletes := stubAthletes{
		athleteID:  {ID: athleteID, FirstName: "Nora", LastName: "Etxeberria", Active: true},
		inactiveID: {ID: inactiveID, FirstName: "Old", LastName: "Member", Active: false},
	}
	classes := stubClasses{
		mondayBoxing:   {ID: mondayBoxing, Name: "Boxing", DayOfWeek: clock.Monday, Active: true},
		mondayBJJ:      {ID: mondayBJJ, Name: "BJJ", DayOfWeek: clock.Monday, Active: true},
		retiredClassID: {ID: retiredClassID, Name: "Capoeira", DayOfWeek: clock.Monday, Active: false},
	}
	plans := stubPlans{
		bonoPlanID: {ID: bonoPlanID, Name: "Bono 10", ClassCount: &count, Active: true},
	}

	// 2024-01-01 is a Monday.
	clk := clock.Fixed{At: time.Date(2024, time.January, 1, 19, 30, 0, 0, madrid)}
	return &fixture{
		svc:   NewService(repo, athletes, classes, plans, clk, madrid),
		repo:  repo,
		subs:  subs,
		loc:   madrid,
	}
}

func TestCheckIn_DuplicateConsumesOnce(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	req := CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing, Date: "2024-01-01"}

	first, err := f.svc.CheckIn(ctx, req)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, first.BonoConsumed)
	require.NotNil(t, first.Subscription)
	assert.Equal(t, 1, first.Subscription.ClassesUsed)

	second, err := f.svc.CheckIn(ctx, req)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.False(t, second.BonoConsumed)
	assert.Equal(t, first.Attendance.ID, second.Attendance.ID)

	assert.Equal(t, 1, f.subs.bono.ClassesUsed)
}

func TestCheckIn_DefaultsToToday(t *testing.T) {
	f := newFixture(t, 10)

	result, err := f.svc.CheckIn(context.Background(), CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", result.Attendance.AttendedOn)
}

func TestCheckIn_TwoClassesSameDayConsumeTwo(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing, Date: "2024-01-01"})
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, CheckInRequest{AthleteID: athleteID, ClassID: mondayBJJ, Date: "2024-01-01"})
	require.NoError(t, err)

	assert.Equal(t, 2, f.subs.bono.ClassesUsed)
}

func TestCheckIn_LastClassExhaustsBono(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	result, err := f.svc.CheckIn(ctx, CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing, Date: "2024-01-01"})
	require.NoError(t, err)
	require.NotNil(t, result.Subscription)
	assert.Equal(t, subscription.StatusExpired, result.Subscription.Status)

	next, err := f.svc.CheckIn(ctx, CheckInRequest{AthleteID: athleteID, ClassID: mondayBJJ, Date: "2024-01-01"})
	require.NoError(t, err)
	assert.True(t, next.Created)
	assert.False(t, next.BonoConsumed)
	assert.Equal(t, 1, f.subs.bono.ClassesUsed)
}

func TestCheckIn_WithoutBono(t *testing.T) {
	f := newFixture(t, 10)
	f.subs.bono = nil

	result, err := f.svc.CheckIn(context.Background(), CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing, Date: "2024-01-08"})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.BonoConsumed)
	assert.Nil(t, result.Subscription)
}

func TestCheckIn_Rejections(t *testing.T) {
	tests := []struct {
		name string
		req  CheckInRequest
		want error
	}{
		{"inactive athlete", CheckInRequest{AthleteID: inactiveID, ClassID: mondayBoxing, Date: "2024-01-01"}, apperr.ErrConflict},
		{"unknown athlete", CheckInRequest{AthleteID: 99, ClassID: mondayBoxing, Date: "2024-01-01"}, apperr.ErrNotFound},
		{"inactive class", CheckInRequest{AthleteID: athleteID, ClassID: retiredClassID, Date: "2024-01-01"}, apperr.ErrConflict},
		{"unknown class", CheckInRequest{AthleteID: athleteID, ClassID: 99, Date: "2024-01-01"}, apperr.ErrNotFound},
		{"wrong weekday", CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing, Date: "2024-01-02"}, apperr.ErrInvalidInput},
		{"malformed date", CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing, Date: "01/01/2024"}, apperr.ErrInvalidInput},
		{"missing athlete", CheckInRequest{ClassID: mondayBoxing}, apperr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 10)
			_, err := f.svc.CheckIn(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.repo.rows)
			assert.Equal(t, 0, f.subs.bono.ClassesUsed)
		})
	}
}

func TestRemove_DoesNotRefund(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	result, err := f.svc.CheckIn(ctx, CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing, Date: "2024-01-01"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, result.Attendance.ID))
	assert.Equal(t, 1, f.subs.bono.ClassesUsed)

	assert.ErrorIs(t, f.svc.Remove(ctx, result.Attendance.ID), ErrAttendanceNotFound)
}

func TestRoster(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, CheckInRequest{AthleteID: athleteID, ClassID: mondayBoxing, Date: "2024-01-01"})
	require.NoError(t, err)

	roster, err := f.svc.Roster(ctx, mondayBoxing, time.Date(2024, time.January, 1, 0, 0, 0, 0, f.loc))
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, athleteID, roster[0].AthleteID)

	_, err = f.svc.Roster(ctx, 99, time.Date(2024, time.January, 1, 0, 0, 0, 0, f.loc))
	assert.ErrorIs(t, err, schedule.ErrClassNotFound)
}
