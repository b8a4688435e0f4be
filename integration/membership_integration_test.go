package integration_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"fightclub/internal/athlete"
	"fightclub/internal/attendance"
	"fightclub/internal/clock"
	"fightclub/internal/entitlement"
	"fightclub/internal/membership"
	"fightclub/internal/schedule"
	"fightclub/internal/subscription"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIn_ConcurrentDuplicatesConsumeBonoOnce(t *testing.T) {
	database := setupTestDB(t)
	loc := madrid(t)
	c := newClub(t, database, time.Date(2024, time.January, 1, 19, 30, 0, 0, loc))
	ctx := context.Background()

	a, err := c.athletes.Create(ctx, athlete.CreateAthleteRequest{FirstName: "Leire", LastName: "Etxeberria"})
	require.NoError(t, err)
	bono, err := c.plans.Create(ctx, membership.PlanRequest{
		Name:       "Bono 10",
		Price:      decimal.NewFromInt(80),
		ClassCount: intPtr(10),
	})
	require.NoError(t, err)
	_, err = c.payments.RegisterPayment(ctx, subscription.RegisterPaymentRequest{
		AthleteID: a.ID,
		PlanID:    bono.ID,
		Amount:    decimal.NewFromInt(80),
		Method:    subscription.MethodCash,
		StartDate: "2024-01-01",
	})
	require.NoError(t, err)

	class, err := c.schedule.CreateClass(ctx, schedule.ClassRequest{
		Name:      "Boxing",
		Type:      "BOXING",
		DayOfWeek: clock.Monday,
		StartTime: clock.MustTimeOfDay("19:00"),
		EndTime:   clock.MustTimeOfDay("20:00"),
		Capacity:  20,
	})
	require.NoError(t, err)

	const workers = 8
	results := make([]*attendance.CheckInResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.attendance.CheckIn(ctx, attendance.CheckInRequest{
				AthleteID: a.ID,
				ClassID:   class.ID,
				Date:      "2024-01-01",
			})
		}(i)
	}
	wg.Wait()

	created, consumed := 0, 0
	for i := range results {
		require.NoError(t, errs[i])
		if results[i].Created {
			created++
		}
		if results[i].BonoConsumed {
			consumed++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, consumed)

	var classesUsed int
	require.NoError(t, database.Get(&classesUsed, `SELECT classes_used FROM subscriptions WHERE athlete_id = $1`, a.ID))
	assert.Equal(t, 1, classesUsed)

	var rows int
	require.NoError(t, database.Get(&rows, `SELECT COUNT(*) FROM attendances WHERE athlete_id = $1`, a.ID))
	assert.Equal(t, 1, rows)
}

func TestEntitlement_FollowsPaidPeriod(t *testing.T) {
	database := setupTestDB(t)
	loc := madrid(t)
	c := newClub(t, database, time.Date(2024, time.January, 1, 10, 0, 0, 0, loc))
	ctx := context.Background()

	a, err := c.athletes.Create(ctx, athlete.CreateAthleteRequest{FirstName: "Unai", LastName: "Garcia"})
	require.NoError(t, err)

	status, err := c.entitlements.ResolveForAthlete(ctx, a.ID, time.Date(2024, time.January, 1, 10, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, entitlement.Red, status.Color)

	monthly, err := c.plans.Create(ctx, membership.PlanRequest{
		Name:         "Monthly 2x",
		Price:        decimal.NewFromInt(55),
		DurationDays: intPtr(30),
		WeeklyLimit:  intPtr(2),
	})
	require.NoError(t, err)
	_, err = c.payments.RegisterPayment(ctx, subscription.RegisterPaymentRequest{
		AthleteID: a.ID,
		PlanID:    monthly.ID,
		Amount:    decimal.NewFromInt(55),
		Method:    subscription.MethodCard,
		StartDate: "2024-01-01",
	})
	require.NoError(t, err)

	status, err = c.entitlements.ResolveForAthlete(ctx, a.ID, time.Date(2024, time.January, 10, 10, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, entitlement.Green, status.Color)
	assert.Equal(t, "Monthly 2x", status.PlanName)
	require.NotNil(t, status.WeeklyLimit)
	assert.Equal(t, 2, *status.WeeklyLimit)

	status, err = c.entitlements.ResolveForAthlete(ctx, a.ID, time.Date(2024, time.March, 1, 10, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, entitlement.Red, status.Color)
}

func TestEntitlement_ExhaustedBonoDoesNotHideRunningPeriod(t *testing.T) {
	database := setupTestDB(t)
	loc := madrid(t)
	c := newClub(t, database, time.Date(2024, time.January, 8, 19, 30, 0, 0, loc))
	ctx := context.Background()

	a, err := c.athletes.Create(ctx, athlete.CreateAthleteRequest{FirstName: "Ane", LastName: "Zubiri"})
	require.NoError(t, err)

	monthly, err := c.plans.Create(ctx, membership.PlanRequest{
		Name:         "Monthly",
		Price:        decimal.NewFromInt(55),
		DurationDays: intPtr(30),
	})
	require.NoError(t, err)
	bono, err := c.plans.Create(ctx, membership.PlanRequest{
		Name:       "Open mat bono",
		Price:      decimal.NewFromInt(10),
		ClassCount: intPtr(1),
	})
	require.NoError(t, err)

	_, err = c.payments.RegisterPayment(ctx, subscription.RegisterPaymentRequest{
		AthleteID: a.ID, PlanID: monthly.ID, Amount: decimal.NewFromInt(55),
		Method: subscription.MethodCard, StartDate: "2024-01-01",
	})
	require.NoError(t, err)
	_, err = c.payments.RegisterPayment(ctx, subscription.RegisterPaymentRequest{
		AthleteID: a.ID, PlanID: bono.ID, Amount: decimal.NewFromInt(10),
		Method: subscription.MethodCash, StartDate: "2024-01-05",
	})
	require.NoError(t, err)

	class, err := c.schedule.CreateClass(ctx, schedule.ClassRequest{
		Name:      "Open Mat",
		Type:      "BJJ",
		DayOfWeek: clock.Monday,
		StartTime: clock.MustTimeOfDay("19:00"),
		EndTime:   clock.MustTimeOfDay("20:30"),
		Capacity:  30,
	})
	require.NoError(t, err)

	res, err := c.attendance.CheckIn(ctx, attendance.CheckInRequest{AthleteID: a.ID, ClassID: class.ID, Date: "2024-01-08"})
	require.NoError(t, err)
	require.True(t, res.BonoConsumed)
	require.NotNil(t, res.Subscription)
	require.Equal(t, subscription.StatusExpired, res.Subscription.Status)

	status, err := c.entitlements.ResolveForAthlete(ctx, a.ID, time.Date(2024, time.January, 15, 10, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, entitlement.Green, status.Color)
	assert.Equal(t, "Monthly", status.PlanName)
}

func TestRegisterPayment_ConcurrentCallsChain(t *testing.T) {
	database := setupTestDB(t)
	loc := madrid(t)
	c := newClub(t, database, time.Date(2024, time.January, 1, 10, 0, 0, 0, loc))
	ctx := context.Background()

	a, err := c.athletes.Create(ctx, athlete.CreateAthleteRequest{FirstName: "Iñigo", LastName: "Arana"})
	require.NoError(t, err)
	monthly, err := c.plans.Create(ctx, membership.PlanRequest{
		Name:         "Monthly",
		Price:        decimal.NewFromInt(50),
		DurationDays: intPtr(30),
	})
	require.NoError(t, err)

	const workers = 2
	results := make([]*subscription.RegisterPaymentResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.payments.RegisterPayment(ctx, subscription.RegisterPaymentRequest{
				AthleteID: a.ID,
				PlanID:    monthly.ID,
				Amount:    decimal.NewFromInt(50),
				Method:    subscription.MethodCash,
			})
		}(i)
	}
	wg.Wait()

	var starts, ends []string
	for i := range results {
		require.NoError(t, errs[i])
		sub := results[i].Subscription
		require.NotNil(t, sub.EndDate)
		starts = append(starts, clock.DateKey(sub.StartDate.In(loc)))
		ends = append(ends, clock.DateKey(sub.EndDate.In(loc)))
	}
	sort.Strings(starts)
	sort.Strings(ends)

	assert.Equal(t, []string{"2024-01-01", "2024-01-31"}, starts)
	assert.Equal(t, []string{"2024-01-30", "2024-02-29"}, ends)
}
