package integration_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fightclub/internal/clock"
	"fightclub/internal/coach"
	"fightclub/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPattern_ConcurrentCallsCreateEachSlotOnce(t *testing.T) {
	database := setupTestDB(t)
	loc := madrid(t)
	c := newClub(t, database, time.Date(2024, time.January, 1, 12, 0, 0, 0, loc))
	ctx := context.Background()

	pattern, err := c.schedule.CreatePattern(ctx, schedule.PatternRequest{
		Name:       "Muay Thai",
		Type:       "MUAY_THAI",
		DaysOfWeek: []clock.Weekday{clock.Friday, clock.Monday, clock.Wednesday},
		StartTime:  clock.MustTimeOfDay("19:00"),
		EndTime:    clock.MustTimeOfDay("20:00"),
		Capacity:   20,
	})
	require.NoError(t, err)

	const workers = 6
	results := make([]*schedule.ExpandResult, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.schedule.ExpandPattern(ctx, pattern.ID)
		}(i)
	}
	wg.Wait()

	created := 0
	for i := range results {
		require.NoError(t, errs[i])
		created += results[i].Created
		assert.Equal(t, 3, results[i].Created+results[i].Skipped)
	}
	assert.Equal(t, 3, created)

	var rows int
	require.NoError(t, database.Get(&rows, `SELECT COUNT(*) FROM classes WHERE name = 'Muay Thai' AND active`))
	assert.Equal(t, 3, rows)
}

func TestSubstitute_RoundTrip(t *testing.T) {
	database := setupTestDB(t)
	loc := madrid(t)
	c := newClub(t, database, time.Date(2024, time.January, 1, 12, 0, 0, 0, loc))
	ctx := context.Background()

	marta, err := c.coaches.Create(ctx, coach.CreateCoachRequest{Name: "Marta"})
	require.NoError(t, err)
	iker, err := c.coaches.Create(ctx, coach.CreateCoachRequest{Name: "Iker"})
	require.NoError(t, err)

	class, err := c.schedule.CreateClass(ctx, schedule.ClassRequest{
		Name:      "BJJ Fundamentals",
		Type:      "BJJ",
		DayOfWeek: clock.Monday,
		StartTime: clock.MustTimeOfDay("18:00"),
		EndTime:   clock.MustTimeOfDay("19:30"),
		Capacity:  16,
		CoachIDs:  []int64{marta.ID},
	})
	require.NoError(t, err)

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, loc)
	to := time.Date(2024, time.January, 14, 0, 0, 0, 0, loc)
	before, err := c.schedule.ResolveScheduleForRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, before, 2)

	sub := schedule.SubstituteRequest{CoachID: iker.ID}
	override, err := c.schedule.AssignSubstitute(ctx, class.ID, time.Date(2024, time.January, 8, 0, 0, 0, 0, loc), sub)
	require.NoError(t, err)
	assert.Equal(t, "Iker", override.CoachName)

	during, err := c.schedule.ResolveScheduleForRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, during, 2)
	assert.False(t, during[0].IsSubstitute)
	assert.True(t, during[1].IsSubstitute)
	require.Len(t, during[1].EffectiveCoaches, 1)
	assert.Equal(t, "Iker", during[1].EffectiveCoaches[0].Name)
	assert.Equal(t, "Marta", during[1].BaseCoaches[0].Name)

	require.NoError(t, c.schedule.RemoveSubstitute(ctx, class.ID, time.Date(2024, time.January, 8, 0, 0, 0, 0, loc)))

	after, err := c.schedule.ResolveScheduleForRange(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
