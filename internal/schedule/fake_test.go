package schedule

import (
	"context"
	"sort"
	"time"

	"fightclub/internal/apperr"
	"fightclub/internal/clock"
	"fightclub/internal/coach"
)

// memRepo is an in-memory Repository with the same slot uniqueness rule as
// the classes table.
type memRepo struct {
	nextID    int64
	patterns  map[int64]ClassPattern
	classes   map[int64]Class
	coaches   map[int64][]int64
	overrides map[overrideKey]int64
	names     map[int64]string
}

func newMemRepo(coaches ...coach.Coach) *memRepo {
	r := &memRepo{
		patterns:  map[int64]ClassPattern{},
		classes:   map[int64]Class{},
		coaches:   map[int64][]int64{},
		overrides: map[overrideKey]int64{},
		names:     map[int64]string{},
	}
	for _, c := range coaches {
		r.names[c.ID] = c.Name
	}
	return r
}

func (r *memRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memRepo) InExpansion(ctx context.Context, fn func(ExpansionStore) error) error {
	return fn(r)
}

func (r *memRepo) LockSlot(ctx context.Context, name string, day clock.Weekday, start clock.TimeOfDay) error {
	return nil
}

func (r *memRepo) FindActiveClass(ctx context.Context, name string, day clock.Weekday, start clock.TimeOfDay) (*Class, error) {
	for _, c := range r.classes {
		if c.Active && c.Name == name && c.DayOfWeek == day && c.StartTime == start {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memRepo) InsertClass(ctx context.Context, c *Class) (bool, error) {
	existing, _ := r.FindActiveClass(ctx, c.Name, c.DayOfWeek, c.StartTime)
	if existing != nil {
		return false, nil
	}
	c.ID = r.id()
	c.Active = true
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.classes[c.ID] = *c
	return true, nil
}

func (r *memRepo) CreatePattern(ctx context.Context, p *ClassPattern) error {
	p.ID = r.id()
	r.patterns[p.ID] = *p
	return nil
}

func (r *memRepo) UpdatePattern(ctx context.Context, p *ClassPattern) error {
	if _, ok := r.patterns[p.ID]; !ok {
		return ErrPatternNotFound
	}
	r.patterns[p.ID] = *p
	return nil
}

func (r *memRepo) GetPattern(ctx context.Context, id int64) (*ClassPattern, error) {
	p, ok := r.patterns[id]
	if !ok {
		return nil, ErrPatternNotFound
	}
	return &p, nil
}

func (r *memRepo) ListPatterns(ctx context.Context) ([]ClassPattern, error) {
	out := []ClassPattern{}
	for _, p := range r.patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) DeletePattern(ctx context.Context, id int64) error {
	if _, ok := r.patterns[id]; !ok {
		return ErrPatternNotFound
	}
	delete(r.patterns, id)
	for cid, c := range r.classes {
		if c.PatternID != nil && *c.PatternID == id {
			c.PatternID = nil
			r.classes[cid] = c
		}
	}
	return nil
}

func (r *memRepo) CreateClass(ctx context.Context, c *Class, coachIDs []int64) error {
	created, _ := r.InsertClass(ctx, c)
	if !created {
		return ErrClassSlotTaken
	}
	r.coaches[c.ID] = append([]int64(nil), coachIDs...)
	return nil
}

func (r *memRepo) GetClass(ctx context.Context, id int64) (*Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, ErrClassNotFound
	}
	return &c, nil
}

func (r *memRepo) ListClasses(ctx context.Context, day *clock.Weekday, activeOnly bool) ([]Class, error) {
	out := []Class{}
	for _, c := range r.classes {
		if day != nil && c.DayOfWeek != *day {
			continue
		}
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *memRepo) SetClassActive(ctx context.Context, id int64, active bool) (*Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, ErrClassNotFound
	}
	if active && !c.Active {
		if existing, _ := r.FindActiveClass(ctx, c.Name, c.DayOfWeek, c.StartTime); existing != nil {
			return nil, ErrClassSlotTaken
		}
	}
	c.Active = active
	r.classes[id] = c
	return &c, nil
}

func (r *memRepo) ReplaceCoaches(ctx context.Context, classID int64, coachIDs []int64) error {
	r.coaches[classID] = append([]int64(nil), coachIDs...)
	return nil
}

func (r *memRepo) CoachesForClasses(ctx context.Context, classIDs []int64) (map[int64][]CoachRef, error) {
	out := map[int64][]CoachRef{}
	for _, id := range classIDs {
		for _, coachID := range r.coaches[id] {
			out[id] = append(out[id], CoachRef{ID: coachID, Name: r.names[coachID]})
		}
	}
	return out, nil
}

func (r *memRepo) UpsertOverride(ctx context.Context, classID int64, day string, coachID int64) (*Override, error) {
	r.overrides[overrideKey{classID, day}] = coachID
	return &Override{ClassID: classID, Date: day, CoachID: coachID, CoachName: r.names[coachID]}, nil
}

func (r *memRepo) DeleteOverride(ctx context.Context, classID int64, day string) error {
	delete(r.overrides, overrideKey{classID, day})
	return nil
}

func (r *memRepo) OverridesBetween(ctx context.Context, from, to string) ([]Override, error) {
	out := []Override{}
	for k, coachID := range r.overrides {
		if k.date >= from && k.date <= to {
			out = append(out, Override{ClassID: k.classID, Date: k.date, CoachID: coachID, CoachName: r.names[coachID]})
		}
	}
	return out, nil
}

// stubCoaches answers RequireActive from a fixed roster.
type stubCoaches map[int64]coach.Coach

func (s stubCoaches) RequireActive(ctx context.Context, ids []int64) ([]coach.Coach, error) {
	out := []coach.Coach{}
	for _, id := range ids {
		c, ok := s[id]
		if !ok {
			return nil, apperr.NotFound("coach %d not found", id)
		}
		if !c.Active {
			return nil, apperr.Conflict("coach %d is inactive", id)
		}
		out = append(out, c)
	}
	return out, nil
}
