package schedule

import (
	"context"
	"strings"
	"time"

	"fightclub/internal/apperr"
	"fightclub/internal/clock"
	"fightclub/internal/coach"
	"fightclub/internal/logger"
	"fightclub/internal/metrics"
	"fightclub/internal/validation"
)

// MaxRangeDays bounds a single schedule query.
const MaxRangeDays = 62

var (
	ErrPatternNotFound = apperr.NotFound("class pattern not found")
	ErrClassNotFound   = apperr.NotFound("class not found")
	ErrClassInactive   = apperr.Conflict("class is inactive")
	ErrClassSlotTaken  = apperr.Conflict("an active class already exists with that name, day and start time")
	ErrInvalidTimes    = apperr.Invalid("start_time must be before end_time")
)

type CoachLookup interface {
	RequireActive(ctx context.Context, ids []int64) ([]coach.Coach, error)
}

type Service interface {
	CreatePattern(ctx context.Context, req PatternRequest) (*ClassPattern, error)
	UpdatePattern(ctx context.Context, id int64, req PatternRequest) (*ClassPattern, error)
	GetPattern(ctx context.Context, id int64) (*ClassPattern, error)
	ListPatterns(ctx context.Context) ([]ClassPattern, error)
	DeletePattern(ctx context.Context, id int64) error
	ExpandPattern(ctx context.Context, id int64) (*ExpandResult, error)

	CreateClass(ctx context.Context, req ClassRequest) (*Class, error)
	GetClass(ctx context.Context, id int64) (*Class, error)
	ListClasses(ctx context.Context, day *clock.Weekday, activeOnly bool) ([]Class, error)
	SetCoaches(ctx context.Context, id int64, req SetCoachesRequest) (*Class, error)
	DeactivateClass(ctx context.Context, id int64) (*Class, error)
	ReactivateClass(ctx context.Context, id int64) (*Class, error)

	ResolveScheduleForRange(ctx context.Context, from, to time.Time) ([]Slot, error)
	AssignSubstitute(ctx context.Context, classID int64, day time.Time, req SubstituteRequest) (*Override, error)
	RemoveSubstitute(ctx context.Context, classID int64, day time.Time) error
}

type service struct {
	repo    Repository
	coaches CoachLookup
}

func NewService(repo Repository, coaches CoachLookup) Service {
	return &service{repo: repo, coaches: coaches}
}

func (s *service) CreatePattern(ctx context.Context, req PatternRequest) (*ClassPattern, error) {
	p, err := patternFrom(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreatePattern(ctx, p); err != nil {
		return nil, err
	}
	logger.Info("class pattern created", "pattern_id", p.ID, "name", p.Name)
	return p, nil
}

// UpdatePattern edits the template. Classes already expanded from it are not
// touched; expand again to materialize newly added days.
func (s *service) UpdatePattern(ctx context.Context, id int64, req PatternRequest) (*ClassPattern, error) {
	p, err := patternFrom(req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.UpdatePattern(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetPattern(ctx context.Context, id int64) (*ClassPattern, error) {
	return s.repo.GetPattern(ctx, id)
}

func (s *service) ListPatterns(ctx context.Context) ([]ClassPattern, error) {
	return s.repo.ListPatterns(ctx)
}

func (s *service) DeletePattern(ctx context.Context, id int64) error {
	if err := s.repo.DeletePattern(ctx, id); err != nil {
		return err
	}
	logger.Info("class pattern deleted", "pattern_id", id)
	return nil
}

func patternFrom(req PatternRequest) (*ClassPattern, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	req.Color = strings.TrimSpace(req.Color)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.StartTime >= req.EndTime {
		return nil, ErrInvalidTimes
	}
	return &ClassPattern{
		Name:          req.Name,
		Type:          req.Type,
		DaysOfWeek:    Weekdays(req.DaysOfWeek).Normalized(),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Capacity:      req.Capacity,
		Color:         req.Color,
		LevelRequired: req.LevelRequired,
	}, nil
}

// ExpandPattern materializes one class per pattern weekday. A weekday whose
// (name, day, start time) slot already has an active class is skipped, so
// re-running after adding a day only creates the new one.
func (s *service) ExpandPattern(ctx context.Context, id int64) (*ExpandResult, error) {
	p, err := s.repo.GetPattern(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &ExpandResult{PatternID: p.ID}
	err = s.repo.InExpansion(ctx, func(st ExpansionStore) error {
		result.Created, result.Skipped = 0, 0

		// Days are locked in ascending order so concurrent expansions
		// cannot deadlock.
		for _, day := range p.DaysOfWeek.Normalized() {
			if err := st.LockSlot(ctx, p.Name, day, p.StartTime); err != nil {
				return err
			}

			existing, err := st.FindActiveClass(ctx, p.Name, day, p.StartTime)
			if err != nil {
				return err
			}
			if existing != nil {
				result.Skipped++
				continue
			}

			patternID := p.ID
			created, err := st.InsertClass(ctx, &Class{
				PatternID:     &patternID,
				Name:          p.Name,
				Type:          p.Type,
				DayOfWeek:     day,
				StartTime:     p.StartTime,
				EndTime:       p.EndTime,
				Capacity:      p.Capacity,
				Color:         p.Color,
				LevelRequired: p.LevelRequired,
			})
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPatternExpansion(result.Created, result.Skipped)
	logger.Info("class pattern expanded",
		"pattern_id", p.ID,
		"created", result.Created,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (s *service) CreateClass(ctx context.Context, req ClassRequest) (*Class, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	req.Color = strings.TrimSpace(req.Color)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.StartTime >= req.EndTime {
		return nil, ErrInvalidTimes
	}

	coaches, err := s.coaches.RequireActive(ctx, req.CoachIDs)
	if err != nil {
		return nil, err
	}

	c := &Class{
		Name:          req.Name,
		Type:          req.Type,
		DayOfWeek:     req.DayOfWeek,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Capacity:      req.Capacity,
		Color:         req.Color,
		LevelRequired: req.LevelRequired,
	}
	if err := s.repo.CreateClass(ctx, c, req.CoachIDs); err != nil {
		return nil, err
	}
	c.Coaches = refsOf(coaches)

	logger.Info("class created", "class_id", c.ID, "name", c.Name, "day", c.DayOfWeek.String())
	return c, nil
}

// GetClass returns the class with its base coaches.
func (s *service) GetClass(ctx context.Context, id int64) (*Class, error) {
	c, err := s.repo.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	coaches, err := s.repo.CoachesForClasses(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	c.Coaches = nonNil(coaches[id])
	return c, nil
}

func (s *service) ListClasses(ctx context.Context, day *clock.Weekday, activeOnly bool) ([]Class, error) {
	classes, err := s.repo.ListClasses(ctx, day, activeOnly)
	if err != nil {
		return nil, err
	}
	if err := s.attachCoaches(ctx, classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// SetCoaches replaces the base coach assignment. Date overrides are kept.
func (s *service) SetCoaches(ctx context.Context, id int64, req SetCoachesRequest) (*Class, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c, err := s.repo.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	coaches, err := s.coaches.RequireActive(ctx, req.CoachIDs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceCoaches(ctx, id, req.CoachIDs); err != nil {
		return nil, err
	}
	c.Coaches = refsOf(coaches)
	logger.Info("class coaches set", "class_id", id, "coaches", len(req.CoachIDs))
	return c, nil
}

func (s *service) DeactivateClass(ctx context.Context, id int64) (*Class, error) {
	return s.repo.SetClassActive(ctx, id, false)
}

func (s *service) ReactivateClass(ctx context.Context, id int64) (*Class, error) {
	return s.repo.SetClassActive(ctx, id, true)
}

func (s *service) attachCoaches(ctx context.Context, classes []Class) error {
	ids := make([]int64, len(classes))
	for i := range classes {
		ids[i] = classes[i].ID
	}
	coaches, err := s.repo.CoachesForClasses(ctx, ids)
	if err != nil {
		return err
	}
	for i := range classes {
		classes[i].Coaches = nonNil(coaches[classes[i].ID])
	}
	return nil
}

type overrideKey struct {
	classID int64
	date    string
}

// ResolveScheduleForRange lists every active class occurrence in [from, to]
// by calendar day. An override for (class, date) replaces the base coaches
// for that occurrence only.
func (s *service) ResolveScheduleForRange(ctx context.Context, from, to time.Time) ([]Slot, error) {
	days := clock.DaysInRange(from, to)
	if len(days) == 0 {
		return nil, apperr.Invalid("to must not be before from")
	}
	if len(days) > MaxRangeDays {
		return nil, apperr.Invalid("date range must not exceed %d days", MaxRangeDays)
	}

	classes, err := s.ListClasses(ctx, nil, true)
	if err != nil {
		return nil, err
	}

	overrides, err := s.repo.OverridesBetween(ctx, clock.DateKey(days[0]), clock.DateKey(days[len(days)-1]))
	if err != nil {
		return nil, err
	}
	byKey := make(map[overrideKey]Override, len(overrides))
	for _, o := range overrides {
		byKey[overrideKey{o.ClassID, o.Date}] = o
	}

	slots := []Slot{}
	for _, day := range days {
		wd := clock.WeekdayOf(day)
		date := clock.DateKey(day)
		for _, c := range classes {
			if c.DayOfWeek != wd {
				continue
			}
			slot := Slot{
				ClassID:          c.ID,
				Date:             date,
				Name:             c.Name,
				Type:             c.Type,
				StartTime:        c.StartTime,
				EndTime:          c.EndTime,
				Capacity:         c.Capacity,
				Color:            c.Color,
				BaseCoaches:      c.Coaches,
				EffectiveCoaches: c.Coaches,
			}
			if o, ok := byKey[overrideKey{c.ID, date}]; ok {
				slot.EffectiveCoaches = []CoachRef{{ID: o.CoachID, Name: o.CoachName}}
				slot.IsSubstitute = true
			}
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// AssignSubstitute sets the coach for one occurrence of a class, replacing
// any earlier substitute on that date.
func (s *service) AssignSubstitute(ctx context.Context, classID int64, day time.Time, req SubstituteRequest) (*Override, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c, err := s.repo.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, ErrClassInactive
	}
	if wd := clock.WeekdayOf(day); wd != c.DayOfWeek {
		return nil, apperr.Invalid("class %d runs on %s, not on %s", c.ID, c.DayOfWeek, wd)
	}
	if _, err := s.coaches.RequireActive(ctx, []int64{req.CoachID}); err != nil {
		return nil, err
	}

	o, err := s.repo.UpsertOverride(ctx, classID, clock.DateKey(day), req.CoachID)
	if err != nil {
		return nil, err
	}

	metrics.RecordSubstitution("assigned")
	logger.Info("substitute assigned", "class_id", classID, "date", o.Date, "coach_id", o.CoachID)
	return o, nil
}

// RemoveSubstitute restores the base coaches for one date. Removing a
// substitute that does not exist succeeds.
func (s *service) RemoveSubstitute(ctx context.Context, classID int64, day time.Time) error {
	if _, err := s.repo.GetClass(ctx, classID); err != nil {
		return err
	}
	date := clock.DateKey(day)
	if err := s.repo.DeleteOverride(ctx, classID, date); err != nil {
		return err
	}

	metrics.RecordSubstitution("removed")
	logger.Info("substitute removed", "class_id", classID, "date", date)
	return nil
}

func refsOf(coaches []coach.Coach) []CoachRef {
	refs := make([]CoachRef, 0, len(coaches))
	for _, c := range coaches {
		refs = append(refs, CoachRef{ID: c.ID, Name: c.Name})
	}
	return refs
}

func nonNil(refs []CoachRef) []CoachRef {
	if refs == nil {
		return []CoachRef{}
	}
	return refs
}
