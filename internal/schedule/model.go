package schedule

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"time"

	"fightclub/internal/clock"

	"github.com/lib/pq"
)

// Weekdays is a set of ISO weekdays stored as a SMALLINT[] column.
type Weekdays []clock.Weekday

// Normalized returns the days sorted Monday first with duplicates removed.
func (w Weekdays) Normalized() Weekdays {
	seen := make(map[clock.Weekday]bool, len(w))
	out := make(Weekdays, 0, len(w))
	for _, d := range w {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w Weekdays) Value() (driver.Value, error) {
	ints := make(pq.Int64Array, len(w))
	for i, d := range w {
		ints[i] = int64(d)
	}
	return ints.Value()
}

func (w *Weekdays) Scan(src interface{}) error {
	var ints pq.Int64Array
	if err := ints.Scan(src); err != nil {
		return fmt.Errorf("scan weekdays: %w", err)
	}
	out := make(Weekdays, len(ints))
	for i, v := range ints {
		out[i] = clock.Weekday(v)
	}
	*w = out
	return nil
}

// ClassPattern is a recurring weekly template. Expanding it materializes one
// Class per listed weekday; the classes outlive later edits and deletion.
type ClassPattern struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Type          string          `db:"type" json:"type"`
	DaysOfWeek    Weekdays        `db:"days_of_week" json:"days_of_week" swaggertype:"array,string"`
	StartTime     clock.TimeOfDay `db:"start_time" json:"start_time" swaggertype:"string"`
	EndTime       clock.TimeOfDay `db:"end_time" json:"end_time" swaggertype:"string"`
	Capacity      int             `db:"capacity" json:"capacity"`
	Color         string          `db:"color" json:"color"`
	LevelRequired *string         `db:"level_required" json:"level_required,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type CoachRef struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Class is one concrete weekly slot. Coaches is its base assignment.
type Class struct {
	ID            int64           `db:"id" json:"id"`
	PatternID     *int64          `db:"pattern_id" json:"pattern_id,omitempty"`
	Name          string          `db:"name" json:"name"`
	Type          string          `db:"type" json:"type"`
	DayOfWeek     clock.Weekday   `db:"day_of_week" json:"day_of_week" swaggertype:"string"`
	StartTime     clock.TimeOfDay `db:"start_time" json:"start_time" swaggertype:"string"`
	EndTime       clock.TimeOfDay `db:"end_time" json:"end_time" swaggertype:"string"`
	Capacity      int             `db:"capacity" json:"capacity"`
	Color         string          `db:"color" json:"color"`
	LevelRequired *string         `db:"level_required" json:"level_required,omitempty"`
	Active        bool            `db:"active" json:"active"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	Coaches       []CoachRef      `db:"-" json:"coaches"`
}

// Override replaces a class's coaches on one date only.
type Override struct {
	ClassID   int64     `db:"class_id" json:"class_id"`
	Date      string    `db:"override_date" json:"date"`
	CoachID   int64     `db:"coach_id" json:"coach_id"`
	CoachName string    `db:"coach_name" json:"coach_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Slot is a class on a concrete date with substitutions applied.
type Slot struct {
	ClassID          int64           `json:"class_id"`
	Date             string          `json:"date"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	StartTime        clock.TimeOfDay `json:"start_time" swaggertype:"string"`
	EndTime          clock.TimeOfDay `json:"end_time" swaggertype:"string"`
	Capacity         int             `json:"capacity"`
	Color            string          `json:"color"`
	BaseCoaches      []CoachRef      `json:"base_coaches"`
	EffectiveCoaches []CoachRef      `json:"effective_coaches"`
	IsSubstitute     bool            `json:"is_substitute"`
}

type ExpandResult struct {
	PatternID int64 `json:"pattern_id"`
	Created   int   `json:"created"`
	Skipped   int   `json:"skipped"`
}

type PatternRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Type          string          `json:"type" validate:"required,max=50"`
	DaysOfWeek    []clock.Weekday `json:"days_of_week" validate:"required,min=1,max=7,unique,dive,weekday" swaggertype:"array,string"`
	StartTime     clock.TimeOfDay `json:"start_time" validate:"timeofday" swaggertype:"string"`
	EndTime       clock.TimeOfDay `json:"end_time" validate:"timeofday" swaggertype:"string"`
	Capacity      int             `json:"capacity" validate:"required,gt=0"`
	Color         string          `json:"color" validate:"max=20"`
	LevelRequired *string         `json:"level_required" validate:"omitnil,max=50"`
}

type ClassRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Type          string          `json:"type" validate:"required,max=50"`
	DayOfWeek     clock.Weekday   `json:"day_of_week" validate:"weekday" swaggertype:"string"`
	StartTime     clock.TimeOfDay `json:"start_time" validate:"timeofday" swaggertype:"string"`
	EndTime       clock.TimeOfDay `json:"end_time" validate:"timeofday" swaggertype:"string"`
	Capacity      int             `json:"capacity" validate:"required,gt=0"`
	Color         string          `json:"color" validate:"max=20"`
	LevelRequired *string         `json:"level_required" validate:"omitnil,max=50"`
	CoachIDs      []int64         `json:"coach_ids" validate:"unique,dive,gt=0"`
}

type SetCoachesRequest struct {
	CoachIDs []int64 `json:"coach_ids" validate:"unique,dive,gt=0"`
}

type SubstituteRequest struct {
	CoachID int64 `json:"coach_id" validate:"required,gt=0"`
}
