package clock

import "time"

const endOfDayNanos = int(999 * time.Millisecond)

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, endOfDayNanos, t.Location())
}

// WeekBounds returns the Monday-anchored week containing ref: midnight of the
// Monday on or before ref, and 23:59:59.999 of the following Sunday.
// Sunday is the last day of its week.
func WeekBounds(ref time.Time) (start, end time.Time) {
	offset := (int(ref.Weekday()) + 6) % 7
	start = StartOfDay(ref).AddDate(0, 0, -offset)
	end = EndOfDay(start.AddDate(0, 0, 6))
	return start, end
}

// DateKey formats the calendar day of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDate parses a YYYY-MM-DD civil date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

// SameDay reports whether a and b fall on the same calendar day,
// each read in its own location.
func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}

// DaysInRange lists the midnight of every calendar day from start to end
// inclusive. It returns nil when end is before start.
func DaysInRange(start, end time.Time) []time.Time {
	from := StartOfDay(start)
	to := StartOfDay(end)
	if to.Before(from) {
		return nil
	}
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
