package subscription

import (
	"fmt"
	"strings"
	"time"

	"fightclub/internal/clock"

	"github.com/google/uuid"
)

// PeriodEnd returns the last instant of a subscription that starts on start
// and lasts durationDays whole days: 23:59:59.999 of the final included day.
// A nil duration yields a nil end (open-ended plan).
func PeriodEnd(start time.Time, durationDays *int) *time.Time {
	if durationDays == nil {
		return nil
	}
	last := clock.StartOfDay(start).AddDate(0, 0, *durationDays).Add(-time.Second)
	end := clock.EndOfDay(last)
	return &end
}

// ChainedStart is the midnight following end, so a renewal starts with no gap
// and no overlap.
func ChainedStart(end time.Time) time.Time {
	return clock.StartOfDay(end).AddDate(0, 0, 1)
}

// NewReceiptNumber builds a receipt identifier such as REC-20240101-9F86D081.
func NewReceiptNumber(at time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("REC-%s-%s", at.Format("20060102"), strings.ToUpper(id[:8]))
}
