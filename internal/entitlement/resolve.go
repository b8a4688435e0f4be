package entitlement

import (
	"time"

	"fightclub/internal/clock"
	"fightclub/internal/membership"
	"fightclub/internal/subscription"
)

// Resolve derives the display status of sub at now. plan is the plan sub
// was sold under and may be nil only when sub is nil. weeklyUsed is the
// number of attendances in the Monday-Sunday week containing now.
func Resolve(sub *subscription.Subscription, plan *membership.Plan, weeklyUsed int, now time.Time) Status {
	st := Status{WeeklyUsed: weeklyUsed}

	if sub == nil || sub.Status == subscription.StatusCancelled {
		st.Color, st.Label = Red, LabelNoMembership
		return st
	}

	id := sub.ID
	st.SubscriptionID = &id
	st.EndDate = sub.EndDate

	if plan != nil {
		st.PlanName = plan.Name
		st.WeeklyLimit = plan.WeeklyLimit
		if plan.WeeklyLimit != nil {
			st.WeeklyLimitReached = weeklyUsed >= *plan.WeeklyLimit
		}
		if plan.IsBono() {
			used := sub.ClassesUsed
			st.ClassesUsed = &used
			st.ClassCount = plan.ClassCount
		}
	}

	switch {
	case sub.Status == subscription.StatusExpired:
		st.Color, st.Label = Red, LabelExpired
	case sub.EndDate == nil || !now.After(*sub.EndDate):
		st.Color, st.Label = Green, LabelActive
	case !now.After(GraceEnd(*sub.EndDate, now.Location())):
		st.Color, st.Label = Yellow, LabelGrace
	default:
		st.Color, st.Label = Red, LabelExpired
	}
	return st
}

// GraceEnd is the last instant of the grace window for a subscription that
// ends at end: midnight GraceDays days after the first unpaid day.
func GraceEnd(end time.Time, loc *time.Location) time.Time {
	return clock.StartOfDay(end.In(loc)).AddDate(0, 0, GraceDays+1)
}
