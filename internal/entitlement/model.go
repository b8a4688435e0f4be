package entitlement

import "time"

// Color is the traffic-light shown next to an athlete.
type Color string

const (
	Green  Color = "GREEN"
	Yellow Color = "YELLOW"
	Red    Color = "RED"
)

type Label string

const (
	LabelNoMembership Label = "no membership"
	LabelActive       Label = "active"
	LabelGrace        Label = "grace period"
	LabelExpired      Label = "expired"
)

// GraceDays is how many whole days after expiry an athlete is still shown
// as a warning rather than expired.
const GraceDays = 5

type Status struct {
	AthleteID          int64      `json:"athlete_id"`
	Color              Color      `json:"color"`
	Label              Label      `json:"label"`
	WeeklyUsed         int        `json:"weekly_used"`
	WeeklyLimit        *int       `json:"weekly_limit,omitempty"`
	WeeklyLimitReached bool       `json:"weekly_limit_reached"`
	ClassesUsed        *int       `json:"classes_used,omitempty"`
	ClassCount         *int       `json:"class_count,omitempty"`
	SubscriptionID     *int64     `json:"subscription_id,omitempty"`
	PlanName           string     `json:"plan_name,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
}
