package membership

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a sellable membership. DurationDays bounds it in time, ClassCount
// makes it a bono, WeeklyLimit caps sessions per Monday-Sunday week. Any of
// the three may be absent.
type Plan struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  string          `db:"description" json:"description"`
	Price        decimal.Decimal `db:"price" json:"price" swaggertype:"string"`
	DurationDays *int            `db:"duration_days" json:"duration_days,omitempty"`
	ClassCount   *int            `db:"class_count" json:"class_count,omitempty"`
	WeeklyLimit  *int            `db:"weekly_limit" json:"weekly_limit,omitempty"`
	Active       bool            `db:"active" json:"active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// IsBono reports whether the plan is sold as a fixed number of classes.
func (p *Plan) IsBono() bool {
	return p.ClassCount != nil
}

type PlanRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Description  string          `json:"description" validate:"max=500"`
	Price        decimal.Decimal `json:"price" swaggertype:"string"`
	DurationDays *int            `json:"duration_days" validate:"omitnil,gt=0"`
	ClassCount   *int            `json:"class_count" validate:"omitnil,gt=0"`
	WeeklyLimit  *int            `json:"weekly_limit" validate:"omitnil,gt=0"`
}
