package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPaid PaymentStatus = "PAID"
	PaymentVoid PaymentStatus = "VOID"
)

type Method string

const (
	MethodCash     Method = "CASH"
	MethodCard     Method = "CARD"
	MethodTransfer Method = "TRANSFER"
	MethodOther    Method = "OTHER"
)

// Subscription is one paid entitlement period for an athlete. EndDate is nil
// for plans without a duration.
type Subscription struct {
	ID          int64      `db:"id" json:"id"`
	AthleteID   int64      `db:"athlete_id" json:"athlete_id"`
	PlanID      int64      `db:"plan_id" json:"plan_id"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	Status      Status     `db:"status" json:"status"`
	ClassesUsed int        `db:"classes_used" json:"classes_used"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type Payment struct {
	ID             int64           `db:"id" json:"id"`
	AthleteID      int64           `db:"athlete_id" json:"athlete_id"`
	SubscriptionID int64           `db:"subscription_id" json:"subscription_id"`
	PlanID         int64           `db:"plan_id" json:"plan_id"`
	Amount         decimal.Decimal `db:"amount" json:"amount" swaggertype:"string"`
	Method         Method          `db:"method" json:"method"`
	Status         PaymentStatus   `db:"status" json:"status"`
	PeriodStart    time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd      *time.Time      `db:"period_end" json:"period_end,omitempty"`
	ReceiptNumber  string          `db:"receipt_number" json:"receipt_number"`
	Notes          string          `db:"notes" json:"notes"`
	VoidReason     *string         `db:"void_reason" json:"void_reason,omitempty"`
	VoidedAt       *time.Time      `db:"voided_at" json:"voided_at,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

type RegisterPaymentRequest struct {
	AthleteID int64           `json:"athlete_id" validate:"required,gt=0"`
	PlanID    int64           `json:"plan_id" validate:"required,gt=0"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string"`
	Method    Method          `json:"method" validate:"required,oneof=CASH CARD TRANSFER OTHER"`
	// StartDate is an optional civil date (YYYY-MM-DD) in the club's timezone.
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Notes     string `json:"notes" validate:"max=500"`
}

type VoidPaymentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type RegisterPaymentResult struct {
	Subscription *Subscription `json:"subscription"`
	Payment      *Payment      `json:"payment"`
}
