package subscription

import (
	"context"
	"strings"
	"time"

	"fightclub/internal/apperr"
	"fightclub/internal/athlete"
	"fightclub/internal/clock"
	"fightclub/internal/logger"
	"fightclub/internal/membership"
	"fightclub/internal/metrics"
	"fightclub/internal/validation"
)

var (
	ErrSubscriptionNotFound  = apperr.NotFound("subscription not found")
	ErrSubscriptionNotActive = apperr.Conflict("subscription is not active")
	ErrNotBono               = apperr.Invalid("subscription plan has no class count")
	ErrPaymentNotFound       = apperr.NotFound("payment not found")
	ErrPaymentAlreadyVoided  = apperr.Conflict("payment already voided")
)

type AthleteLookup interface {
	GetByID(ctx context.Context, id int64) (*athlete.Athlete, error)
}

type PlanLookup interface {
	GetByID(ctx context.Context, id int64) (*membership.Plan, error)
}

type Service interface {
	RegisterPayment(ctx context.Context, req RegisterPaymentRequest) (*RegisterPaymentResult, error)
	VoidPayment(ctx context.Context, paymentID int64, req VoidPaymentRequest) (*Payment, error)
	ConsumeClassBono(ctx context.Context, subscriptionID int64) (*Subscription, error)
	GetPayment(ctx context.Context, id int64) (*Payment, error)
	ListSubscriptions(ctx context.Context, athleteID int64) ([]Subscription, error)
	ListPayments(ctx context.Context, athleteID int64) ([]Payment, error)
}

type service struct {
	repo       Repository
	athletes   AthleteLookup
	plans      PlanLookup
	clock      clock.Clock
	loc        *time.Location
	mailer     Mailer
	newReceipt func(time.Time) string
}

// NewService wires the lifecycle. mailer may be nil, in which case no
// receipts are sent.
func NewService(repo Repository, athletes AthleteLookup, plans PlanLookup, clk clock.Clock, loc *time.Location, mailer Mailer) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:       repo,
		athletes:   athletes,
		plans:      plans,
		clock:      clk,
		loc:        loc,
		mailer:     mailer,
		newReceipt: NewReceiptNumber,
	}
}

func (s *service) RegisterPayment(ctx context.Context, req RegisterPaymentRequest) (*RegisterPaymentResult, error) {
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperr.Invalid("amount must be positive")
	}

	var explicitStart *time.Time
	if req.StartDate != "" {
		start, err := clock.ParseDate(req.StartDate, s.loc)
		if err != nil {
			return nil, apperr.Invalid("invalid start_date: %v", err)
		}
		explicitStart = &start
	}

	a, err := s.athletes.GetByID(ctx, req.AthleteID)
	if err != nil {
		return nil, err
	}
	if !a.Active {
		return nil, athlete.ErrAthleteInactive
	}

	plan, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, membership.ErrPlanInactive
	}

	now := s.clock.Now().In(s.loc)
	result := &RegisterPaymentResult{}

	err = s.repo.InTx(ctx, func(st Store) error {
		if err := st.LockAthlete(ctx, a.ID); err != nil {
			return err
		}

		start, err := s.resolveStart(ctx, st, a.ID, explicitStart, now)
		if err != nil {
			return err
		}

		sub := &Subscription{
			AthleteID: a.ID,
			PlanID:    plan.ID,
			StartDate: start,
			EndDate:   PeriodEnd(start, plan.DurationDays),
			Status:    StatusActive,
		}
		if err := st.CreateSubscription(ctx, sub); err != nil {
			return err
		}

		payment := &Payment{
			AthleteID:      a.ID,
			SubscriptionID: sub.ID,
			PlanID:         plan.ID,
			Amount:         req.Amount,
			Method:         req.Method,
			Status:         PaymentPaid,
			PeriodStart:    sub.StartDate,
			PeriodEnd:      sub.EndDate,
			ReceiptNumber:  s.newReceipt(now),
			Notes:          req.Notes,
		}
		if err := st.CreatePayment(ctx, payment); err != nil {
			return err
		}

		result.Subscription = sub
		result.Payment = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPaymentRegistered(string(req.Method))
	logger.Info("payment registered",
		"athlete_id", a.ID,
		"plan_id", plan.ID,
		"subscription_id", result.Subscription.ID,
		"receipt", result.Payment.ReceiptNumber,
		"start", clock.DateKey(result.Subscription.StartDate.In(s.loc)),
	)

	s.notifyRegistered(ctx, a, plan, result.Payment)
	return result, nil
}

// resolveStart picks the first day of a new period: the explicit date, else
// the day after the athlete's running subscription, else today.
func (s *service) resolveStart(ctx context.Context, st Store, athleteID int64, explicit *time.Time, now time.Time) (time.Time, error) {
	if explicit != nil {
		return clock.StartOfDay(explicit.In(s.loc)), nil
	}

	prev, err := st.LatestActiveEndingAfter(ctx, athleteID, now)
	if err != nil {
		return time.Time{}, err
	}
	if prev != nil && prev.EndDate != nil {
		return ChainedStart(prev.EndDate.In(s.loc)), nil
	}
	return clock.StartOfDay(now), nil
}

// VoidPayment marks a payment VOID and cancels the subscription it paid for.
func (s *service) VoidPayment(ctx context.Context, paymentID int64, req VoidPaymentRequest) (*Payment, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	now := s.clock.Now().In(s.loc)
	var voided *Payment

	err := s.repo.InTx(ctx, func(st Store) error {
		p, err := st.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.Status == PaymentVoid {
			return ErrPaymentAlreadyVoided
		}

		voided, err = st.MarkPaymentVoid(ctx, paymentID, reason, now)
		if err != nil {
			return err
		}
		if p.SubscriptionID != 0 {
			return st.CancelSubscription(ctx, p.SubscriptionID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPaymentVoided()
	logger.Info("payment voided",
		"payment_id", voided.ID,
		"subscription_id", voided.SubscriptionID,
		"receipt", voided.ReceiptNumber,
	)

	a, err := s.athletes.GetByID(ctx, voided.AthleteID)
	if err != nil {
		logger.Warn("void notice skipped", "payment_id", voided.ID, "error", err)
		return voided, nil
	}
	s.notifyVoided(ctx, a, voided)
	return voided, nil
}

func (s *service) ConsumeClassBono(ctx context.Context, subscriptionID int64) (*Subscription, error) {
	var sub *Subscription
	err := s.repo.InTx(ctx, func(st Store) error {
		var err error
		sub, err = ConsumeBono(ctx, st, s.plans, subscriptionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ConsumeBono uses one class of a class-count subscription through st. The
// caller owns the transaction and any check-in deduplication.
func ConsumeBono(ctx context.Context, st Store, plans PlanLookup, subscriptionID int64) (*Subscription, error) {
	sub, err := st.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	plan, err := plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsBono() {
		return nil, ErrNotBono
	}
	if sub.Status != StatusActive {
		return nil, ErrSubscriptionNotActive
	}

	updated, err := st.IncrementClassesUsed(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	exhausted := updated.Status == StatusExpired
	metrics.RecordBonoConsumed(exhausted)
	if exhausted {
		logger.Info("bono exhausted", "subscription_id", updated.ID, "classes_used", updated.ClassesUsed)
	}
	return updated, nil
}

func (s *service) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

func (s *service) ListSubscriptions(ctx context.Context, athleteID int64) ([]Subscription, error) {
	if _, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return nil, err
	}
	return s.repo.ListByAthlete(ctx, athleteID)
}

func (s *service) ListPayments(ctx context.Context, athleteID int64) ([]Payment, error) {
	if _, err := s.athletes.GetByID(ctx, athleteID); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentsByAthlete(ctx, athleteID)
}
