package subscription

import (
	"context"
	"fmt"

	"fightclub/internal/athlete"
	"fightclub/internal/clock"
	"fightclub/internal/logger"
	"fightclub/internal/membership"
)

// Mailer queues one plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, name, subject, body string) error
}

func (s *service) notifyRegistered(ctx context.Context, a *athlete.Athlete, plan *membership.Plan, p *Payment) {
	if s.mailer == nil || a.Email == nil {
		return
	}

	period := "from " + clock.DateKey(p.PeriodStart.In(s.loc))
	if p.PeriodEnd != nil {
		period += " to " + clock.DateKey(p.PeriodEnd.In(s.loc))
	}

	subject := fmt.Sprintf("Payment receipt %s", p.ReceiptNumber)
	body := fmt.Sprintf("Hello %s,\n\n"+
		"We have received your payment of %s (%s) for the plan \"%s\".\n"+
		"Membership period: %s.\n"+
		"Receipt: %s\n\n"+
		"See you on the mats!",
		a.FirstName, p.Amount.StringFixed(2), p.Method, plan.Name, period, p.ReceiptNumber)

	if err := s.mailer.Send(ctx, *a.Email, a.FullName(), subject, body); err != nil {
		logger.Warn("failed to queue payment receipt", "payment_id", p.ID, "error", err)
	}
}

func (s *service) notifyVoided(ctx context.Context, a *athlete.Athlete, p *Payment) {
	if s.mailer == nil || a == nil || a.Email == nil {
		return
	}

	subject := fmt.Sprintf("Payment %s cancelled", p.ReceiptNumber)
	body := fmt.Sprintf("Hello %s,\n\n"+
		"Your payment %s of %s has been cancelled and the related membership period is no longer valid.\n",
		a.FirstName, p.ReceiptNumber, p.Amount.StringFixed(2))
	if p.VoidReason != nil && *p.VoidReason != "" {
		body += "Reason: " + *p.VoidReason + "\n"
	}

	if err := s.mailer.Send(ctx, *a.Email, a.FullName(), subject, body); err != nil {
		logger.Warn("failed to queue void notice", "payment_id", p.ID, "error", err)
	}
}
