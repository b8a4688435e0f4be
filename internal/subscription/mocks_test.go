package subscription

import (
	"context"
	"time"

	"fightclub/internal/athlete"
	"fightclub/internal/membership"

	"github.com/stretchr/testify/mock"
)

// MockRepository satisfies Repository. InTx runs fn against the same mock so
// expectations cover transactional and plain calls alike.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InTx(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *MockRepository) LockAthlete(ctx context.Context, athleteID int64) error {
	return m.Called(ctx, athleteID).Error(0)
}

func (m *MockRepository) LatestActiveEndingAfter(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error) {
	args := m.Called(ctx, athleteID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) CurrentForAthlete(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error) {
	args := m.Called(ctx, athleteID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) ActiveBonoForAthlete(ctx context.Context, athleteID int64, t time.Time) (*Subscription, error) {
	args := m.Called(ctx, athleteID, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) CreateSubscription(ctx context.Context, sub *Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockRepository) GetSubscription(ctx context.Context, id int64) (*Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) CancelSubscription(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) IncrementClassesUsed(ctx context.Context, id int64) (*Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepository) ListByAthlete(ctx context.Context, athleteID int64) ([]Subscription, error) {
	args := m.Called(ctx, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Subscription), args.Error(1)
}

func (m *MockRepository) CreatePayment(ctx context.Context, p *Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) GetPayment(ctx context.Context, id int64) (*Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) GetPaymentForUpdate(ctx context.Context, id int64) (*Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) MarkPaymentVoid(ctx context.Context, id int64, reason *string, at time.Time) (*Payment, error) {
	args := m.Called(ctx, id, reason, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockRepository) ListPaymentsByAthlete(ctx context.Context, athleteID int64) ([]Payment, error) {
	args := m.Called(ctx, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

type MockAthletes struct {
	mock.Mock
}

func (m *MockAthletes) GetByID(ctx context.Context, id int64) (*athlete.Athlete, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*athlete.Athlete), args.Error(1)
}

type MockPlans struct {
	mock.Mock
}

func (m *MockPlans) GetByID(ctx context.Context, id int64) (*membership.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Plan), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, name, subject, body string) error {
	return m.Called(ctx, to, name, subject, body).Error(0)
}
