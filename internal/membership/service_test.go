package membership

import (
	"context"
	"testing"

	"fightclub/internal/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, req PlanRequest) (*Plan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, activeOnly bool) ([]Plan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Plan), args.Error(1)
}

func (m *MockRepository) SetActive(ctx context.Context, id int64, active bool) (*Plan, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func intPtr(v int) *int { return &v }

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)

	req := PlanRequest{Name: "Monthly", Price: decimal.NewFromInt(50), DurationDays: intPtr(30), WeeklyLimit: intPtr(3)}
	mockRepo.On("Create", mock.Anything, req).Return(&Plan{
		ID: 1, Name: "Monthly", Price: decimal.NewFromInt(50), DurationDays: intPtr(30), WeeklyLimit: intPtr(3), Active: true,
	}, nil)

	plan, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, plan.IsBono())
	assert.Equal(t, 30, *plan.DurationDays)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_BonoWithWeeklyLimit(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)

	req := PlanRequest{Name: "Bono 10", Price: decimal.RequireFromString("80.00"), ClassCount: intPtr(10), WeeklyLimit: intPtr(2)}
	mockRepo.On("Create", mock.Anything, req).Return(&Plan{ID: 2, Name: "Bono 10", ClassCount: intPtr(10), WeeklyLimit: intPtr(2)}, nil)

	plan, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, plan.IsBono())
}

func TestService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  PlanRequest
	}{
		{"missing name", PlanRequest{Price: decimal.NewFromInt(10)}},
		{"negative price", PlanRequest{Name: "X", Price: decimal.NewFromInt(-1)}},
		{"zero duration", PlanRequest{Name: "X", Price: decimal.NewFromInt(10), DurationDays: intPtr(0)}},
		{"negative class count", PlanRequest{Name: "X", Price: decimal.NewFromInt(10), ClassCount: intPtr(-3)}},
		{"zero weekly limit", PlanRequest{Name: "X", Price: decimal.NewFromInt(10), WeeklyLimit: intPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := NewService(mockRepo)

			_, err := svc.Create(context.Background(), tt.req)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)

	req := PlanRequest{Name: "Monthly", Price: decimal.NewFromInt(55), DurationDays: intPtr(30)}
	mockRepo.On("Update", mock.Anything, int64(9), req).Return(nil, ErrPlanNotFound)

	_, err := svc.Update(context.Background(), 9, req)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_DeactivateActivate(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)

	mockRepo.On("SetActive", mock.Anything, int64(1), false).Return(&Plan{ID: 1, Active: false}, nil)
	mockRepo.On("SetActive", mock.Anything, int64(1), true).Return(&Plan{ID: 1, Active: true}, nil)

	p, err := svc.Deactivate(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, p.Active)

	p, err = svc.Activate(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, p.Active)
	mockRepo.AssertExpectations(t)
}
