package membership

import (
	"context"
	"strings"

	"fightclub/internal/apperr"
	"fightclub/internal/logger"
	"fightclub/internal/validation"
)

var (
	ErrPlanNotFound = apperr.NotFound("membership plan not found")
	ErrPlanInactive = apperr.Conflict("membership plan is inactive")
)

type Service interface {
	Create(ctx context.Context, req PlanRequest) (*Plan, error)
	Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error)
	Get(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]Plan, error)
	Deactivate(ctx context.Context, id int64) (*Plan, error)
	Activate(ctx context.Context, id int64) (*Plan, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validatePlan(req *PlanRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	if err := validation.Struct(req); err != nil {
		return err
	}
	if req.Price.IsNegative() {
		return apperr.Invalid("price must not be negative")
	}
	return nil
}

func (s *service) Create(ctx context.Context, req PlanRequest) (*Plan, error) {
	if err := validatePlan(&req); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("membership plan created", "plan_id", p.ID, "name", p.Name)
	return p, nil
}

// Update edits a plan in place. Existing subscriptions keep their computed
// dates; only future payments see the new terms.
func (s *service) Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error) {
	if err := validatePlan(&req); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

func (s *service) Get(ctx context.Context, id int64) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]Plan, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) Deactivate(ctx context.Context, id int64) (*Plan, error) {
	return s.repo.SetActive(ctx, id, false)
}

func (s *service) Activate(ctx context.Context, id int64) (*Plan, error) {
	return s.repo.SetActive(ctx, id, true)
}
