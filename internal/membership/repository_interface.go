package membership

import "context"

type Repository interface {
	Create(ctx context.Context, req PlanRequest) (*Plan, error)
	Update(ctx context.Context, id int64, req PlanRequest) (*Plan, error)
	GetByID(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context, activeOnly bool) ([]Plan, error)
	SetActive(ctx context.Context, id int64, active bool) (*Plan, error)
}
