package coach

import "context"

type Repository interface {
	Create(ctx context.Context, req CreateCoachRequest) (*Coach, error)
	GetByID(ctx context.Context, id int64) (*Coach, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Coach, error)
	List(ctx context.Context, activeOnly bool) ([]Coach, error)
	SetActive(ctx context.Context, id int64, active bool) (*Coach, error)
}
