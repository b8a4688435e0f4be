package athlete

import "context"

type Repository interface {
	Create(ctx context.Context, req CreateAthleteRequest) (*Athlete, error)
	GetByID(ctx context.Context, id int64) (*Athlete, error)
	List(ctx context.Context, activeOnly bool) ([]Athlete, error)
	SetActive(ctx context.Context, id int64, active bool) (*Athlete, error)
}
