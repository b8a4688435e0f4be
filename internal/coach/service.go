package coach

import (
	"context"
	"strings"

	"fightclub/internal/apperr"
	"fightclub/internal/logger"
	"fightclub/internal/validation"
)

var (
	ErrCoachNotFound = apperr.NotFound("coach not found")
	ErrCoachInactive = apperr.Conflict("coach is inactive")
)

type Service interface {
	Create(ctx context.Context, req CreateCoachRequest) (*Coach, error)
	Get(ctx context.Context, id int64) (*Coach, error)
	List(ctx context.Context, activeOnly bool) ([]Coach, error)
	Deactivate(ctx context.Context, id int64) (*Coach, error)
	Reactivate(ctx context.Context, id int64) (*Coach, error)
	// RequireActive returns the coaches for ids, failing if any is missing or inactive.
	RequireActive(ctx context.Context, ids []int64) ([]Coach, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateCoachRequest) (*Coach, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		req.Email = &email
		if email == "" {
			req.Email = nil
		}
	}

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("coach created", "coach_id", c.ID)
	return c, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Coach, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]Coach, error) {
	return s.repo.List(ctx, activeOnly)
}

// Deactivate keeps the coach's history and current class assignments.
func (s *service) Deactivate(ctx context.Context, id int64) (*Coach, error) {
	return s.repo.SetActive(ctx, id, false)
}

func (s *service) Reactivate(ctx context.Context, id int64) (*Coach, error) {
	return s.repo.SetActive(ctx, id, true)
}

func (s *service) RequireActive(ctx context.Context, ids []int64) ([]Coach, error) {
	coaches, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[int64]Coach, len(coaches))
	for _, c := range coaches {
		found[c.ID] = c
	}
	for _, id := range ids {
		c, ok := found[id]
		if !ok {
			return nil, apperr.NotFound("coach %d not found", id)
		}
		if !c.Active {
			return nil, apperr.Conflict("coach %d is inactive", id)
		}
	}
	return coaches, nil
}
