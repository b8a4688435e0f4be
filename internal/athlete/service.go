package athlete

import (
	"context"
	"strings"

	"fightclub/internal/apperr"
	"fightclub/internal/logger"
	"fightclub/internal/validation"
)

var (
	ErrAthleteNotFound = apperr.NotFound("athlete not found")
	ErrAthleteInactive = apperr.Conflict("athlete is inactive")
)

type Service interface {
	Create(ctx context.Context, req CreateAthleteRequest) (*Athlete, error)
	Get(ctx context.Context, id int64) (*Athlete, error)
	List(ctx context.Context, activeOnly bool) ([]Athlete, error)
	Deactivate(ctx context.Context, id int64) (*Athlete, error)
	Reactivate(ctx context.Context, id int64) (*Athlete, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateAthleteRequest) (*Athlete, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = trimOptional(req.Email)
	req.Phone = trimOptional(req.Phone)
	req.Level = trimOptional(req.Level)

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	a, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	logger.Info("athlete created", "athlete_id", a.ID)
	return a, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Athlete, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]Athlete, error) {
	return s.repo.List(ctx, activeOnly)
}

// Deactivate hides the athlete from check-in and payment. History is kept.
func (s *service) Deactivate(ctx context.Context, id int64) (*Athlete, error) {
	return s.repo.SetActive(ctx, id, false)
}

func (s *service) Reactivate(ctx context.Context, id int64) (*Athlete, error) {
	return s.repo.SetActive(ctx, id, true)
}

// trimOptional turns blank optional strings into NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
