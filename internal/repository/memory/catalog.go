package memory

import (
	"context"
	"fmt"

	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/kirinyoku/courtgo/internal/repository"
)

type CourtRepo struct {
	s *Store
}

func (r *CourtRepo) List(ctx context.Context) ([]domain.Court, error) {
	return append([]domain.Court(nil), r.s.courts...), nil
}

func (r *CourtRepo) ByID(ctx context.Context, id string) (*domain.Court, error) {
	const op = "memory.CourtRepo.ByID"

	for _, c := range r.s.courts {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}

	return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
}

type UserRepo struct {
	s *Store
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), r.s.users...), nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	const op = "memory.UserRepo.ByID"

	for _, u := range r.s.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}

	return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
}
