package profile

import (
	"context"
	"errors"
)

var ErrMissingUserID = errors.New("missing user id")

type Service interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, profile *UserProfile) (*UserProfile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, p *UserProfile) (*UserProfile, error) {
	if p.ID == "" {
		return nil, ErrMissingUserID
	}

	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}
