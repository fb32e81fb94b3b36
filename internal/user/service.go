package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Service interface {
	Create(ctx context.Context, u *User) (*User, error)
	// Get resolves idOrEmail as an internal id when it is numeric and as an
	// email address otherwise.
	Get(ctx context.Context, idOrEmail string) (*User, error)
	Update(ctx context.Context, u *User) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, u *User) (*User, error) {
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, ErrEmailExists
		}
		log.Error().Err(err).Str("email", u.Email).Msg("service: failed to create user")
		return nil, fmt.Errorf("service: failed to create user: %w", err)
	}

	u.ID = id
	return u, nil
}

func (s *service) Get(ctx context.Context, idOrEmail string) (*User, error) {
	var (
		u   *User
		err error
	)
	if id, convErr := strconv.ParseInt(idOrEmail, 10, 64); convErr == nil {
		u, err = s.repo.GetByID(ctx, id)
	} else {
		u, err = s.repo.GetByEmail(ctx, idOrEmail)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("user", idOrEmail).Msg("service: user not found")
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("user", idOrEmail).Msg("service: failed to fetch user")
		return nil, fmt.Errorf("service: failed to fetch user %q: %w", idOrEmail, err)
	}

	return u, nil
}

func (s *service) Update(ctx context.Context, u *User) error {
	err := s.repo.Update(ctx, u)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if errors.Is(err, ErrEmailExists) {
			return ErrEmailExists
		}
		log.Error().Err(err).Int64("user_id", u.ID).Msg("service: failed to update user")
		return fmt.Errorf("service: failed to update user %d: %w", u.ID, err)
	}

	return nil
}
