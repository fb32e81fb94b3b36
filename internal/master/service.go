package master

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/JoshiWorld/rechnungssteller-api/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid role or password")

type Service interface {
	Register(ctx context.Context, role, password string) error
	// Login verifies the password for the role and returns a signed bearer
	// token. An unknown role and a wrong password are indistinguishable to
	// the caller.
	Login(ctx context.Context, role, password string) (string, error)
}

type service struct {
	repo   Repository
	tokens *auth.Manager
}

func NewService(repo Repository, tokens *auth.Manager) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Register(ctx context.Context, role, password string) error {
	if password == "" {
		return errors.New("service: password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash master password")
		return fmt.Errorf("service: failed to hash password: %w", err)
	}

	if err := s.repo.Upsert(ctx, role, string(hash)); err != nil {
		log.Error().Err(err).Str("role", role).Msg("service: failed to store master")
		return fmt.Errorf("service: failed to store master: %w", err)
	}

	return nil
}

func (s *service) Login(ctx context.Context, role, password string) (string, error) {
	m, err := s.repo.GetByRole(ctx, role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("role", role).Msg("service: login for unknown master role")
			return "", ErrInvalidCredentials
		}
		log.Error().Err(err).Str("role", role).Msg("service: failed to fetch master")
		return "", fmt.Errorf("service: failed to fetch master: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("role", role).Msg("service: master password mismatch")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(m.Role)
	if err != nil {
		log.Error().Err(err).Str("role", role).Msg("service: failed to issue token")
		return "", fmt.Errorf("service: failed to issue token: %w", err)
	}

	return token, nil
}
