package article

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Service interface {
	Create(ctx context.Context, a *Article) (*Article, error)
	GetByID(ctx context.Context, id int64) (*Article, error)
	Update(ctx context.Context, a *Article) error
	List(ctx context.Context) ([]Article, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, a *Article) (*Article, error) {
	if a.Price < 0 {
		return nil, errors.New("service: article price cannot be negative")
	}

	id, err := s.repo.Create(ctx, a)
	if err != nil {
		log.Error().Err(err).Str("title", a.Title).Msg("service: failed to create article")
		return nil, fmt.Errorf("service: failed to create article: %w", err)
	}

	a.ID = id
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Int64("article_id", id).Msg("service: article not found")
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("article_id", id).Msg("service: failed to fetch article")
		return nil, fmt.Errorf("service: failed to fetch article %d: %w", id, err)
	}

	return a, nil
}

func (s *service) Update(ctx context.Context, a *Article) error {
	if a.Price < 0 {
		return errors.New("service: article price cannot be negative")
	}

	err := s.repo.Update(ctx, a)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Int64("article_id", a.ID).Msg("service: failed to update article")
		return fmt.Errorf("service: failed to update article %d: %w", a.ID, err)
	}

	return nil
}

func (s *service) List(ctx context.Context) ([]Article, error) {
	articles, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list articles")
		return nil, fmt.Errorf("service: failed to list articles: %w", err)
	}

	return articles, nil
}
