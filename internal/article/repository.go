package article

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("article not found")

type Repository interface {
	Create(ctx context.Context, a *Article) (int64, error)
	GetByID(ctx context.Context, id int64) (*Article, error)
	Update(ctx context.Context, a *Article) error
	List(ctx context.Context) ([]Article, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *Article) (int64, error) {
	query := `
		INSERT INTO articles (title, price, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRow(ctx, query, a.Title, a.Price, a.Description).Scan(&id); err != nil {
		return 0, fmt.Errorf("repository: failed to insert article: %w", err)
	}

	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*Article, error) {
	query := `
		SELECT id, title, price, description
		FROM articles
		WHERE id = $1
	`

	var a Article
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Title, &a.Price, &a.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select article by id %d: %w", id, err)
	}

	return &a, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *Article) error {
	query := `
		UPDATE articles
		SET title = $1, price = $2, description = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, a.Title, a.Price, a.Description, a.ID)
	if err != nil {
		return fmt.Errorf("repository: failed to update article %d: %w", a.ID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Article, error) {
	query := `
		SELECT id, title, price, description
		FROM articles
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]Article, 0)
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Price, &a.Description); err != nil {
			return nil, fmt.Errorf("repository: failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating articles: %w", err)
	}

	return articles, nil
}
