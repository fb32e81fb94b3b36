package master

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("master not found")

type Repository interface {
	Upsert(ctx context.Context, role, passwordHash string) error
	GetByRole(ctx context.Context, role string) (*Master, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Upsert(ctx context.Context, role, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO master (role, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (role) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, role, passwordHash)
	if err != nil {
		return fmt.Errorf("repository: failed to upsert master %q: %w", role, err)
	}

	return nil
}

func (r *postgresRepository) GetByRole(ctx context.Context, role string) (*Master, error) {
	var m Master
	err := r.db.QueryRow(ctx, `
		SELECT role, password_hash FROM master WHERE role = $1
	`, role).Scan(&m.Role, &m.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select master %q: %w", role, err)
	}

	return &m, nil
}
