package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/JoshiWorld/rechnungssteller-api/internal/article"
	"github.com/JoshiWorld/rechnungssteller-api/internal/user"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrArticleNotFound = errors.New("article not found")
)

type Repository interface {
	// Create runs the whole creation sequence in one transaction: find or
	// create the user addressed by email, then insert the order row.
	Create(ctx context.Context, email, title, invoiceNo, token string) (*Order, error)
	AddArticles(ctx context.Context, orderID int64, articleIDs []int64) error
	MarkPaid(ctx context.Context, orderID int64) error
	Delete(ctx context.Context, orderID int64) error
	GetByID(ctx context.Context, orderID int64) (*Detail, error)
	GetByToken(ctx context.Context, token string) (*Detail, error)
	List(ctx context.Context) ([]Order, error)
	UpdateByToken(ctx context.Context, token string, userID int64, paid bool) error
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, email, title, invoiceNo, token string) (o *Order, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Error().Err(rbErr).Str("email", email).Msg("repository: failed to rollback order creation")
			}
		}
	}()

	userID, err := findOrCreateUser(ctx, tx, email)
	if err != nil {
		return nil, err
	}

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, title, invoice, paid, public_token)
		VALUES ($1, $2, $3, FALSE, $4)
		RETURNING id
	`, userID, title, invoiceNo, token).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to insert order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository: failed to commit order creation: %w", err)
	}

	return &Order{
		ID:          orderID,
		UserID:      userID,
		Title:       title,
		Invoice:     invoiceNo,
		Paid:        false,
		PublicToken: token,
	}, nil
}

// findOrCreateUser relies on the unique constraint on users.email: the
// ON CONFLICT DO NOTHING insert makes a concurrent creation of the same email
// converge on one row instead of racing into duplicates.
func findOrCreateUser(ctx context.Context, tx pgx.Tx, email string) (int64, error) {
	var userID int64
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("repository: failed to select user by email %q: %w", email, err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO users (email) VALUES ($1)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`, email).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race to another request; the row exists now.
		err = tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	}
	if err != nil {
		return 0, fmt.Errorf("repository: failed to create user %q: %w", email, err)
	}

	return userID, nil
}

func (r *postgresRepository) AddArticles(ctx context.Context, orderID int64, articleIDs []int64) (err error) {
	if len(articleIDs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Error().Err(rbErr).Int64("order_id", orderID).Msg("repository: failed to rollback article linking")
			}
		}
	}()

	// One row per id: a repeated article id is a repeated line item.
	for _, articleID := range articleIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_articles (order_id, article_id) VALUES ($1, $2)
		`, orderID, articleID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
				// Both constraints live on order_articles, so the table name
				// alone does not identify the violated side.
				if strings.Contains(pgErr.ConstraintName, "article_id") {
					return ErrArticleNotFound
				}
				return ErrNotFound
			}
			return fmt.Errorf("repository: failed to link article %d to order %d: %w", articleID, orderID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit article linking: %w", err)
	}

	return nil
}

func (r *postgresRepository) MarkPaid(ctx context.Context, orderID int64) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE orders SET paid = TRUE WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to mark order %d paid: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, orderID int64) error {
	// Link rows go with the order via ON DELETE CASCADE.
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to delete order %d: %w", orderID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

const detailQuery = `
	SELECT o.id, o.title, o.invoice, o.paid, o.public_token,
	       u.id, u.email, u.forename, u.surname, u.street, u.zip, u.city, u.country,
	       a.id, a.title, a.price, a.description
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN order_articles oa ON oa.order_id = o.id
	LEFT JOIN articles a ON a.id = oa.article_id
	WHERE %s
	ORDER BY a.id
`

func (r *postgresRepository) GetByID(ctx context.Context, orderID int64) (*Detail, error) {
	return r.getDetail(ctx, fmt.Sprintf(detailQuery, "o.id = $1"), orderID)
}

func (r *postgresRepository) GetByToken(ctx context.Context, token string) (*Detail, error) {
	return r.getDetail(ctx, fmt.Sprintf(detailQuery, "o.public_token = $1"), token)
}

func (r *postgresRepository) getDetail(ctx context.Context, query string, arg any) (*Detail, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query order detail: %w", err)
	}
	defer rows.Close()

	var detail *Detail
	for rows.Next() {
		var (
			d Detail
			u user.User

			// Article columns are NULL for orders without line items.
			articleID    *int64
			articleTitle *string
			articlePrice *float64
			articleDesc  *string
		)
		err := rows.Scan(
			&d.ID, &d.Title, &d.Invoice, &d.Paid, &d.PublicToken,
			&u.ID, &u.Email, &u.Forename, &u.Surname, &u.Street, &u.Zip, &u.City, &u.Country,
			&articleID, &articleTitle, &articlePrice, &articleDesc,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order detail: %w", err)
		}

		if detail == nil {
			d.User = u
			d.Articles = make([]article.Article, 0)
			detail = &d
		}

		if articleID != nil {
			detail.Articles = append(detail.Articles, article.Article{
				ID:          *articleID,
				Title:       *articleTitle,
				Price:       *articlePrice,
				Description: derefOrEmpty(articleDesc),
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating order detail: %w", err)
	}

	if detail == nil {
		return nil, ErrNotFound
	}

	return detail, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, title, invoice, paid, public_token
		FROM orders
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Title, &o.Invoice, &o.Paid, &o.PublicToken); err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *postgresRepository) UpdateByToken(ctx context.Context, token string, userID int64, paid bool) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE orders SET user_id = $1, paid = $2 WHERE public_token = $3
	`, userID, paid, token)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return user.ErrNotFound
		}
		return fmt.Errorf("repository: failed to update order %s: %w", token, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
