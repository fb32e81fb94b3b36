package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mathrand "math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Service interface {
	Create(ctx context.Context, email, title string) (*Order, error)
	AddArticles(ctx context.Context, orderID int64, articleIDs []int64) error
	MarkPaid(ctx context.Context, orderID int64) error
	Delete(ctx context.Context, orderID int64) error
	// Get resolves idOrToken as an internal id when numeric and as a public
	// token otherwise. With includePaid false, already-paid orders are
	// reported as not found: a settled order's payment link goes dead for
	// anyone without a master token.
	Get(ctx context.Context, idOrToken string, includePaid bool) (*Detail, error)
	List(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, token string, userID int64, paid bool) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, email, title string) (*Order, error) {
	if email == "" {
		return nil, errors.New("service: order email cannot be empty")
	}
	if title == "" {
		return nil, errors.New("service: order title cannot be empty")
	}

	token, err := newPublicToken()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate order token: %w", err)
	}
	invoiceNo := newInvoiceNumber(time.Now())

	o, err := s.repo.Create(ctx, email, title, invoiceNo, token)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("service: failed to create order")
		return nil, fmt.Errorf("service: failed to create order: %w", err)
	}

	log.Info().Int64("order_id", o.ID).Int64("user_id", o.UserID).Str("invoice", o.Invoice).Msg("service: order created")
	return o, nil
}

func (s *service) AddArticles(ctx context.Context, orderID int64, articleIDs []int64) error {
	if len(articleIDs) == 0 {
		return nil
	}

	err := s.repo.AddArticles(ctx, orderID, articleIDs)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrArticleNotFound) {
			log.Warn().Err(err).Int64("order_id", orderID).Msg("service: cannot link articles")
			return err
		}
		log.Error().Err(err).Int64("order_id", orderID).Msg("service: failed to link articles")
		return fmt.Errorf("service: failed to link articles to order %d: %w", orderID, err)
	}

	return nil
}

func (s *service) MarkPaid(ctx context.Context, orderID int64) error {
	err := s.repo.MarkPaid(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Int64("order_id", orderID).Msg("service: order not found for payment")
			return ErrNotFound
		}
		log.Error().Err(err).Int64("order_id", orderID).Msg("service: failed to mark order paid")
		return fmt.Errorf("service: failed to mark order %d paid: %w", orderID, err)
	}

	log.Info().Int64("order_id", orderID).Msg("service: order marked paid")
	return nil
}

func (s *service) Delete(ctx context.Context, orderID int64) error {
	err := s.repo.Delete(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Int64("order_id", orderID).Msg("service: failed to delete order")
		return fmt.Errorf("service: failed to delete order %d: %w", orderID, err)
	}

	return nil
}

func (s *service) Get(ctx context.Context, idOrToken string, includePaid bool) (*Detail, error) {
	var (
		detail *Detail
		err    error
	)
	if id, convErr := strconv.ParseInt(idOrToken, 10, 64); convErr == nil {
		detail, err = s.repo.GetByID(ctx, id)
	} else {
		detail, err = s.repo.GetByToken(ctx, idOrToken)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("order", idOrToken).Msg("service: order not found")
			return nil, ErrNotFound
		}
		log.Error().Err(err).Str("order", idOrToken).Msg("service: failed to fetch order")
		return nil, fmt.Errorf("service: failed to fetch order %q: %w", idOrToken, err)
	}

	if detail.Paid && !includePaid {
		return nil, ErrNotFound
	}

	return detail, nil
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *service) Update(ctx context.Context, token string, userID int64, paid bool) error {
	err := s.repo.UpdateByToken(ctx, token, userID, paid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		log.Error().Err(err).Str("order", token).Msg("service: failed to update order")
		return fmt.Errorf("service: failed to update order %s: %w", token, err)
	}

	return nil
}

// newPublicToken returns the externally shared order identifier: 32 random
// bytes, hex encoded to 64 characters.
func newPublicToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// newInvoiceNumber builds the invoice identifier: a random number between
// 1000 and 999999 with the current four-digit year appended. Collisions are
// possible and accepted, matching the numbering scheme customers already have
// on file.
func newInvoiceNumber(now time.Time) string {
	n := mathrand.Intn(999999-1000+1) + 1000
	return strconv.Itoa(n) + strconv.Itoa(now.Year())
}
