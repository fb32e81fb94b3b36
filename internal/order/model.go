package order

import (
	"github.com/JoshiWorld/rechnungssteller-api/internal/article"
	"github.com/JoshiWorld/rechnungssteller-api/internal/user"
)

// Order is the summary row returned by the creation workflow and the list
// endpoint. PublicToken is the externally shared identifier ("uuid" on the
// wire, historically); ID stays internal.
type Order struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Invoice     string `json:"invoice"`
	Paid        bool   `json:"paid"`
	PublicToken string `json:"uuid"`
}

// Detail is an order with its user and line items resolved, as served by the
// single-order lookup and consumed by the invoice renderer.
type Detail struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Invoice     string            `json:"invoice"`
	Paid        bool              `json:"paid"`
	PublicToken string            `json:"uuid"`
	User        user.User         `json:"user"`
	Articles    []article.Article `json:"articles"`
}
