package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JoshiWorld/rechnungssteller-api/internal/auth"
)

// NewRouter wires the resource route groups under /api. The master login,
// order creation and the token lookup stay public: they are the storefront
// checkout path. Everything else requires a master bearer token.
func NewRouter(tokens *auth.Manager, orders *OrderHandler, users *UserHandler, articles *ArticleHandler, masters *MasterHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("OK"))
		})

		r.Route("/order", func(r chi.Router) {
			r.Post("/create", orders.handleCreateOrder)
			r.With(tokens.Optional).Get("/{id}", orders.handleGetOrder)

			r.Group(func(r chi.Router) {
				r.Use(tokens.Require)
				r.Get("/list/get", orders.handleListOrders)
				r.Put("/{id}", orders.handleUpdateOrder)
				r.Delete("/{id}", orders.handleDeleteOrder)
				r.Get("/pay/{id}", orders.handleMarkPaid)
				r.Post("/addArticles", orders.handleAddArticles)
				r.Post("/sendOrder", orders.handleSendOrder)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(tokens.Require)
			r.Post("/create", users.handleCreateUser)
			r.Get("/{id}", users.handleGetUser)
			r.Put("/update/{userId}", users.handleUpdateUser)
		})

		r.Route("/article", func(r chi.Router) {
			r.Use(tokens.Require)
			r.Get("/get/list", articles.handleListArticles)
			r.Post("/create", articles.handleCreateArticle)
			r.Get("/{id}", articles.handleGetArticle)
			r.Put("/{id}", articles.handleUpdateArticle)
		})

		r.Route("/master", func(r chi.Router) {
			r.Post("/login", masters.handleLogin)
			r.With(tokens.Require).Post("/create", masters.handleRegister)
		})
	})

	return r
}
