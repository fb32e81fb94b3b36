package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoshiWorld/rechnungssteller-api/internal/article"
	"github.com/JoshiWorld/rechnungssteller-api/internal/auth"
	"github.com/JoshiWorld/rechnungssteller-api/internal/order"
	"github.com/JoshiWorld/rechnungssteller-api/internal/user"
)

type mockUserService struct {
	CreateFunc func(ctx context.Context, u *user.User) (*user.User, error)
	GetFunc    func(ctx context.Context, idOrEmail string) (*user.User, error)
	UpdateFunc func(ctx context.Context, u *user.User) error
}

func (m *mockUserService) Create(ctx context.Context, u *user.User) (*user.User, error) {
	return m.CreateFunc(ctx, u)
}

func (m *mockUserService) Get(ctx context.Context, idOrEmail string) (*user.User, error) {
	return m.GetFunc(ctx, idOrEmail)
}

func (m *mockUserService) Update(ctx context.Context, u *user.User) error {
	return m.UpdateFunc(ctx, u)
}

type mockArticleService struct {
	CreateFunc  func(ctx context.Context, a *article.Article) (*article.Article, error)
	GetByIDFunc func(ctx context.Context, id int64) (*article.Article, error)
	UpdateFunc  func(ctx context.Context, a *article.Article) error
	ListFunc    func(ctx context.Context) ([]article.Article, error)
}

func (m *mockArticleService) Create(ctx context.Context, a *article.Article) (*article.Article, error) {
	return m.CreateFunc(ctx, a)
}

func (m *mockArticleService) GetByID(ctx context.Context, id int64) (*article.Article, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockArticleService) Update(ctx context.Context, a *article.Article) error {
	return m.UpdateFunc(ctx, a)
}

func (m *mockArticleService) List(ctx context.Context) ([]article.Article, error) {
	return m.ListFunc(ctx)
}

type mockMasterService struct {
	RegisterFunc func(ctx context.Context, role, password string) error
	LoginFunc    func(ctx context.Context, role, password string) (string, error)
}

func (m *mockMasterService) Register(ctx context.Context, role, password string) error {
	return m.RegisterFunc(ctx, role, password)
}

func (m *mockMasterService) Login(ctx context.Context, role, password string) (string, error) {
	return m.LoginFunc(ctx, role, password)
}

func newTestRouter(t *testing.T, orderSvc order.Service) (http.Handler, *auth.Manager) {
	t.Helper()

	tokens := auth.NewManager("test-secret", time.Hour)

	articleSvc := &mockArticleService{
		ListFunc: func(ctx context.Context) ([]article.Article, error) {
			return []article.Article{}, nil
		},
	}

	router := NewRouter(tokens,
		NewOrderHandler(orderSvc, &mockSender{}),
		NewUserHandler(&mockUserService{}),
		NewArticleHandler(articleSvc),
		NewMasterHandler(&mockMasterService{}),
	)

	return router, tokens
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router, tokens := newTestRouter(t, &mockOrderService{
		ListFunc: func(ctx context.Context) ([]order.Order, error) {
			return []order.Order{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/order/list/get", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/order/list/get", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := tokens.Issue("admin")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/order/list/get", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_OrderCreationIsPublic(t *testing.T) {
	router, _ := newTestRouter(t, &mockOrderService{
		CreateFunc: func(ctx context.Context, email, title string) (*order.Order, error) {
			return &order.Order{ID: 1, Title: title}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/order/create",
		strings.NewReader(`{"email":"a@x.com","title":"Order1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_MasterTokenLiftsPaidRestriction(t *testing.T) {
	var gotIncludePaid bool
	router, tokens := newTestRouter(t, &mockOrderService{
		GetFunc: func(ctx context.Context, idOrToken string, includePaid bool) (*order.Detail, error) {
			gotIncludePaid = includePaid
			return &order.Detail{ID: 5, Paid: true}, nil
		},
	})

	token, err := tokens.Issue("admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/order/5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotIncludePaid)
}

func TestRouter_HealthCheck(t *testing.T) {
	router, _ := newTestRouter(t, &mockOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
