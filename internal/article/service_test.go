package article_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoshiWorld/rechnungssteller-api/internal/article"
)

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, a *article.Article) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*article.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*article.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(ctx context.Context, a *article.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockArticleRepository) List(ctx context.Context) ([]article.Article, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]article.Article), args.Error(1)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id from repository", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := article.NewService(repo)

		a := &article.Article{Title: "Album", Price: 19.99}
		repo.On("Create", ctx, a).Return(int64(7), nil)

		created, err := svc.Create(ctx, a)

		require.NoError(t, err)
		assert.Equal(t, int64(7), created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := article.NewService(repo)

		_, err := svc.Create(ctx, &article.Article{Title: "Album", Price: -0.01})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := article.NewService(repo)

		a := &article.Article{Title: "Freebie", Price: 0}
		repo.On("Create", ctx, a).Return(int64(1), nil)

		_, err := svc.Create(ctx, a)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("not found passes through", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := article.NewService(repo)

		repo.On("GetByID", ctx, int64(42)).Return(nil, article.ErrNotFound)

		_, err := svc.GetByID(ctx, 42)

		assert.ErrorIs(t, err, article.ErrNotFound)
	})

	t.Run("repository errors are wrapped", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := article.NewService(repo)

		dbErr := errors.New("connection reset")
		repo.On("GetByID", ctx, int64(42)).Return(nil, dbErr)

		_, err := svc.GetByID(ctx, 42)

		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects negative price", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := article.NewService(repo)

		err := svc.Update(ctx, &article.Article{ID: 1, Title: "Album", Price: -5})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("not found passes through", func(t *testing.T) {
		repo := new(MockArticleRepository)
		svc := article.NewService(repo)

		a := &article.Article{ID: 99, Title: "Album", Price: 10}
		repo.On("Update", ctx, a).Return(article.ErrNotFound)

		err := svc.Update(ctx, a)

		assert.ErrorIs(t, err, article.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	repo := new(MockArticleRepository)
	svc := article.NewService(repo)

	want := []article.Article{
		{ID: 1, Title: "Album", Price: 19.99},
		{ID: 2, Title: "Single", Price: 2.49},
	}
	repo.On("List", ctx).Return(want, nil)

	got, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
