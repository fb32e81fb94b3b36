package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JoshiWorld/rechnungssteller-api/internal/user"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func TestUserService_Create_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := user.NewService(mockRepo)

	testUser := &user.User{Email: "a@x.com"}
	mockRepo.On("Create", mock.Anything, testUser).Return(int64(7), nil).Once()

	created, err := svc.Create(context.Background(), testUser)

	require.NoError(t, err)
	require.Equal(t, int64(7), created.ID)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Create_EmailExists(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := user.NewService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*user.User")).
		Return(int64(0), user.ErrEmailExists).Once()

	created, err := svc.Create(context.Background(), &user.User{Email: "a@x.com"})

	require.ErrorIs(t, err, user.ErrEmailExists)
	require.Nil(t, created)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Get_DispatchesNumericToID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := user.NewService(mockRepo)

	expected := &user.User{ID: 7, Email: "a@x.com"}
	mockRepo.On("GetByID", mock.Anything, int64(7)).Return(expected, nil).Once()

	got, err := svc.Get(context.Background(), "7")

	require.NoError(t, err)
	require.Equal(t, expected, got)
	mockRepo.AssertNotCalled(t, "GetByEmail")
	mockRepo.AssertExpectations(t)
}

func TestUserService_Get_DispatchesEmailToEmailLookup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := user.NewService(mockRepo)

	expected := &user.User{ID: 7, Email: "a@x.com"}
	mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(expected, nil).Once()

	got, err := svc.Get(context.Background(), "a@x.com")

	require.NoError(t, err)
	require.Equal(t, expected, got)
	mockRepo.AssertNotCalled(t, "GetByID")
	mockRepo.AssertExpectations(t)
}

func TestUserService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := user.NewService(mockRepo)

	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*user.User")).
		Return(user.ErrNotFound).Once()

	err := svc.Update(context.Background(), &user.User{ID: 99, Email: "a@x.com"})

	require.ErrorIs(t, err, user.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
