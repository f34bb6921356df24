package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context, page int, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, page, limit)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserRepoMock) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	created, _ := args.Get(0).(model.User)
	return created, args.Error(1)
}

func (m *UserRepoMock) UpdateProfile(ctx context.Context, id string, name string, phone string, cpf string) error {
	args := m.Called(ctx, id, name, phone, cpf)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateRole(ctx context.Context, id string, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

const testJWTSecret = "test-secret"

// テストではMinCostで十分（比較ロジックはコストに依存しない）
func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

// =====================
// Register tests
// =====================

func TestAuthUsecase_Register_NormalizesEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, testJWTSecret)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{}, repo.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "taro@example.com" &&
			u.Role == model.RoleUser &&
			u.IsActive &&
			u.PasswordHash != "" &&
			u.PasswordHash != "password123"
	})).Return(model.User{ID: "user-1", Email: "taro@example.com", Role: model.RoleUser}, nil)

	created, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "  Taro@Example.COM ",
		Password: "password123",
		Name:     "Taro",
	})

	assert.NoError(t, err)
	assert.Equal(t, "taro@example.com", created.Email)
}

func TestAuthUsecase_Register_ShortPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, testJWTSecret)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "short",
		Name:     "Taro",
	})

	assertErrContains(t, err, "password must be at least 8 characters")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, testJWTSecret)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.User{ID: "user-1"}, nil)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "password123",
		Name:     "Taro",
	})

	assertErrContains(t, err, "email already registered")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

// =====================
// Login tests
// =====================

func TestAuthUsecase_Login_Success(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, testJWTSecret)

	user := model.User{
		ID:           "user-1",
		Email:        "taro@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(user, nil)
	users.On("UpdateLastLogin", mock.Anything, "user-1", mock.Anything).Return(nil)

	out, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "Taro@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	assert.True(t, out.ExpiresAt.After(time.Now()))

	// sub/roleがクレームに乗っていること
	tok, err := jwt.Parse(out.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims, ok := tok.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, testJWTSecret)

	user := model.User{
		ID:           "user-1",
		Email:        "taro@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         model.RoleUser,
		IsActive:     true,
	}
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(user, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "taro@example.com",
		Password: "wrong-password",
	})

	assertErrContains(t, err, "invalid credentials")
	users.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, testJWTSecret)

	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)

	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	// 存在しないユーザーもパスワード違いと同じ応答
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_InactiveUser(t *testing.T) {
	users := new(UserRepoMock)
	uc := usecase.NewAuthUsecase(users, testJWTSecret)

	user := model.User{
		ID:           "user-1",
		Email:        "taro@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         model.RoleUser,
		IsActive:     false,
	}
	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(user, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "taro@example.com",
		Password: "password123",
	})

	assertErrContains(t, err, "invalid credentials")
}
