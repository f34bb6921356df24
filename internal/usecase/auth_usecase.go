package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase は会員登録とログインだけを持つ。
// カート・注文側は検証済みのuser_id/roleをmiddleware経由で受け取るだけで、
// 資格情報はここより先に出さない。
type AuthUsecase struct {
	userRepo   repo.UserRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	bcryptCost int
}

func NewAuthUsecase(userRepo repo.UserRepository, jwtSecret string) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  15 * time.Minute,
		bcryptCost: 12,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthOutput struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        model.User `json:"user"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	if _, err := u.userRepo.FindByEmail(ctx, email); err == nil {
		return model.User{}, NewHTTPError(http.StatusConflict, "email already registered")
	} else if err != repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	created, err := u.userRepo.Create(ctx, model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         model.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := time.Now()
	expiresAt := now.Add(u.accessTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.jwtSecret)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	if err := u.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil && err != repo.ErrNotFound {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AuthOutput{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
