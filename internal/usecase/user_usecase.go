package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// UserUsecase はプロフィール（/me）と管理者のユーザー管理を持つ。
type UserUsecase struct {
	userRepo repo.UserRepository
}

// DI
func NewUserUsecase(userRepo repo.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

// プロフィール更新DTO。nilの項目は触らない。
type UpdateProfileInput struct {
	Name  *string
	Phone *string
	CPF   *string
}

type UserListOutput struct {
	Items []model.User `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *UserUsecase) GetMe(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

func (u *UserUsecase) UpdateMe(ctx context.Context, userID string, in UpdateProfileInput) (model.User, error) {
	if userID == "" {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Name == nil && in.Phone == nil && in.CPF == nil {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "name is required")
		}
		user.Name = name
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.CPF != nil {
		user.CPF = strings.TrimSpace(*in.CPF)
	}

	if err := u.userRepo.UpdateProfile(ctx, userID, user.Name, user.Phone, user.CPF); err != nil {
		if err == repo.ErrNotFound {
			return model.User{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return user, nil
}

// 管理者のユーザー一覧（新しい順）
func (u *UserUsecase) ListUsers(ctx context.Context, page int, limit int) (UserListOutput, error) {
	if page < 1 {
		return UserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return UserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.userRepo.List(ctx, page, limit)
	if err != nil {
		return UserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return UserListOutput{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// 管理者によるロール変更（user / admin）
func (u *UserUsecase) UpdateUserRole(ctx context.Context, targetUserID string, role string) (model.User, error) {
	if targetUserID == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	role = strings.TrimSpace(role)
	if !model.ValidRole(role) {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	user, err := u.userRepo.FindByID(ctx, targetUserID)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.userRepo.UpdateRole(ctx, targetUserID, model.Role(role)); err != nil {
		if err == repo.ErrNotFound {
			return model.User{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.Role = model.Role(role)
	return user, nil
}
