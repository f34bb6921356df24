package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context, page int, limit int) ([]model.User, int64, error)
	Create(ctx context.Context, u model.User) (model.User, error)

	// プロフィール項目（name / phone / cpf）だけ書き換える
	UpdateProfile(ctx context.Context, id string, name string, phone string, cpf string) error

	// 管理者のロール変更
	UpdateRole(ctx context.Context, id string, role model.Role) error

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
