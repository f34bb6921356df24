package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error)
	FindByID(ctx context.Context, cartItemID string) (model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartItem, error)

	// 同一商品は数量加算。結果の行を返す。
	UpsertByUserAndProduct(ctx context.Context, userID string, productID string, addQty int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID string, qty int64) error
	DeleteByID(ctx context.Context, cartItemID string) error

	// ユーザーの明細を全削除（空でもエラーにしない）
	DeleteByUserID(ctx context.Context, userID string) error
}
