package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// カートの明細
// (user_id, product_id) は1行まで。同じ商品の追加は数量加算。
type CartItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:uq_cart_user_product;index" json:"user_id"`
	ProductID string    `gorm:"type:uuid;not null;uniqueIndex:uq_cart_user_product" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
