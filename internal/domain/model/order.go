package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 管理者のステータス更新で受け付ける値か
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// ユーザーのキャンセル経路ではここから先に進めない
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// 注文。totalと明細は作成後に変更しない。
// 変更できるのは status / tracking_code / 配送先だけ。
type Order struct {
	ID     string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Status OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Total  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`

	ShippingStreet       string `gorm:"type:varchar(255);not null" json:"shipping_address_street"`
	ShippingNumber       string `gorm:"type:varchar(30);not null" json:"shipping_address_number"`
	ShippingComplement   string `gorm:"type:varchar(255)" json:"shipping_address_complement"`
	ShippingNeighborhood string `gorm:"type:varchar(255);not null" json:"shipping_address_neighborhood"`
	ShippingCity         string `gorm:"type:varchar(255);not null" json:"shipping_address_city"`
	ShippingState        string `gorm:"type:varchar(100);not null" json:"shipping_address_state"`
	ShippingZipcode      string `gorm:"type:varchar(20);not null" json:"shipping_address_zipcode"`

	TrackingCode string    `gorm:"type:varchar(100)" json:"tracking_code"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
