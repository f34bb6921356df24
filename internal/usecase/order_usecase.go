package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderLineInput struct {
	ProductID string
	Quantity  int64
}

type ShippingAddressInput struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	Zipcode      string
}

func (a ShippingAddressInput) validate() error {
	required := map[string]string{
		"street":       a.Street,
		"number":       a.Number,
		"neighborhood": a.Neighborhood,
		"city":         a.City,
		"state":        a.State,
		"zipcode":      a.Zipcode,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("shipping_address.%s is required", field))
		}
	}
	return nil
}

type PlaceOrderInput struct {
	Items           []OrderLineInput
	ShippingAddress ShippingAddressInput
}

type OrderItemOutput struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	Status       string            `json:"status"`
	Total        decimal.Decimal   `json:"total"`
	TrackingCode string            `json:"tracking_code,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Items        []OrderItemOutput `json:"items"`
}

// 注文確定。
// 行ごとに 商品取得 → 在庫比較 → 価格スナップショット → 在庫減算 を
// 入力順に行い、全行通ったら注文＋明細を作成してカートを全消しする。
// 全体を1トランザクションで包むので、途中の行で失敗したら減算も巻き戻る。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "items are required")
	}
	for _, line := range in.Items {
		if line.ProductID == "" {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
		}
		if line.Quantity < 1 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
		}
	}
	if err := in.ShippingAddress.validate(); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orderItems := make([]model.OrderItem, 0, len(in.Items))
		total := decimal.Zero

		for _, line := range in.Items {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			if line.Quantity > p.Stock {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("insufficient stock for product %s", p.Name))
			}

			// 単価はこの時点の商品価格を写し取る。以後の価格改定の影響を受けない。
			subtotal := p.Price.Mul(decimal.NewFromInt(line.Quantity))
			total = total.Add(subtotal)

			// 条件付き減算なので同時注文で二重に引かれることはない
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("insufficient stock for product %s", p.Name))
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     p.Price,
				Subtotal:  subtotal,
			})
		}

		created, err := r.Orders().Create(ctx, model.Order{
			UserID:               userID,
			Status:               model.OrderStatusPending,
			Total:                total,
			ShippingStreet:       strings.TrimSpace(in.ShippingAddress.Street),
			ShippingNumber:       strings.TrimSpace(in.ShippingAddress.Number),
			ShippingComplement:   strings.TrimSpace(in.ShippingAddress.Complement),
			ShippingNeighborhood: strings.TrimSpace(in.ShippingAddress.Neighborhood),
			ShippingCity:         strings.TrimSpace(in.ShippingAddress.City),
			ShippingState:        strings.TrimSpace(in.ShippingAddress.State),
			ShippingZipcode:      strings.TrimSpace(in.ShippingAddress.Zipcode),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, created.ID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 注文したユーザーのカートは丸ごと空にする（注文に含めなかった行も消える）
		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(created, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string) ([]OrderOutput, error) {
	if userID == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	// ページングはまず固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			// 他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ユーザー自身によるキャンセル。
// completed / cancelled からは遷移できない。ここだけが遷移表を守る
// （管理者の更新は別経路でどの状態にも上書きできる）。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusConflict, "order cannot be cancelled")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = model.OrderStatusCancelled
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Subtotal:  it.Subtotal,
		})
	}

	return OrderOutput{
		ID:           o.ID,
		UserID:       o.UserID,
		Status:       string(o.Status),
		Total:        o.Total,
		TrackingCode: o.TrackingCode,
		CreatedAt:    o.CreatedAt,
		Items:        outItems,
	}
}
