package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

// 管理者の注文更新DTO。nilの項目は触らない。
type AdminUpdateOrderInput struct {
	Status          *string
	TrackingCode    *string
	ShippingAddress *ShippingAddressInput
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !model.ValidOrderStatus(f.Status) {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListAdmin(ctx, f)
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

// 管理者による注文更新。
// ステータスは列挙値のチェックだけで、どの状態からどの状態へも上書きできる
// （cancelledから戻すのも可）。遷移表を守るのはユーザーのキャンセル経路だけ。
func (u *AdminOrderUsecase) Update(ctx context.Context, orderID string, in AdminUpdateOrderInput) (OrderOutput, error) {
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	fields := map[string]any{}

	if in.Status != nil {
		s := strings.TrimSpace(*in.Status)
		if !model.ValidOrderStatus(s) {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		fields["status"] = s
	}
	if in.TrackingCode != nil {
		fields["tracking_code"] = strings.TrimSpace(*in.TrackingCode)
	}
	if in.ShippingAddress != nil {
		if err := in.ShippingAddress.validate(); err != nil {
			return OrderOutput{}, err
		}
		a := *in.ShippingAddress
		fields["shipping_street"] = strings.TrimSpace(a.Street)
		fields["shipping_number"] = strings.TrimSpace(a.Number)
		fields["shipping_complement"] = strings.TrimSpace(a.Complement)
		fields["shipping_neighborhood"] = strings.TrimSpace(a.Neighborhood)
		fields["shipping_city"] = strings.TrimSpace(a.City)
		fields["shipping_state"] = strings.TrimSpace(a.State)
		fields["shipping_zipcode"] = strings.TrimSpace(a.Zipcode)
	}

	if len(fields) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().UpdateAdminFields(ctx, orderID, fields); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
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
