package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AdminOrderRepoMock struct{ mock.Mock }

func (m *AdminOrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *AdminOrderRepoMock) ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminOrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminOrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	panic("not used in AdminOrderUsecase tests")
}

func (m *AdminOrderRepoMock) UpdateAdminFields(ctx context.Context, orderID string, fields map[string]any) error {
	args := m.Called(ctx, orderID, fields)
	return args.Error(0)
}

func (m *AdminOrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type adminOrderMocks struct {
	tx     *OrderTxManagerMock
	orders *AdminOrderRepoMock
	items  *OrderItemRepoMock
}

func newAdminOrderMocks() adminOrderMocks {
	m := adminOrderMocks{
		tx:     new(OrderTxManagerMock),
		orders: new(AdminOrderRepoMock),
		items:  new(OrderItemRepoMock),
	}
	m.tx.Repos = &OrderTxReposMock{
		orders:     m.orders,
		orderItems: m.items,
	}
	m.tx.On("WithinTx", mock.Anything).Return(nil).Maybe()
	return m
}

func strptr(s string) *string { return &s }

// =====================
// List tests
// =====================

func TestAdminOrderUsecase_List_FilterPassedThrough(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	f := repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "pending", UserID: "user-1"}

	m.orders.On("ListAdmin", mock.Anything, f).Return([]model.Order{
		{ID: "order-1", UserID: "user-1", Status: model.OrderStatusPending, Total: mustDecimal(t, "10.00")},
	}, int64(1), nil)
	m.items.On("ListByOrderID", mock.Anything, "order-1").Return([]model.OrderItem{}, nil)

	outs, err := uc.List(context.Background(), f)

	assert.NoError(t, err)
	assert.Len(t, outs, 1)
	assert.Equal(t, "order-1", outs[0].ID)
	m.orders.AssertCalled(t, "ListAdmin", mock.Anything, f)
}

func TestAdminOrderUsecase_List_InvalidPage(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	_, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")
}

func TestAdminOrderUsecase_List_InvalidStatus(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	_, err := uc.List(context.Background(), repo.AdminOrderListFilter{Page: 1, Limit: 20, Status: "shipped"})
	assertErrContains(t, err, "invalid status")
}

// =====================
// Update tests
// =====================

func TestAdminOrderUsecase_Update_StatusAnyToAny(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	// cancelledからでも管理者は戻せる
	m.orders.On("FindByID", mock.Anything, "order-1").Return(model.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: model.OrderStatusCancelled,
	}, nil).Once()
	m.orders.On("UpdateAdminFields", mock.Anything, "order-1", map[string]any{"status": "processing"}).Return(nil)
	m.orders.On("FindByID", mock.Anything, "order-1").Return(model.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: model.OrderStatusProcessing,
	}, nil)
	m.items.On("ListByOrderID", mock.Anything, "order-1").Return([]model.OrderItem{}, nil)

	out, err := uc.Update(context.Background(), "order-1", usecase.AdminUpdateOrderInput{
		Status: strptr("processing"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "processing", out.Status)
	m.orders.AssertCalled(t, "UpdateAdminFields", mock.Anything, "order-1", map[string]any{"status": "processing"})
}

func TestAdminOrderUsecase_Update_InvalidStatus(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	_, err := uc.Update(context.Background(), "order-1", usecase.AdminUpdateOrderInput{
		Status: strptr("shipped"),
	})

	assertErrContains(t, err, "invalid status")
	m.orders.AssertNotCalled(t, "UpdateAdminFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminOrderUsecase_Update_TrackingCodeOnly(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	m.orders.On("FindByID", mock.Anything, "order-1").Return(model.Order{
		ID:     "order-1",
		UserID: "user-1",
		Status: model.OrderStatusProcessing,
	}, nil)
	m.orders.On("UpdateAdminFields", mock.Anything, "order-1", map[string]any{"tracking_code": "BR123456789"}).Return(nil)
	m.items.On("ListByOrderID", mock.Anything, "order-1").Return([]model.OrderItem{}, nil)

	_, err := uc.Update(context.Background(), "order-1", usecase.AdminUpdateOrderInput{
		TrackingCode: strptr(" BR123456789 "),
	})

	assert.NoError(t, err)
	m.orders.AssertCalled(t, "UpdateAdminFields", mock.Anything, "order-1", map[string]any{"tracking_code": "BR123456789"})
}

func TestAdminOrderUsecase_Update_NothingToUpdate(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	_, err := uc.Update(context.Background(), "order-1", usecase.AdminUpdateOrderInput{})
	assertErrContains(t, err, "nothing to update")
}

func TestAdminOrderUsecase_Update_NotFound(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	m.orders.On("FindByID", mock.Anything, "missing").Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.Update(context.Background(), "missing", usecase.AdminUpdateOrderInput{
		Status: strptr("completed"),
	})

	assertErrContains(t, err, "not found")
}

func TestAdminOrderUsecase_Update_InvalidShippingAddress(t *testing.T) {
	m := newAdminOrderMocks()
	uc := usecase.NewAdminOrderUsecase(m.tx)

	addr := validAddress()
	addr.Zipcode = ""

	_, err := uc.Update(context.Background(), "order-1", usecase.AdminUpdateOrderInput{
		ShippingAddress: &addr,
	})

	assertErrContains(t, err, "shipping_address.zipcode is required")
	m.orders.AssertNotCalled(t, "UpdateAdminFields", mock.Anything, mock.Anything, mock.Anything)
}
