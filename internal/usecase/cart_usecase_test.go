package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// In-memory CartItemRepository
// AddToCartの「同一商品は加算」はDB側のupsertに寄っているので、
// その契約ごと再現したフェイクで回す。
// =====================

type fakeCartItemRepo struct {
	seq   int
	items map[string]model.CartItem // key: cartItemID
}

func newFakeCartItemRepo() *fakeCartItemRepo {
	return &fakeCartItemRepo{items: map[string]model.CartItem{}}
}

func (f *fakeCartItemRepo) ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error) {
	out := []model.CartItem{}
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCartItemRepo) FindByID(ctx context.Context, cartItemID string) (model.CartItem, error) {
	it, ok := f.items[cartItemID]
	if !ok {
		return model.CartItem{}, repo.ErrNotFound
	}
	return it, nil
}

func (f *fakeCartItemRepo) FindByUserAndProduct(ctx context.Context, userID string, productID string) (model.CartItem, error) {
	for _, it := range f.items {
		if it.UserID == userID && it.ProductID == productID {
			return it, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (f *fakeCartItemRepo) UpsertByUserAndProduct(ctx context.Context, userID string, productID string, addQty int64) (model.CartItem, error) {
	for id, it := range f.items {
		if it.UserID == userID && it.ProductID == productID {
			it.Quantity += addQty
			f.items[id] = it
			return it, nil
		}
	}

	f.seq++
	it := model.CartItem{
		ID:        fmt.Sprintf("cart-item-%d", f.seq),
		UserID:    userID,
		ProductID: productID,
		Quantity:  addQty,
	}
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeCartItemRepo) UpdateQuantity(ctx context.Context, cartItemID string, qty int64) error {
	it, ok := f.items[cartItemID]
	if !ok {
		return repo.ErrNotFound
	}
	it.Quantity = qty
	f.items[cartItemID] = it
	return nil
}

func (f *fakeCartItemRepo) DeleteByID(ctx context.Context, cartItemID string) error {
	if _, ok := f.items[cartItemID]; !ok {
		return repo.ErrNotFound
	}
	delete(f.items, cartItemID)
	return nil
}

func (f *fakeCartItemRepo) DeleteByUserID(ctx context.Context, userID string) error {
	for id, it := range f.items {
		if it.UserID == userID {
			delete(f.items, id)
		}
	}
	return nil
}

type CartProductRepoMock struct{ mock.Mock }

func (m *CartProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CartProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in CartUsecase tests")
}

func (m *CartProductRepoMock) SoftDelete(ctx context.Context, id string) error {
	panic("not used in CartUsecase tests")
}

func newCartUsecase(t *testing.T) (*usecase.CartUsecase, *fakeCartItemRepo, *CartProductRepoMock) {
	t.Helper()
	items := newFakeCartItemRepo()
	products := new(CartProductRepoMock)
	return usecase.NewCartUsecase(items, products), items, products
}

// =====================
// AddToCart tests
// =====================

func TestCartUsecase_AddToCart_MergesSameProduct(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	p := model.Product{ID: "p-1", Name: "Keyboard", Price: mustDecimal(t, "10.00"), Stock: 5, IsActive: true}
	products.On("FindByID", mock.Anything, "p-1").Return(p, nil)

	first, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), first.Quantity)

	second, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 3})
	assert.NoError(t, err)

	// 行は増えず数量だけ2+3になる
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(5), second.Quantity)

	cart, err := uc.GetCart(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5), cart.Items[0].Quantity)
}

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	uc, _, _ := newCartUsecase(t)

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 0})
	assertErrContains(t, err, "invalid quantity")
}

func TestCartUsecase_AddToCart_ProductNotFound(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	products.On("FindByID", mock.Anything, "missing").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "missing", Quantity: 1})
	assertErrContains(t, err, "product not found")
}

// =====================
// GetCart tests
// =====================

func TestCartUsecase_GetCart_TotalUsesLivePrices(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	p := model.Product{ID: "p-1", Name: "Keyboard", Price: mustDecimal(t, "10.00"), Stock: 5, IsActive: true}
	q := model.Product{ID: "q-1", Name: "Mouse", Price: mustDecimal(t, "20.00"), Stock: 3, IsActive: true}
	products.On("FindByID", mock.Anything, "p-1").Return(p, nil)
	products.On("FindByID", mock.Anything, "q-1").Return(q, nil)

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 2})
	assert.NoError(t, err)
	_, err = uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "q-1", Quantity: 1})
	assert.NoError(t, err)

	cart, err := uc.GetCart(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.True(t, cart.Total.Equal(mustDecimal(t, "40.00")), "total=%s", cart.Total)
}

func TestCartUsecase_GetCart_ProductLookupFailureSurfaces(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	p := model.Product{ID: "p-1", Name: "Keyboard", Price: mustDecimal(t, "10.00"), Stock: 5, IsActive: true}
	products.On("FindByID", mock.Anything, "p-1").Return(p, nil).Once()

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 2})
	assert.NoError(t, err)

	// DBエラーは行スキップではなくエラーとして返す
	products.On("FindByID", mock.Anything, "p-1").Return(model.Product{}, errors.New("connection reset"))

	_, err = uc.GetCart(context.Background(), "user-1")
	assertErrContains(t, err, "db error")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
}

func TestCartUsecase_GetCart_DeletedProductRowSkipped(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	p := model.Product{ID: "p-1", Name: "Keyboard", Price: mustDecimal(t, "10.00"), Stock: 5, IsActive: true}
	q := model.Product{ID: "q-1", Name: "Mouse", Price: mustDecimal(t, "20.00"), Stock: 3, IsActive: true}
	products.On("FindByID", mock.Anything, "p-1").Return(p, nil).Once()
	products.On("FindByID", mock.Anything, "q-1").Return(q, nil)

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 2})
	assert.NoError(t, err)
	_, err = uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "q-1", Quantity: 1})
	assert.NoError(t, err)

	// p-1だけ商品が消えた。その行は落ちるがエラーにはならない
	products.On("FindByID", mock.Anything, "p-1").Return(model.Product{}, repo.ErrNotFound)

	cart, err := uc.GetCart(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "q-1", cart.Items[0].ProductID)
	assert.True(t, cart.Total.Equal(mustDecimal(t, "20.00")))
}

// =====================
// UpdateCartItem / DeleteCartItem ownership tests
// =====================

func TestCartUsecase_UpdateCartItem_Overwrites(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	p := model.Product{ID: "p-1", Name: "Keyboard", Price: mustDecimal(t, "10.00"), Stock: 5, IsActive: true}
	products.On("FindByID", mock.Anything, "p-1").Return(p, nil)

	item, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 2})
	assert.NoError(t, err)

	cart, err := uc.UpdateCartItem(context.Background(), "user-1", item.ID, usecase.UpdateCartItemInput{Quantity: 7})
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	// 加算ではなく上書き
	assert.Equal(t, int64(7), cart.Items[0].Quantity)
}

func TestCartUsecase_UpdateCartItem_NotOwned(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	p := model.Product{ID: "p-1", Name: "Keyboard", Price: mustDecimal(t, "10.00"), Stock: 5, IsActive: true}
	products.On("FindByID", mock.Anything, "p-1").Return(p, nil)

	item, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 2})
	assert.NoError(t, err)

	_, err = uc.UpdateCartItem(context.Background(), "user-2", item.ID, usecase.UpdateCartItemInput{Quantity: 1})
	assertErrContains(t, err, "not found")
}

func TestCartUsecase_DeleteCartItem_NotOwned(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	p := model.Product{ID: "p-1", Name: "Keyboard", Price: mustDecimal(t, "10.00"), Stock: 5, IsActive: true}
	products.On("FindByID", mock.Anything, "p-1").Return(p, nil)

	item, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 2})
	assert.NoError(t, err)

	_, err = uc.DeleteCartItem(context.Background(), "user-2", item.ID)
	assertErrContains(t, err, "not found")

	// 持ち主からは消せる
	cart, err := uc.DeleteCartItem(context.Background(), "user-1", item.ID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestCartUsecase_ClearCart_EmptiesEverything(t *testing.T) {
	uc, _, products := newCartUsecase(t)

	p := model.Product{ID: "p-1", Name: "Keyboard", Price: mustDecimal(t, "10.00"), Stock: 5, IsActive: true}
	q := model.Product{ID: "q-1", Name: "Mouse", Price: mustDecimal(t, "20.00"), Stock: 3, IsActive: true}
	products.On("FindByID", mock.Anything, "p-1").Return(p, nil)
	products.On("FindByID", mock.Anything, "q-1").Return(q, nil)

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "p-1", Quantity: 2})
	assert.NoError(t, err)
	_, err = uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{ProductID: "q-1", Quantity: 1})
	assert.NoError(t, err)

	assert.NoError(t, uc.ClearCart(context.Background(), "user-1"))

	cart, err := uc.GetCart(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.True(t, cart.Total.IsZero())

	// 空でも成功
	assert.NoError(t, uc.ClearCart(context.Background(), "user-1"))
}
