package actions

import (
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/models"
)

func checkoutCart() models.Cart {
	return models.Cart{
		Amount:   1,
		Products: models.Dict[models.CartProduct]{"11": {ProductID: 5, Amount: 1}},
	}
}

func TestCheckout_PollsUntilSettledThenClearsCart(t *testing.T) {
	h := newHarness(t)
	h.backend.json("POST /sra_orders", http.StatusOK, `{"order_id":"42"}`)
	h.backend.json("POST /sra_settlements", http.StatusOK, `{"data":{"order_id":42}}`)
	h.backend.json("DELETE /sra_cart_content/", http.StatusOK, `{}`)

	var polls atomic.Int32
	h.backend.handle("GET /sra_orders/42", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"order_id":42,"status":"N"}`))
			return
		}
		_, _ = w.Write([]byte(`{"order_id":42,"status":"P"}`))
	})

	cart := checkoutCart()
	require.NoError(t, h.do(h.actions.Checkout(cart, NewOrderInfo(cart, 1, "3"))))

	assert.EqualValues(t, 3, polls.Load())
	assert.Equal(t, int64(42), h.store.State().Orders.LastCompleted)
	assert.Equal(t, 1, h.backend.called("DELETE /sra_cart_content/"))
}

func TestCheckout_StopsAtProviderPaymentPage(t *testing.T) {
	h := newHarness(t)
	h.backend.json("POST /sra_orders", http.StatusOK, `{"order_id":42}`)
	h.backend.json("POST /sra_settlements", http.StatusOK,
		`{"data":{"order_id":42,"payment_url":"https://pay.example/42","return_url":"app://done"}}`)

	cart := checkoutCart()
	require.NoError(t, h.do(h.actions.Checkout(cart, NewOrderInfo(cart, 1, "3"))))

	assert.Zero(t, h.backend.called("GET /sra_orders/42"))
	assert.Zero(t, h.store.State().Orders.LastCompleted)
}

func TestCheckout_UnconfirmedPaymentWarns(t *testing.T) {
	h := newHarness(t)
	h.backend.json("POST /sra_orders", http.StatusOK, `{"order_id":42}`)
	h.backend.json("POST /sra_settlements", http.StatusOK, `{"data":{"order_id":42}}`)
	h.backend.json("GET /sra_orders/42", http.StatusOK, `{"order_id":42,"status":"N"}`)

	cart := checkoutCart()
	err := h.do(h.actions.Checkout(cart, NewOrderInfo(cart, 1, "3")))
	require.Error(t, err)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeTimeout))

	items := h.store.State().Notifications.Items
	require.Len(t, items, 1)
	assert.Equal(t, "Payment was not confirmed.", items[0].Text)
	assert.Zero(t, h.backend.called("DELETE /sra_cart_content/"))
}

func TestCheckout_CreateFailureStops(t *testing.T) {
	h := newHarness(t)
	h.backend.json("POST /sra_orders", http.StatusBadRequest, `{"message":"Select a shipping method","status":400}`)

	cart := checkoutCart()
	require.Error(t, h.do(h.actions.Checkout(cart, NewOrderInfo(cart, 0, "3"))))
	assert.Zero(t, h.backend.called("POST /sra_settlements"))
}

func TestFetchOrder_NotFound(t *testing.T) {
	h := newHarness(t)
	h.backend.json("GET /sra_orders/5", http.StatusOK, `{}`)

	err := h.do(h.actions.FetchOrder(5))
	require.Error(t, err)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeNotFound))

	state := h.store.State()
	assert.False(t, state.Orders.LoadingCurrent)
	require.Len(t, state.Notifications.Items, 1)
	assert.Equal(t, models.NotificationInfo, state.Notifications.Items[0].Type)
	assert.Equal(t, "Order not found.", state.Notifications.Items[0].Text)
}

func TestFetchOrders_Pages(t *testing.T) {
	h := newHarness(t)
	h.backend.handle("GET /sra_orders", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			_, _ = w.Write([]byte(`{"orders":[{"order_id":1},{"order_id":2}],"params":{"total_items":"3"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"orders":[{"order_id":3}],"params":{"total_items":"3"}}`))
	})

	require.NoError(t, h.do(h.actions.FetchOrders(1)))
	assert.True(t, h.store.State().Orders.HasMore)

	require.NoError(t, h.do(h.actions.FetchOrders(2)))
	orders := h.store.State().Orders
	assert.Len(t, orders.Items, 3)
	assert.False(t, orders.HasMore)
	assert.False(t, orders.Loading)
}

func TestVendorOrders_FetchAndUpdateStatus(t *testing.T) {
	h := newHarness(t)
	h.backend.json("GET /sra_vendor_orders", http.StatusOK, `{"orders":[{"order_id":1,"status":"O"},{"order_id":2,"status":"O"}]}`)
	h.backend.json("PUT /sra_vendor_orders/2", http.StatusOK, `{}`)

	require.NoError(t, h.do(h.actions.FetchVendorOrders(0)))
	list := h.store.State().VendorManageOrders
	assert.Equal(t, 1, list.Page)
	assert.True(t, list.HasMore)

	require.NoError(t, h.do(h.actions.UpdateOrderStatus(2, models.OrderStatusComplete)))

	list = h.store.State().VendorManageOrders
	assert.Equal(t, models.OrderStatusOpen, list.Items[0].Status)
	assert.Equal(t, models.OrderStatusComplete, list.Items[1].Status)
	items := h.store.State().Notifications.Items
	require.Len(t, items, 1)
	assert.Equal(t, "Status has been changed.", items[0].Text)
}

func TestVendorOrder_FailureShowsServerErrors(t *testing.T) {
	h := newHarness(t)
	h.backend.json("GET /sra_vendor_orders/9", http.StatusForbidden, `{"status":403,"errors":["Access denied"]}`)

	require.Error(t, h.do(h.actions.FetchVendorOrder(9)))

	state := h.store.State()
	assert.False(t, state.VendorManageOrders.LoadingCurrent)
	require.Len(t, state.Notifications.Items, 1)
	assert.Equal(t, "Access denied", state.Notifications.Items[0].Text)
}

func TestCreateVendorProduct_SendsPickedImages(t *testing.T) {
	h := newHarness(t)
	var body recorded[VendorProductForm]
	h.backend.handle("POST /sra_vendor_products", func(w http.ResponseWriter, r *http.Request) {
		decodeBody(r, &body)
		_, _ = w.Write([]byte(`{"product_id":"77"}`))
	})

	require.NoError(t, h.do(h.actions.ToggleImages([]string{"file:///1.jpg"})))
	require.NoError(t, h.do(h.actions.CreateVendorProduct(VendorProductForm{Product: "Lamp", Price: 12.5, Amount: 3})))

	assert.Equal(t, []string{"file:///1.jpg"}, body.get().Images)
	state := h.store.State()
	assert.Equal(t, models.FlexInt(77), state.VendorManageProducts.Current.ProductID)
	assert.Equal(t, "Lamp", state.VendorManageProducts.Current.Product)
	assert.Empty(t, state.ImagePicker.Selected)
}

func TestDeleteVendorProduct_RemovesFromList(t *testing.T) {
	h := newHarness(t)
	h.backend.json("GET /sra_vendor_products", http.StatusOK, `{"products":[{"product_id":1},{"product_id":2}]}`)
	h.backend.json("DELETE /sra_vendor_products/1", http.StatusOK, `{}`)

	require.NoError(t, h.do(h.actions.FetchVendorProducts(0)))
	require.NoError(t, h.do(h.actions.DeleteVendorProduct(1)))

	items := h.store.State().VendorManageProducts.Items
	require.Len(t, items, 1)
	assert.Equal(t, models.FlexInt(2), items[0].ProductID)
}

func TestCategoryPicker(t *testing.T) {
	h := newHarness(t)
	h.backend.json("GET /sra_categories/", http.StatusOK,
		`{"categories":[{"category_id":1,"category":"Home"},{"category_id":2,"category":"Garden"}]}`)

	require.NoError(t, h.do(h.actions.FetchCategories(0)))
	cats := h.store.State().VendorManageCategories.Items
	require.Len(t, cats, 2)

	require.NoError(t, h.do(h.actions.ToggleCategory(cats[0])))
	require.NoError(t, h.do(h.actions.ToggleCategory(cats[1])))
	require.NoError(t, h.do(h.actions.ToggleCategory(cats[0])))
	assert.Equal(t, []models.Category{cats[1]}, h.store.State().VendorManageCategories.Selected)

	require.NoError(t, h.do(h.actions.ClearCategories()))
	assert.Empty(t, h.store.State().VendorManageCategories.Selected)
}
