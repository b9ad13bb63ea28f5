package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multivendor-client/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(Options{
		BaseURL:               srv.URL,
		Timeout:               2 * time.Second,
		SettlementMaxAttempts: 4,
		SettlementWait:        5 * time.Millisecond,
		SettlementMaxWait:     20 * time.Millisecond,
	})
	return c, srv
}

func TestClient_GetDecodesBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sra_cart_content", r.URL.Path)
		assert.Equal(t, "A", r.URL.Query().Get("calculate_shipping"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":"2","products":{"11":{"product_id":"5","amount":2}},"payments":[]}`))
	})

	var cart models.Cart
	err := c.Get(context.Background(), "/sra_cart_content", url.Values{"calculate_shipping": {"A"}}, &cart)
	require.NoError(t, err)

	assert.Equal(t, models.FlexInt(2), cart.Amount)
	assert.Equal(t, models.FlexInt(5), cart.Products["11"].ProductID)
	assert.NotNil(t, cart.Payments)
	assert.Empty(t, cart.Payments)
}

func TestClient_AttachesToken(t *testing.T) {
	var got atomic.Value
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, c.Get(context.Background(), "/sra_profile", nil, nil))
	assert.Equal(t, "", got.Load())

	c.SetToken("abc")
	require.NoError(t, c.Get(context.Background(), "/sra_profile", nil, nil))
	assert.Equal(t, "Bearer abc", got.Load())
}

func TestClient_ServerErrorCarriesMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Wrong password","status":401}`))
	})

	var tok models.AuthToken
	err := c.Post(context.Background(), "/auth_tokens", map[string]string{"email": "a@b.c"}, &tok)
	require.Error(t, err)

	assert.True(t, IsCode(err, CodeServer))
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, "Wrong password", MessageOf(err))
}

func TestClient_BodyStatusWins(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"out of stock","status":409}`))
	})

	err := c.Post(context.Background(), "/sra_cart_content/", map[string]interface{}{}, nil)
	assert.Equal(t, http.StatusConflict, StatusOf(err))
}

func TestClient_ErrorListWithoutMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":["Status is not allowed","Try again"]}`))
	})

	err := c.Put(context.Background(), "/sra_vendor_orders/3", map[string]string{"status": "X"}, nil)
	assert.Equal(t, "Status is not allowed\nTry again", MessageOf(err))
}

func TestClient_TransportError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	err := c.Get(context.Background(), "/sra_products/1", nil, nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeTransport))
	assert.Equal(t, 0, StatusOf(err))
}

func TestClient_SchemaMismatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ttl":3600}`))
	})

	var tok models.AuthToken
	err := c.Post(context.Background(), "/auth_tokens", map[string]string{}, &tok)
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeSchema))
}

func TestClient_MalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount": {"nested": true}}`))
	})

	var cart models.Cart
	err := c.Get(context.Background(), "/sra_cart_content", nil, &cart)
	assert.True(t, IsCode(err, CodeSchema))
}

func TestClient_AwaitOrderRetriesUntilSettled(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sra_orders/42", r.URL.Path)
		if atomic.AddInt32(&calls, 1) < 3 {
			_, _ = w.Write([]byte(`{"order_id":42,"status":"N"}`))
			return
		}
		_, _ = w.Write([]byte(`{"order_id":42,"status":"P"}`))
	})

	order, err := c.AwaitOrder(context.Background(), 42, func(o models.Order) bool {
		return o.Status != models.OrderStatusIncomplete
	})
	require.NoError(t, err)
	assert.Equal(t, "P", order.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_AwaitOrderGivesUp(t *testing.T) {
	var calls int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"order_id":42,"status":"N"}`))
	})

	_, err := c.AwaitOrder(context.Background(), 42, func(o models.Order) bool {
		return o.Status != models.OrderStatusIncomplete
	})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeTimeout))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestClient_AwaitOrderNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.AwaitOrder(context.Background(), 7, func(models.Order) bool { return true })
	assert.True(t, IsCode(err, CodeNotFound))
}

func TestIsCode_PlainError(t *testing.T) {
	err := errors.New("boom")
	assert.False(t, IsCode(err, CodeServer))
	assert.Equal(t, 0, StatusOf(err))
	assert.Equal(t, "boom", MessageOf(err))
	assert.Equal(t, "", MessageOf(nil))
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/sra_cart_content/:id", routeLabel("/sra_cart_content/123/"))
	assert.Equal(t, "/categories/:id/sra_products", routeLabel("/categories/5/sra_products"))
	assert.Equal(t, "/sra_products/:id", routeLabel("/sra_products/9?amount=2"))
	assert.Equal(t, "/auth_tokens", routeLabel("auth_tokens"))
}

func TestNewError(t *testing.T) {
	cause := errors.New("eof")
	err := NewError(CodeSchema, "order was not created", http.StatusOK, cause)

	assert.True(t, IsCode(err, CodeSchema))
	assert.Equal(t, http.StatusOK, StatusOf(err))
	assert.Equal(t, "order was not created", MessageOf(err))
	assert.ErrorIs(t, err, cause)
}
