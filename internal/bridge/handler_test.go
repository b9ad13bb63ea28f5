package bridge

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multivendor-client/internal/actions"
	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/i18n"
	"multivendor-client/internal/models"
	"multivendor-client/internal/reducers"
	"multivendor-client/internal/store"
)

func setupRouter(t *testing.T, routes map[string]string) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.Method+" "+r.URL.Path]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"no route","status":404}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(api.Close)

	client := apiclient.New(apiclient.Options{BaseURL: api.URL, Timeout: 2 * time.Second})
	tr, err := i18n.New("en")
	require.NoError(t, err)

	s := store.New(reducers.Root, reducers.Initial())
	h := NewHandler(s, actions.New(client, tr, nil, actions.Options{Platform: "android"}))

	router := gin.New()
	h.SetupRoutes(router)
	return router, s
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := serve(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReadinessCheck_WaitsForDeviceID(t *testing.T) {
	router, s := setupRouter(t, nil)

	assert.Equal(t, http.StatusServiceUnavailable, serve(router, http.MethodGet, "/ready", "").Code)

	s.Dispatch(models.NewEvent(models.EventTypeDeviceIDAssigned, "device-1"))
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ready", "").Code)
}

func TestReadinessCheck_SurvivesLogout(t *testing.T) {
	router, s := setupRouter(t, nil)
	s.Dispatch(models.NewEvent(models.EventTypeDeviceIDAssigned, "device-1"))

	w := serve(router, http.MethodPost, "/api/v1/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "device-1", s.State().Auth.UUID)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ready", "").Code)
}

func TestGetOrder(t *testing.T) {
	router, s := setupRouter(t, map[string]string{
		"GET /sra_orders/5": `{"order_id":"5","status":"P","total":"12.50"}`,
	})

	w := serve(router, http.MethodGet, "/api/v1/orders/5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, models.FlexInt(5), order.OrderID)
	assert.Equal(t, "P", s.State().Orders.Current.Status)
}

func TestGetOrder_NotFoundQueuesNotification(t *testing.T) {
	router, _ := setupRouter(t, map[string]string{
		"GET /sra_orders/9": `{}`,
	})

	w := serve(router, http.MethodGet, "/api/v1/orders/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodPost, "/api/v1/notifications/pop", "")
	require.Equal(t, http.StatusOK, w.Code)
	var n models.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &n))
	assert.Equal(t, "Order not found.", n.Text)

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodPost, "/api/v1/notifications/pop", "").Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := serve(router, http.MethodGet, "/api/v1/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_ValidatesBody(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := serve(router, http.MethodPost, "/api/v1/auth/login", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestLogin_RejectedCredentials(t *testing.T) {
	router, s := setupRouter(t, nil)

	w := serve(router, http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.co","password":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, s.State().Auth.Logged)
}

func TestClearCart_UnknownKey(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := serve(router, http.MethodPost, "/api/v1/cart/clear", `{"key":"42"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", apiclient.NotFound("order"), http.StatusNotFound},
		{"timeout", apiclient.NewError(apiclient.CodeTimeout, "gave up", 0, nil), http.StatusGatewayTimeout},
		{"client error", apiclient.NewError(apiclient.CodeServer, "bad", http.StatusConflict, nil), http.StatusConflict},
		{"server error", apiclient.NewError(apiclient.CodeServer, "bad", http.StatusInternalServerError, nil), http.StatusBadGateway},
		{"transport", apiclient.Transport(errors.New("refused")), http.StatusBadGateway},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err))
		})
	}
}
