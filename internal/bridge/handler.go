package bridge

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"multivendor-client/internal/actions"
	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/models"
	"multivendor-client/internal/reducers"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// Handler exposes the store and its action creators to the presentation
// layer over local HTTP
type Handler struct {
	store   *store.Store
	actions *actions.Actions
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(s *store.Store, a *actions.Actions) *Handler {
	return &Handler{
		store:   s,
		actions: a,
		logger:  util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", h.getState)
		v1.POST("/notifications/pop", h.popNotification)
		v1.DELETE("/notifications/:id", h.hideNotification)

		v1.POST("/auth/login", h.login)
		v1.POST("/auth/logout", h.logout)

		v1.GET("/cart", h.fetchCart)
		v1.POST("/cart", h.addToCart)
		v1.PUT("/cart/:cartID", h.changeCartItem)
		v1.DELETE("/cart/:cartID", h.removeCartItem)
		v1.POST("/cart/clear", h.clearCart)
		v1.POST("/cart/coupons", h.applyCoupon)
		v1.DELETE("/cart/coupons/:code", h.withdrawCoupon)

		v1.GET("/products/:id", h.getProduct)
		v1.POST("/products/:id/price", h.recalculatePrice)
		v1.GET("/vendors/:id", h.getVendor)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.POST("/checkout", h.checkout)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the device has an id, which InitApp
// guarantees
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.store.State().Auth.UUID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.State())
}

func (h *Handler) popNotification(c *gin.Context) {
	n, ok := h.actions.PopNotification(h.store)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) hideNotification(c *gin.Context) {
	h.run(c, h.actions.HideNotification(c.Param("id")), func(s reducers.State) interface{} {
		return s.Notifications
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, h.actions.Login(actions.Credentials{Email: req.Email, Password: req.Password}),
		func(s reducers.State) interface{} { return s.Auth })
}

func (h *Handler) logout(c *gin.Context) {
	h.run(c, h.actions.Logout(), func(s reducers.State) interface{} { return s.Auth })
}

func (h *Handler) fetchCart(c *gin.Context) {
	calc := c.DefaultQuery("calculate_shipping", actions.CalculateShippingAll)
	h.run(c, h.actions.FetchCart(calc), cartView)
}

func (h *Handler) addToCart(c *gin.Context) {
	var item actions.CartItem
	if !bindJSON(c, &item) {
		return
	}
	notify := c.DefaultQuery("notify", "true") != "false"
	h.run(c, h.actions.AddToCart(item, notify), cartView)
}

func (h *Handler) changeCartItem(c *gin.Context) {
	var data map[string]interface{}
	if !bindJSON(c, &data) {
		return
	}
	h.run(c, h.actions.ChangeCartItem(c.Param("cartID"), data), cartView)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	h.run(c, h.actions.RemoveCartItem(c.Param("cartID")), cartView)
}

type clearCartRequest struct {
	Key string `json:"key"`
}

// clearCart empties the cart stored under key: "general" or a vendor id
func (h *Handler) clearCart(c *gin.Context) {
	var req clearCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Key == "" {
		req.Key = models.GeneralCartKey
	}
	cart, ok := actions.CartByKey(h.store.State().Cart, req.Key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return
	}
	h.run(c, h.actions.ClearCart(cart), cartView)
}

type couponRequest struct {
	Code        string   `json:"code" binding:"required"`
	ShippingIDs []string `json:"shipping_ids"`
}

func (h *Handler) applyCoupon(c *gin.Context) {
	var req couponRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, h.actions.ApplyCoupon(req.Code, req.ShippingIDs), cartView)
}

func (h *Handler) withdrawCoupon(c *gin.Context) {
	h.run(c, h.actions.WithdrawCoupon(c.Param("code"), c.QueryArray("shipping_ids")), cartView)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.run(c, h.actions.FetchProduct(id), func(s reducers.State) interface{} {
		return gin.H{
			"product":    s.ProductDetail,
			"discussion": s.Discussion.Items[actions.DiscussionID(actions.DiscussionProduct, id)],
		}
	})
}

type priceRequest struct {
	Amount          int              `json:"amount" binding:"gte=0"`
	SelectedOptions map[string]int64 `json:"selected_options"`
}

func (h *Handler) recalculatePrice(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req priceRequest
	if !bindJSON(c, &req) {
		return
	}
	h.run(c, h.actions.RecalculatePrice(id, req.Amount, req.SelectedOptions), func(s reducers.State) interface{} {
		return s.ProductDetail
	})
}

func (h *Handler) getVendor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	h.run(c, h.actions.FetchVendor(id, actions.DiscussionVendor, page), func(s reducers.State) interface{} {
		return gin.H{
			"vendor":     s.Vendors.Items[strconv.FormatInt(id, 10)],
			"discussion": s.Discussion.Items[actions.DiscussionID(actions.DiscussionVendor, id)],
		}
	})
}

func (h *Handler) listOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	h.run(c, h.actions.FetchOrders(page), func(s reducers.State) interface{} { return s.Orders })
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	h.run(c, h.actions.FetchOrder(id), func(s reducers.State) interface{} { return s.Orders.Current })
}

type checkoutRequest struct {
	CartKey     string                 `json:"cart_key"`
	ShippingID  int64                  `json:"shipping_id"`
	PaymentID   string                 `json:"payment_id" binding:"required"`
	PaymentInfo map[string]interface{} `json:"payment_info"`
}

func (h *Handler) checkout(c *gin.Context) {
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CartKey == "" {
		req.CartKey = models.GeneralCartKey
	}
	cart, ok := actions.CartByKey(h.store.State().Cart, req.CartKey)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return
	}

	info := actions.NewOrderInfo(cart, req.ShippingID, req.PaymentID)
	info.PaymentInfo = req.PaymentInfo
	h.run(c, h.actions.Checkout(cart, info), func(s reducers.State) interface{} {
		return gin.H{"last_completed": s.Orders.LastCompleted}
	})
}

// run executes t and responds with view of the resulting state. The thunk
// outlives a caller that goes away, so its completion is still dispatched.
func (h *Handler) run(c *gin.Context, t store.Thunk, view func(reducers.State) interface{}) {
	ctx := context.WithoutCancel(c.Request.Context())
	if err := h.store.Do(ctx, t); err != nil {
		h.logger.Debug("Bridge action failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(errorStatus(err), gin.H{
			"error":   apiclient.MessageOf(err),
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, view(h.store.State()))
}

func cartView(s reducers.State) interface{} {
	return s.Cart
}

func bindJSON(c *gin.Context, into interface{}) bool {
	if err := c.ShouldBindJSON(into); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// errorStatus maps an action failure to the status the bridge answers with
func errorStatus(err error) int {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Code {
	case apiclient.CodeNotFound:
		return http.StatusNotFound
	case apiclient.CodeTimeout:
		return http.StatusGatewayTimeout
	case apiclient.CodeServer:
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
	}
	return http.StatusBadGateway
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
