package actions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"multivendor-client/internal/apiclient"
	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// OrderLine is one product of an order being placed
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Amount    int64 `json:"amount"`
}

// OrderInfo is the body of POST /sra_orders
type OrderInfo struct {
	Products    map[string]OrderLine   `json:"products"`
	CouponCodes []string               `json:"coupon_codes,omitempty"`
	ShippingID  int64                  `json:"shipping_id,omitempty"`
	PaymentID   string                 `json:"payment_id"`
	UserData    models.Fields          `json:"user_data,omitempty"`
	PaymentInfo map[string]interface{} `json:"payment_info,omitempty"`
}

// NewOrderInfo builds an order from the lines of a cart
func NewOrderInfo(cart models.Cart, shippingID int64, paymentID string) OrderInfo {
	info := OrderInfo{
		Products:    make(map[string]OrderLine, len(cart.Products)),
		CouponCodes: cart.CouponCodes(),
		ShippingID:  shippingID,
		PaymentID:   paymentID,
		UserData:    cart.UserData,
	}
	for _, p := range cart.Products {
		pid := p.ProductID.String()
		line := info.Products[pid]
		line.ProductID = int64(p.ProductID)
		line.Amount += int64(p.Amount)
		info.Products[pid] = line
	}
	return info
}

type ordersResponse struct {
	Orders []models.Order `json:"orders"`
	Params struct {
		TotalItems models.FlexInt `json:"total_items"`
	} `json:"params"`
}

type orderCreated struct {
	OrderID models.FlexInt `json:"order_id"`
}

type settlementRequest struct {
	OrderID     int64                  `json:"order_id"`
	Replay      bool                   `json:"replay"`
	PaymentInfo map[string]interface{} `json:"payment_info,omitempty"`
}

type settlementResponse struct {
	Data models.Settlement `json:"data"`
}

// FetchOrders loads one page of the customer's orders
func (a *Actions) FetchOrders(page int) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "OrdersActions.Fetch")
		defer span.End()

		if page < 1 {
			page = 1
		}
		d.Dispatch(models.NewEvent(models.EventTypeFetchOrdersRequest, nil))

		var resp ordersResponse
		query := url.Values{"page": {strconv.Itoa(page)}}
		if err := a.api.Get(ctx, "/sra_orders", query, &resp); err != nil {
			return a.fail(d, models.EventTypeFetchOrdersFail, "OrdersActions.Fetch", err)
		}

		loaded := len(d.State().Orders.Items) + len(resp.Orders)
		if page <= 1 {
			loaded = len(resp.Orders)
		}
		d.Dispatch(models.NewEvent(models.EventTypeFetchOrdersSuccess, models.OrdersPage{
			Items:   resp.Orders,
			Page:    page,
			HasMore: len(resp.Orders) > 0 && loaded < resp.Params.TotalItems.Int(),
		}))
		return nil
	}
}

// FetchOrder loads one order. A response without an order id means the order
// does not exist.
func (a *Actions) FetchOrder(id int64) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "OrdersActions.FetchOne")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeOrderRequest, nil))

		var order models.Order
		err := a.api.Get(ctx, fmt.Sprintf("/sra_orders/%d", id), nil, &order)
		if err == nil && order.OrderID == 0 {
			err = apiclient.NotFound("order")
		}
		if err != nil {
			if apiclient.IsCode(err, apiclient.CodeNotFound) {
				a.notify(d, models.NotificationInfo, "Information", a.tr.T("Order not found."), false)
			}
			return a.fail(d, models.EventTypeOrderFail, "OrdersActions.FetchOne", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeOrderSuccess, order))
		return nil
	}
}

// CreateOrder places an order and reports the new order id
func (a *Actions) CreateOrder(info OrderInfo) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		_, err := a.createOrder(ctx, d, info)
		return err
	}
}

func (a *Actions) createOrder(ctx context.Context, d store.Dispatcher, info OrderInfo) (int64, error) {
	ctx, span := util.StartSpan(ctx, "OrdersActions.Create")
	defer span.End()

	d.Dispatch(models.NewEvent(models.EventTypeOrderCreateRequest, nil))

	var created orderCreated
	err := a.api.Post(ctx, "/sra_orders", info, &created)
	if err == nil && created.OrderID == 0 {
		err = apiclient.NewError(apiclient.CodeSchema, "order was not created", 0, nil)
	}
	if err != nil {
		return 0, a.fail(d, models.EventTypeOrderCreateFail, "OrdersActions.Create", err)
	}

	d.Dispatch(models.NewEvent(models.EventTypeOrderCreateSuccess, models.Order{
		OrderID: created.OrderID,
		Status:  models.OrderStatusIncomplete,
	}))
	a.logger.Info("Order created", zap.Int64("order_id", int64(created.OrderID)))
	return int64(created.OrderID), nil
}

// Settlements starts the payment of an order
func (a *Actions) Settlements(orderID int64, paymentInfo map[string]interface{}) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		_, err := a.settle(ctx, d, orderID, paymentInfo)
		return err
	}
}

func (a *Actions) settle(ctx context.Context, d store.Dispatcher, orderID int64, paymentInfo map[string]interface{}) (models.Settlement, error) {
	ctx, span := util.StartSpan(ctx, "PaymentsActions.Settlements")
	defer span.End()

	d.Dispatch(models.NewEvent(models.EventTypeSettlementsRequest, nil))

	var resp settlementResponse
	body := settlementRequest{OrderID: orderID, PaymentInfo: paymentInfo}
	if err := a.api.Post(ctx, "/sra_settlements", body, &resp); err != nil {
		return models.Settlement{}, a.fail(d, models.EventTypeSettlementsFail, "PaymentsActions.Settlements", err)
	}
	settlement := resp.Data
	if settlement.OrderID == 0 {
		settlement.OrderID = orderID
	}
	d.Dispatch(models.NewEvent(models.EventTypeSettlementsSuccess, settlement))
	return settlement, nil
}

// Checkout places the order for a cart and starts its payment. When the
// provider hands back a payment page the flow stops there and is finished
// by CompleteSettlement once the user returns. Otherwise the order is polled
// until its payment settles, then the cart is cleared.
func (a *Actions) Checkout(cart models.Cart, info OrderInfo) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "PaymentsActions.Checkout")
		defer span.End()

		orderID, err := a.createOrder(ctx, d, info)
		if err != nil {
			return err
		}
		settlement, err := a.settle(ctx, d, orderID, info.PaymentInfo)
		if err != nil {
			return err
		}
		if settlement.PaymentURL != "" {
			return nil
		}
		return d.Do(ctx, a.CompleteSettlement(orderID, cart))
	}
}

// CompleteSettlement waits for the payment of an order to settle and
// clears the cart it was placed from
func (a *Actions) CompleteSettlement(orderID int64, cart models.Cart) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "PaymentsActions.CompleteSettlement")
		defer span.End()

		order, err := a.api.AwaitOrder(ctx, orderID, orderSettled)
		if err != nil {
			if errors.Is(err, context.Canceled) || apiclient.IsCode(err, apiclient.CodeTimeout) {
				a.notify(d, models.NotificationWarning, "Notice", a.tr.T("Payment was not confirmed."), false)
			}
			return a.fail(d, models.EventTypeSettlementsFail, "PaymentsActions.CompleteSettlement", err)
		}

		d.Dispatch(models.NewEvent(models.EventTypeCheckoutComplete, models.CheckoutResult{
			OrderID: int64(order.OrderID),
			Status:  order.Status,
		}))
		a.logger.Info("Checkout complete",
			zap.Int64("order_id", int64(order.OrderID)),
			zap.String("status", order.Status),
		)
		return d.Do(ctx, a.ClearCart(cart))
	}
}

func orderSettled(o models.Order) bool {
	return o.Status != "" && o.Status != models.OrderStatusIncomplete
}
