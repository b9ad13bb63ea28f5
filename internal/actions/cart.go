package actions

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"multivendor-client/internal/models"
	"multivendor-client/internal/store"
	"multivendor-client/internal/util"
)

// calculate_shipping modes
const (
	CalculateShippingAll      = "A"
	CalculateShippingSelected = "E"
)

// CartItem is the body of POST /sra_cart_content
type CartItem struct {
	Products map[string]CartItemProduct `json:"products"`
}

// CartItemProduct is one product of a CartItem, keyed by product id
type CartItemProduct struct {
	ProductID      int64            `json:"product_id"`
	Amount         int              `json:"amount"`
	ProductOptions map[string]int64 `json:"product_options,omitempty"`
}

// FetchCart loads the authoritative cart. When the backend reports carts of
// other vendors, each is fetched in parallel and the result is stored per
// vendor. Only the most recently started fetch may change the cart.
func (a *Actions) FetchCart(calculateShipping string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "CartActions.Fetch")
		defer span.End()

		if calculateShipping == "" {
			calculateShipping = CalculateShippingAll
		}
		seq := d.Sequencer()
		tag := seq.Issue(store.KeyCart)

		d.Dispatch(models.NewEvent(models.EventTypeCartLoading, nil))

		query := url.Values{"calculate_shipping": {calculateShipping}}
		var primary models.Cart
		if err := a.api.Get(ctx, "/sra_cart_content", query, &primary); err != nil {
			if seq.Discard(store.KeyCart, tag) {
				return nil
			}
			return a.fail(d, models.EventTypeCartFail, "CartActions.Fetch", err)
		}

		var loaded *models.CartLoaded
		switch {
		case primary.Amount == 0:
		case len(primary.AllVendorIDs) > 0:
			carts, err := a.fetchVendorCarts(ctx, primary, query)
			if err != nil {
				if seq.Discard(store.KeyCart, tag) {
					return nil
				}
				return a.fail(d, models.EventTypeCartFail, "CartActions.Fetch", err)
			}
			loaded = &models.CartLoaded{Carts: carts, IsSeparateCart: true}
		default:
			loaded = &models.CartLoaded{
				Carts: map[string]models.Cart{models.GeneralCartKey: withPaymentIDs(primary)},
			}
		}

		if seq.Discard(store.KeyCart, tag) {
			a.logger.Debug("Dropped stale cart response", zap.Uint64("tag", tag))
			return nil
		}
		if loaded == nil {
			d.Dispatch(models.NewEvent(models.EventTypeCartClearSuccess, nil))
		} else {
			d.Dispatch(models.NewEvent(models.EventTypeCartSuccess, *loaded))
		}
		d.Dispatch(models.NewEvent(models.EventTypeCartLoaded, nil))
		return nil
	}
}

// fetchVendorCarts fetches the cart of every vendor other than the primary
// one. Empty responses are left out.
func (a *Actions) fetchVendorCarts(ctx context.Context, primary models.Cart, query url.Values) (map[string]models.Cart, error) {
	var ids []int64
	for _, id := range primary.AllVendorIDs {
		if id != 0 && id != primary.VendorID {
			ids = append(ids, int64(id))
		}
	}

	results := make([]models.Cart, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			return a.api.Get(gctx, fmt.Sprintf("/sra_cart_content/%d", id), query, &results[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	carts := map[string]models.Cart{primary.VendorID.String(): withPaymentIDs(primary)}
	for _, c := range results {
		if c.VendorID != 0 {
			carts[c.VendorID.String()] = withPaymentIDs(c)
		}
	}
	return carts, nil
}

// withPaymentIDs returns c with each payment carrying its own key
func withPaymentIDs(c models.Cart) models.Cart {
	if len(c.Payments) == 0 {
		return c
	}
	payments := make(models.Dict[models.Payment], len(c.Payments))
	for key, p := range c.Payments {
		p.PaymentID = key
		payments[key] = p
	}
	c.Payments = payments
	return c
}

// AddToCart adds products and refetches the cart. An out-of-stock rejection
// also raises a warning.
func (a *Actions) AddToCart(item CartItem, notify bool) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "CartActions.Add")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeAddToCartRequest, nil))

		if err := a.api.Post(ctx, "/sra_cart_content/", item, nil); err != nil {
			if statusConflict(err) {
				a.notify(d, models.NotificationWarning, "Notice",
					a.tr.T("Product has zero inventory and cannot be added to the cart."), false)
			}
			return a.fail(d, models.EventTypeAddToCartFail, "CartActions.Add", err)
		}

		d.Dispatch(models.NewEvent(models.EventTypeAddToCartSuccess, nil))
		if notify {
			a.notify(d, models.NotificationSuccess, "Success", a.tr.T("The product was added to your cart."), false)
		}
		return d.Do(ctx, a.FetchCart(CalculateShippingAll))
	}
}

// ChangeCartItem updates one line and refetches the cart
func (a *Actions) ChangeCartItem(cartID string, data map[string]interface{}) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "CartActions.Change")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeCartChangeRequest, nil))
		if err := a.api.Put(ctx, fmt.Sprintf("/sra_cart_content/%s/", cartID), data, nil); err != nil {
			return a.fail(d, models.EventTypeCartChangeFail, "CartActions.Change", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeCartChangeSuccess, nil))
		return d.Do(ctx, a.FetchCart(CalculateShippingAll))
	}
}

// RemoveCartItem deletes one line and refetches once the delete is confirmed
func (a *Actions) RemoveCartItem(cartID string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "CartActions.Remove")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeCartRemoveRequest, nil))
		if err := a.api.Delete(ctx, fmt.Sprintf("/sra_cart_content/%s/", cartID), nil); err != nil {
			return a.fail(d, models.EventTypeCartRemoveFail, "CartActions.Remove", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeCartRemoveSuccess, nil))
		return d.Do(ctx, a.FetchCart(CalculateShippingAll))
	}
}

// ChangeAmount edits a line quantity locally. vendorID is empty for the
// unified cart.
func (a *Actions) ChangeAmount(cartID string, amount int, vendorID string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeCartLoading, nil))
		d.Dispatch(models.NewEvent(models.EventTypeChangeAmount, models.AmountChange{
			CartID:   cartID,
			Amount:   amount,
			VendorID: vendorID,
		}))
		return nil
	}
}

// ClearCart empties a cart. A vendor cart is emptied one line at a time, in
// order, and then refetched; the unified cart is cleared with one call.
func (a *Actions) ClearCart(cart models.Cart) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "CartActions.Clear")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeCartClearRequest, nil))

		if cart.VendorID != 0 {
			ids := make([]string, 0, len(cart.Products))
			for id := range cart.Products {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				if err := a.api.Delete(ctx, fmt.Sprintf("/sra_cart_content/%s/", id), nil); err != nil {
					return a.fail(d, models.EventTypeCartClearFail, "CartActions.Clear", err)
				}
			}
			return d.Do(ctx, a.FetchCart(CalculateShippingAll))
		}

		if err := a.api.Delete(ctx, "/sra_cart_content/", nil); err != nil {
			return a.fail(d, models.EventTypeCartClearFail, "CartActions.Clear", err)
		}
		// fetches started before the clear must not bring the lines back
		d.Sequencer().Issue(store.KeyCart)
		d.Dispatch(models.NewEvent(models.EventTypeCartClearSuccess, nil))
		return nil
	}
}

// SaveUserData stores checkout address fields and refetches the cart
func (a *Actions) SaveUserData(fields models.Fields) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "CartActions.SaveUserData")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeCartContentSaveRequest, fields))
		body := map[string]interface{}{"user_data": fields}
		if err := a.api.Put(ctx, "/sra_cart_content/", body, nil); err != nil {
			return a.fail(d, models.EventTypeCartContentSaveFail, "CartActions.SaveUserData", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeCartContentSaveSuccess, fields))
		return d.Do(ctx, a.FetchCart(CalculateShippingAll))
	}
}

// RecalculateTotal asks the backend for totals under the chosen shippings and
// coupons. The client does no price arithmetic of its own.
func (a *Actions) RecalculateTotal(shippingIDs, coupons []string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		ctx, span := util.StartSpan(ctx, "CartActions.RecalculateTotal")
		defer span.End()

		d.Dispatch(models.NewEvent(models.EventTypeCartRecalculateRequest, nil))

		query := url.Values{
			"calculate_shipping": {CalculateShippingSelected},
			"shipping_ids[]":     shippingIDs,
			"coupon_codes[]":     coupons,
		}
		var cart models.Cart
		if err := a.api.Get(ctx, "/sra_cart_content/", query, &cart); err != nil {
			return a.fail(d, models.EventTypeCartRecalculateFail, "CartActions.RecalculateTotal", err)
		}
		d.Dispatch(models.NewEvent(models.EventTypeCartRecalculateSuccess, cart))
		return nil
	}
}

// ShippingAddressDetails saves address fields and returns the cart priced for
// them, without touching the store
func (a *Actions) ShippingAddressDetails(ctx context.Context, fields models.Fields) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartActions.ShippingAddressDetails")
	defer span.End()

	if err := a.api.Put(ctx, "/sra_cart_content/", map[string]interface{}{"user_data": fields}, nil); err != nil {
		return models.Cart{}, err
	}
	var cart models.Cart
	err := a.api.Get(ctx, "/sra_cart_content/", url.Values{"calculate_shipping": {CalculateShippingAll}}, &cart)
	return cart, err
}

// ShippingOptionDetails returns the cart priced for the given shippings,
// without touching the store
func (a *Actions) ShippingOptionDetails(ctx context.Context, shippingIDs []string) (models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartActions.ShippingOptionDetails")
	defer span.End()

	query := url.Values{"calculate_shipping": {CalculateShippingSelected}, "shipping_ids[]": shippingIDs}
	var cart models.Cart
	err := a.api.Get(ctx, "/sra_cart_content/", query, &cart)
	return cart, err
}

func (a *Actions) AddCoupon(code string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeCartAddCouponCode, code))
		return nil
	}
}

func (a *Actions) RemoveCoupon(code string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeCartRemoveCouponCode, code))
		return nil
	}
}

// ApplyCoupon adds a coupon and recalculates with the updated coupon list
func (a *Actions) ApplyCoupon(code string, shippingIDs []string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeCartAddCouponCode, code))
		return d.Do(ctx, a.RecalculateTotal(shippingIDs, d.State().Cart.Coupons))
	}
}

// WithdrawCoupon removes a coupon and recalculates with the updated list
func (a *Actions) WithdrawCoupon(code string, shippingIDs []string) store.Thunk {
	return func(ctx context.Context, d store.Dispatcher) error {
		d.Dispatch(models.NewEvent(models.EventTypeCartRemoveCouponCode, code))
		return d.Do(ctx, a.RecalculateTotal(shippingIDs, d.State().Cart.Coupons))
	}
}

// CartByKey returns a copy of the cart stored under key
func CartByKey(state models.CartState, key string) (models.Cart, bool) {
	c, ok := state.Carts[key]
	if !ok {
		return models.Cart{}, false
	}
	c.Products = maps.Clone(c.Products)
	return c, true
}
