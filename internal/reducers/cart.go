package reducers

import (
	"maps"

	"multivendor-client/internal/models"
)

func InitialCart() models.CartState {
	return models.CartState{
		Carts:   map[string]models.Cart{},
		Coupons: []string{},
	}
}

// Cart reduces the cart slice. Maps held in the state are never written to;
// every change copies the path it touches.
func Cart(state models.CartState, e models.Event) models.CartState {
	switch e.EventType {
	case models.EventTypeCartLoading,
		models.EventTypeAddToCartRequest,
		models.EventTypeCartClearRequest,
		models.EventTypeCartContentSaveRequest:
		state.Fetching = true
		return state

	case models.EventTypeCartLoaded,
		models.EventTypeCartFail,
		models.EventTypeAddToCartSuccess,
		models.EventTypeAddToCartFail,
		models.EventTypeCartClearFail,
		models.EventTypeCartContentSaveFail:
		state.Fetching = false
		return state

	case models.EventTypeCartSuccess:
		p, ok := e.Payload.(models.CartLoaded)
		if !ok {
			return state
		}
		state.Carts = p.Carts
		if state.Carts == nil {
			state.Carts = map[string]models.Cart{}
		}
		state.IsSeparateCart = p.IsSeparateCart
		state.Coupons = []string{}
		return state

	case models.EventTypeCartClearSuccess:
		state.Carts = map[string]models.Cart{}
		state.Fetching = false
		return state

	case models.EventTypeCartContentSaveSuccess:
		p, ok := e.Payload.(models.Fields)
		if !ok {
			return state
		}
		merged := state.UserData.Clone()
		if merged == nil {
			merged = models.Fields{}
		}
		for k, v := range p {
			merged[k] = v
		}
		state.UserData = merged
		state.Fetching = false
		return state

	case models.EventTypeCartRecalculateSuccess:
		p, ok := e.Payload.(models.Cart)
		if !ok {
			return state
		}
		state.Total = p.Total
		state.TotalFormatted = p.TotalFormatted
		state.Subtotal = p.Subtotal
		state.SubtotalFormatted = p.SubtotalFormatted
		state.Coupons = p.CouponCodes()
		return state

	case models.EventTypeChangeAmount:
		p, ok := e.Payload.(models.AmountChange)
		if !ok {
			return state
		}
		return changeAmount(state, p)

	case models.EventTypeCartAddCouponCode:
		code, ok := e.Payload.(string)
		if !ok {
			return state
		}
		coupons := make([]string, 0, len(state.Coupons)+1)
		coupons = append(coupons, state.Coupons...)
		state.Coupons = append(coupons, code)
		return state

	case models.EventTypeCartRemoveCouponCode:
		code, ok := e.Payload.(string)
		if !ok {
			return state
		}
		coupons := make([]string, 0, len(state.Coupons))
		for _, c := range state.Coupons {
			if c != code {
				coupons = append(coupons, c)
			}
		}
		state.Coupons = coupons
		return state

	case models.EventTypeAuthLogout:
		return InitialCart()

	case models.EventTypeRestoreState:
		if snap, ok := e.Payload.(models.Snapshot); ok && snap.Cart != nil {
			restored := *snap.Cart
			restored.Fetching = false
			if restored.Carts == nil {
				restored.Carts = map[string]models.Cart{}
			}
			if restored.Coupons == nil {
				restored.Coupons = []string{}
			}
			return restored
		}
		return state

	default:
		return state
	}
}

// changeAmount copies the carts map, the target cart's products map and the
// target line; everything else is shared with the previous state.
func changeAmount(state models.CartState, p models.AmountChange) models.CartState {
	state.Fetching = false

	key := models.GeneralCartKey
	if _, unified := state.Carts[key]; !unified {
		key = p.VendorID
	}
	cart, ok := state.Carts[key]
	if !ok {
		return state
	}
	line, ok := cart.Products[p.CartID]
	if !ok {
		return state
	}

	line.Amount = models.FlexInt(p.Amount)
	products := maps.Clone(cart.Products)
	products[p.CartID] = line
	cart.Products = products

	carts := maps.Clone(state.Carts)
	carts[key] = cart
	state.Carts = carts
	return state
}
