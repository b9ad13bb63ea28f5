package reducers

import "multivendor-client/internal/models"

func InitialOrders() models.OrderList {
	return models.OrderList{
		Items:          []models.Order{},
		Loading:        true,
		HasMore:        true,
		LoadingCurrent: true,
	}
}

// orderEvents names the event types one order list reacts to
type orderEvents struct {
	listRequest, listSuccess, listFail string
	oneRequest, oneSuccess, oneFail    string
}

var customerOrderEvents = orderEvents{
	listRequest: models.EventTypeFetchOrdersRequest,
	listSuccess: models.EventTypeFetchOrdersSuccess,
	listFail:    models.EventTypeFetchOrdersFail,
	oneRequest:  models.EventTypeOrderRequest,
	oneSuccess:  models.EventTypeOrderSuccess,
	oneFail:     models.EventTypeOrderFail,
}

var vendorOrderEvents = orderEvents{
	listRequest: models.EventTypeVendorOrdersRequest,
	listSuccess: models.EventTypeVendorOrdersSuccess,
	listFail:    models.EventTypeVendorOrdersFail,
	oneRequest:  models.EventTypeVendorOrderRequest,
	oneSuccess:  models.EventTypeVendorOrderSuccess,
	oneFail:     models.EventTypeVendorOrderFail,
}

// Orders reduces the customer's order history
func Orders(state models.OrderList, e models.Event) models.OrderList {
	switch e.EventType {
	case models.EventTypeCheckoutComplete:
		if p, ok := e.Payload.(models.CheckoutResult); ok {
			state.LastCompleted = p.OrderID
		}
		return state
	case models.EventTypeAuthLogout:
		return InitialOrders()
	default:
		return orderList(state, e, customerOrderEvents)
	}
}

// VendorManageOrders reduces the vendor console order list
func VendorManageOrders(state models.OrderList, e models.Event) models.OrderList {
	switch e.EventType {
	case models.EventTypeVendorOrderStatusSuccess:
		p, ok := e.Payload.(models.OrderStatusChange)
		if !ok {
			return state
		}
		return updateOrderStatus(state, p)
	case models.EventTypeAuthLogout:
		return InitialOrders()
	default:
		return orderList(state, e, vendorOrderEvents)
	}
}

func orderList(state models.OrderList, e models.Event, ev orderEvents) models.OrderList {
	switch e.EventType {
	case ev.listRequest:
		state.Loading = true
		return state

	case ev.listSuccess:
		p, ok := e.Payload.(models.OrdersPage)
		if !ok {
			return state
		}
		if p.Page <= 1 {
			state.Items = append([]models.Order{}, p.Items...)
		} else {
			items := make([]models.Order, 0, len(state.Items)+len(p.Items))
			items = append(items, state.Items...)
			state.Items = append(items, p.Items...)
		}
		state.Page = p.Page
		state.HasMore = p.HasMore
		state.Loading = false
		return state

	case ev.listFail:
		state.Loading = false
		return state

	case ev.oneRequest:
		state.LoadingCurrent = true
		return state

	case ev.oneSuccess:
		if o, ok := e.Payload.(models.Order); ok {
			state.Current = o
		}
		state.LoadingCurrent = false
		return state

	case ev.oneFail:
		state.LoadingCurrent = false
		return state

	default:
		return state
	}
}

// updateOrderStatus changes the status of a listed order and of the viewed
// order when it is the same one. Unknown ids leave the state untouched.
func updateOrderStatus(state models.OrderList, p models.OrderStatusChange) models.OrderList {
	idx := -1
	for i, o := range state.Items {
		if int64(o.OrderID) == p.OrderID {
			idx = i
			break
		}
	}
	isCurrent := int64(state.Current.OrderID) == p.OrderID && p.OrderID != 0
	if idx < 0 && !isCurrent {
		return state
	}

	if idx >= 0 {
		items := append([]models.Order{}, state.Items...)
		items[idx].Status = p.Status
		state.Items = items
	}
	if isCurrent {
		state.Current.Status = p.Status
	}
	return state
}
