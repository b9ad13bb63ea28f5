package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ErrUnknownEventType is returned when decoding a record whose type has no
// registered payload and is not a payload-less event.
var ErrUnknownEventType = errors.New("unknown event type")

var payloadTypes = map[string]reflect.Type{}

// bare lists event types that carry no payload
var bare = map[string]struct{}{}

func register(sample interface{}, eventTypes ...string) {
	t := reflect.TypeOf(sample)
	for _, et := range eventTypes {
		payloadTypes[et] = t
	}
}

func registerBare(eventTypes ...string) {
	for _, et := range eventTypes {
		bare[et] = struct{}{}
	}
}

func init() {
	register(AuthToken{}, EventTypeAuthLoginSuccess, EventTypeRegistrationSuccess)
	register(AuthFailure{}, EventTypeAuthLoginFail)
	register(DeviceRegistration{}, EventTypeRegisterDeviceSuccess)
	register(Snapshot{}, EventTypeRestoreState)
	register("", EventTypeDeviceIDAssigned, EventTypeCartAddCouponCode, EventTypeCartRemoveCouponCode,
		EventTypeNotificationHide)
	register(Profile{}, EventTypeFetchProfileSuccess, EventTypeFetchProfileFieldsOK)

	register(CartLoaded{}, EventTypeCartSuccess)
	register(AmountChange{}, EventTypeChangeAmount)
	register(Cart{}, EventTypeCartRecalculateSuccess)
	register(Fields{}, EventTypeCartContentSaveRequest, EventTypeCartContentSaveSuccess)

	register(ProductList{}, EventTypeFetchProductsSuccess, EventTypeSearchProductsSuccess)
	register(Product{}, EventTypeFetchOneProductSuccess, EventTypeRecalculatePriceSuccess,
		EventTypeVendorProductSuccess, EventTypeVendorCreateProductSuccess, EventTypeVendorUpdateProductSuccess)
	register(ProductSort{}, EventTypeChangeProductsSort)
	register(0, EventTypeChangeProductsAmount, EventTypeVendorDeleteProductSuccess)
	register(DiscussionPage{}, EventTypeFetchDiscussionSuccess)
	register(Vendor{}, EventTypeFetchVendorSuccess)
	register([]Category{}, EventTypeVendorCategoriesSuccess, EventTypeVendorCategoriesListSuccess,
		EventTypeVendorChangeCategory)

	register(OrdersPage{}, EventTypeFetchOrdersSuccess, EventTypeVendorOrdersSuccess)
	register(Order{}, EventTypeOrderSuccess, EventTypeOrderCreateSuccess, EventTypeVendorOrderSuccess)
	register(Settlement{}, EventTypeSettlementsSuccess)
	register(CheckoutResult{}, EventTypeCheckoutComplete)
	register(OrderStatusChange{}, EventTypeVendorOrderStatusSuccess)
	register(ProductsPage{}, EventTypeVendorProductsSuccess)
	register(CategoryToggle{}, EventTypeVendorCategoriesToggle)

	register(Notification{}, EventTypeNotificationShow)
	register([]string{}, EventTypeImagePickerToggle)
	register(WishList{}, EventTypeWishListFetchSuccess)
	register(WishListChange{}, EventTypeWishListRemove)
	register([]LayoutBlock{}, EventTypeLayoutsSuccess)

	registerBare(
		EventTypeAuthLoginRequest, EventTypeAuthResetState, EventTypeAuthLogout,
		EventTypeRegistrationRequest, EventTypeRegistrationFail,
		EventTypeRegisterDeviceRequest, EventTypeRegisterDeviceFail,
		EventTypeFetchProfileFieldsReq, EventTypeFetchProfileFieldsFail,
		EventTypeFetchProfileRequest, EventTypeFetchProfileFail,
		EventTypeUpdateProfileRequest, EventTypeUpdateProfileSuccess, EventTypeUpdateProfileFail,
		EventTypeCartLoading, EventTypeCartLoaded, EventTypeCartFail,
		EventTypeAddToCartRequest, EventTypeAddToCartSuccess, EventTypeAddToCartFail,
		EventTypeCartChangeRequest, EventTypeCartChangeSuccess, EventTypeCartChangeFail,
		EventTypeCartContentSaveFail,
		EventTypeCartRemoveRequest, EventTypeCartRemoveSuccess, EventTypeCartRemoveFail,
		EventTypeCartClearRequest, EventTypeCartClearSuccess, EventTypeCartClearFail,
		EventTypeCartRecalculateRequest, EventTypeCartRecalculateFail,
		EventTypeFetchProductsRequest, EventTypeFetchProductsFail,
		EventTypeSearchProductsRequest, EventTypeSearchProductsFail,
		EventTypeFetchOneProductRequest, EventTypeFetchOneProductFail,
		EventTypeRecalculatePriceRequest, EventTypeRecalculatePriceFail,
		EventTypeFetchDiscussionRequest, EventTypeFetchDiscussionFail,
		EventTypePostDiscussionRequest, EventTypePostDiscussionSuccess, EventTypePostDiscussionFail,
		EventTypeFetchVendorRequest, EventTypeFetchVendorFail,
		EventTypeVendorCategoriesRequest, EventTypeVendorCategoriesFail,
		EventTypeFetchOrdersRequest, EventTypeFetchOrdersFail,
		EventTypeOrderRequest, EventTypeOrderFail,
		EventTypeOrderCreateRequest, EventTypeOrderCreateFail,
		EventTypeSettlementsRequest, EventTypeSettlementsFail,
		EventTypeVendorOrdersRequest, EventTypeVendorOrdersFail,
		EventTypeVendorOrderRequest, EventTypeVendorOrderFail,
		EventTypeVendorOrderStatusRequest, EventTypeVendorOrderStatusFail,
		EventTypeVendorProductsRequest, EventTypeVendorProductsFail,
		EventTypeVendorProductRequest, EventTypeVendorProductFail,
		EventTypeVendorCreateProductRequest, EventTypeVendorCreateProductFail,
		EventTypeVendorUpdateProductRequest, EventTypeVendorUpdateProductFail,
		EventTypeVendorDeleteProductRequest, EventTypeVendorDeleteProductFail,
		EventTypeVendorCategoriesListRequest, EventTypeVendorCategoriesListFail,
		EventTypeVendorCategoriesClear,
		EventTypeImagePickerClear,
		EventTypeWishListFetchRequest, EventTypeWishListFetchFail,
		EventTypeWishListAddRequest, EventTypeWishListAddSuccess, EventTypeWishListAddFail,
		EventTypeWishListRemoveFail, EventTypeWishListClear,
		EventTypeLayoutsRequest, EventTypeLayoutsFail,
	)
}

// Known reports whether eventType is a registered event type
func Known(eventType string) bool {
	if _, ok := payloadTypes[eventType]; ok {
		return true
	}
	_, ok := bare[eventType]
	return ok
}

// DecodePayload decodes raw into the payload type registered for eventType.
// The returned value is a value, not a pointer, matching what action creators
// dispatch.
func DecodePayload(eventType string, raw json.RawMessage) (interface{}, error) {
	t, ok := payloadTypes[eventType]
	if !ok {
		if _, isBare := bare[eventType]; isBare {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return reflect.Zero(t).Interface(), nil
	}

	ptr := reflect.New(t)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", eventType, err)
	}
	return ptr.Elem().Interface(), nil
}

// Record is the journaled form of an event
type Record struct {
	BaseEvent
	DeviceID string          `json:"device_id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// NewRecord converts e into its journaled form
func NewRecord(e Event, deviceID string) (Record, error) {
	rec := Record{BaseEvent: e.BaseEvent, DeviceID: deviceID}
	if e.Payload != nil {
		data, err := json.Marshal(e.Payload)
		if err != nil {
			return Record{}, fmt.Errorf("failed to marshal %s payload: %w", e.EventType, err)
		}
		rec.Payload = data
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	return rec, nil
}

// Event rebuilds the event a record was made from
func (r Record) Event() (Event, error) {
	payload, err := DecodePayload(r.EventType, r.Payload)
	if err != nil {
		return Event{}, err
	}
	e := Event{BaseEvent: r.BaseEvent, Payload: payload}
	if r.Error != "" {
		e.Err = errors.New(r.Error)
	}
	return e, nil
}
