package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Event types: session and profile
const (
	EventTypeAuthLoginRequest       = "AUTH_LOGIN_REQUEST"
	EventTypeAuthLoginSuccess       = "AUTH_LOGIN_SUCCESS"
	EventTypeAuthLoginFail          = "AUTH_LOGIN_FAIL"
	EventTypeAuthResetState         = "AUTH_RESET_STATE"
	EventTypeAuthLogout             = "AUTH_LOGOUT"
	EventTypeRegistrationRequest    = "AUTH_REGISTRATION_REQUEST"
	EventTypeRegistrationSuccess    = "AUTH_REGISTRATION_SUCCESS"
	EventTypeRegistrationFail       = "AUTH_REGISTRATION_FAIL"
	EventTypeRegisterDeviceRequest  = "REGISTER_DEVICE_REQUEST"
	EventTypeRegisterDeviceSuccess  = "REGISTER_DEVICE_SUCCESS"
	EventTypeRegisterDeviceFail     = "REGISTER_DEVICE_FAIL"
	EventTypeFetchProfileFieldsReq  = "FETCH_PROFILE_FIELDS_REQUEST"
	EventTypeFetchProfileFieldsOK   = "FETCH_PROFILE_FIELDS_SUCCESS"
	EventTypeFetchProfileFieldsFail = "FETCH_PROFILE_FIELDS_FAIL"
	EventTypeFetchProfileRequest    = "FETCH_PROFILE_REQUEST"
	EventTypeFetchProfileSuccess    = "FETCH_PROFILE_SUCCESS"
	EventTypeFetchProfileFail       = "FETCH_PROFILE_FAIL"
	EventTypeUpdateProfileRequest   = "UPDATE_PROFILE_REQUEST"
	EventTypeUpdateProfileSuccess   = "UPDATE_PROFILE_SUCCESS"
	EventTypeUpdateProfileFail      = "UPDATE_PROFILE_FAIL"
	EventTypeRestoreState           = "RESTORE_STATE"
	EventTypeDeviceIDAssigned       = "DEVICE_ID_ASSIGNED"
)

// Event types: cart
const (
	EventTypeCartLoading            = "CART_LOADING"
	EventTypeCartLoaded             = "CART_LOADED"
	EventTypeCartSuccess            = "CART_SUCCESS"
	EventTypeCartFail               = "CART_FAIL"
	EventTypeAddToCartRequest       = "ADD_TO_CART_REQUEST"
	EventTypeAddToCartSuccess       = "ADD_TO_CART_SUCCESS"
	EventTypeAddToCartFail          = "ADD_TO_CART_FAIL"
	EventTypeCartChangeRequest      = "CART_CHANGE_REQUEST"
	EventTypeCartChangeSuccess      = "CART_CHANGE_SUCCESS"
	EventTypeCartChangeFail         = "CART_CHANGE_FAIL"
	EventTypeCartContentSaveRequest = "CART_CONTENT_SAVE_REQUEST"
	EventTypeCartContentSaveSuccess = "CART_CONTENT_SAVE_SUCCESS"
	EventTypeCartContentSaveFail    = "CART_CONTENT_SAVE_FAIL"
	EventTypeCartRemoveRequest      = "CART_REMOVE_REQUEST"
	EventTypeCartRemoveSuccess      = "CART_REMOVE_SUCCESS"
	EventTypeCartRemoveFail         = "CART_REMOVE_FAIL"
	EventTypeCartClearRequest       = "CART_CLEAR_REQUEST"
	EventTypeCartClearSuccess       = "CART_CLEAR_SUCCESS"
	EventTypeCartClearFail          = "CART_CLEAR_FAIL"
	EventTypeCartRecalculateRequest = "CART_RECALCULATE_REQUEST"
	EventTypeCartRecalculateSuccess = "CART_RECALCULATE_SUCCESS"
	EventTypeCartRecalculateFail    = "CART_RECALCULATE_FAIL"
	EventTypeChangeAmount           = "CHANGE_AMOUNT"
	EventTypeCartAddCouponCode      = "CART_ADD_COUPON_CODE"
	EventTypeCartRemoveCouponCode   = "CART_REMOVE_COUPON_CODE"
)

// Event types: catalog, vendors and discussion
const (
	EventTypeFetchProductsRequest    = "FETCH_PRODUCTS_REQUEST"
	EventTypeFetchProductsSuccess    = "FETCH_PRODUCTS_SUCCESS"
	EventTypeFetchProductsFail       = "FETCH_PRODUCTS_FAIL"
	EventTypeSearchProductsRequest   = "SEARCH_PRODUCTS_REQUEST"
	EventTypeSearchProductsSuccess   = "SEARCH_PRODUCTS_SUCCESS"
	EventTypeSearchProductsFail      = "SEARCH_PRODUCTS_FAIL"
	EventTypeFetchOneProductRequest  = "FETCH_ONE_PRODUCT_REQUEST"
	EventTypeFetchOneProductSuccess  = "FETCH_ONE_PRODUCT_SUCCESS"
	EventTypeFetchOneProductFail     = "FETCH_ONE_PRODUCT_FAIL"
	EventTypeRecalculatePriceRequest = "RECALCULATE_PRODUCT_PRICE_REQUEST"
	EventTypeRecalculatePriceSuccess = "RECALCULATE_PRODUCT_PRICE_SUCCESS"
	EventTypeRecalculatePriceFail    = "RECALCULATE_PRODUCT_PRICE_FAIL"
	EventTypeChangeProductsSort      = "CHANGE_PRODUCTS_SORT"
	EventTypeChangeProductsAmount    = "CHANGE_PRODUCTS_AMOUNT"
	EventTypeFetchDiscussionRequest  = "FETCH_DISCUSSION_REQUEST"
	EventTypeFetchDiscussionSuccess  = "FETCH_DISCUSSION_SUCCESS"
	EventTypeFetchDiscussionFail     = "FETCH_DISCUSSION_FAIL"
	EventTypePostDiscussionRequest   = "POST_DISCUSSION_REQUEST"
	EventTypePostDiscussionSuccess   = "POST_DISCUSSION_SUCCESS"
	EventTypePostDiscussionFail      = "POST_DISCUSSION_FAIL"
	EventTypeFetchVendorRequest      = "FETCH_VENDOR_REQUEST"
	EventTypeFetchVendorSuccess      = "FETCH_VENDOR_SUCCESS"
	EventTypeFetchVendorFail         = "FETCH_VENDOR_FAIL"
	EventTypeVendorCategoriesRequest = "FETCH_VENDOR_CATEGORIES_REQUEST"
	EventTypeVendorCategoriesSuccess = "FETCH_VENDOR_CATEGORIES_SUCCESS"
	EventTypeVendorCategoriesFail    = "FETCH_VENDOR_CATEGORIES_FAIL"
)

// Event types: orders and payments
const (
	EventTypeFetchOrdersRequest = "FETCH_ORDERS_REQUEST"
	EventTypeFetchOrdersSuccess = "FETCH_ORDERS_SUCCESS"
	EventTypeFetchOrdersFail    = "FETCH_ORDERS_FAIL"
	EventTypeOrderRequest       = "ORDER_REQUEST"
	EventTypeOrderSuccess       = "ORDER_SUCCESS"
	EventTypeOrderFail          = "ORDER_FAIL"
	EventTypeOrderCreateRequest = "ORDER_CREATE_REQUEST"
	EventTypeOrderCreateSuccess = "ORDER_CREATE_SUCCESS"
	EventTypeOrderCreateFail    = "ORDER_CREATE_FAIL"
	EventTypeSettlementsRequest = "SETTLEMENTS_REQUEST"
	EventTypeSettlementsSuccess = "SETTLEMENTS_SUCCESS"
	EventTypeSettlementsFail    = "SETTLEMENTS_FAIL"
	EventTypeCheckoutComplete   = "CHECKOUT_COMPLETE"
)

// Event types: vendor console
const (
	EventTypeVendorOrdersRequest         = "VENDOR_ORDERS_REQUEST"
	EventTypeVendorOrdersSuccess         = "VENDOR_ORDERS_SUCCESS"
	EventTypeVendorOrdersFail            = "VENDOR_ORDERS_FAIL"
	EventTypeVendorOrderRequest          = "VENDOR_ORDER_REQUEST"
	EventTypeVendorOrderSuccess          = "VENDOR_ORDER_SUCCESS"
	EventTypeVendorOrderFail             = "VENDOR_ORDER_FAIL"
	EventTypeVendorOrderStatusRequest    = "VENDOR_ORDER_UPDATE_STATUS_REQUEST"
	EventTypeVendorOrderStatusSuccess    = "VENDOR_ORDER_UPDATE_STATUS_SUCCESS"
	EventTypeVendorOrderStatusFail       = "VENDOR_ORDER_UPDATE_STATUS_FAIL"
	EventTypeVendorProductsRequest       = "VENDOR_PRODUCTS_REQUEST"
	EventTypeVendorProductsSuccess       = "VENDOR_PRODUCTS_SUCCESS"
	EventTypeVendorProductsFail          = "VENDOR_PRODUCTS_FAIL"
	EventTypeVendorProductRequest        = "VENDOR_PRODUCT_REQUEST"
	EventTypeVendorProductSuccess        = "VENDOR_PRODUCT_SUCCESS"
	EventTypeVendorProductFail           = "VENDOR_PRODUCT_FAIL"
	EventTypeVendorCreateProductRequest  = "VENDOR_CREATE_PRODUCT_REQUEST"
	EventTypeVendorCreateProductSuccess  = "VENDOR_CREATE_PRODUCT_SUCCESS"
	EventTypeVendorCreateProductFail     = "VENDOR_CREATE_PRODUCT_FAIL"
	EventTypeVendorUpdateProductRequest  = "VENDOR_UPDATE_PRODUCT_REQUEST"
	EventTypeVendorUpdateProductSuccess  = "VENDOR_UPDATE_PRODUCT_SUCCESS"
	EventTypeVendorUpdateProductFail     = "VENDOR_UPDATE_PRODUCT_FAIL"
	EventTypeVendorDeleteProductRequest  = "VENDOR_DELETE_PRODUCT_REQUEST"
	EventTypeVendorDeleteProductSuccess  = "VENDOR_DELETE_PRODUCT_SUCCESS"
	EventTypeVendorDeleteProductFail     = "VENDOR_DELETE_PRODUCT_FAIL"
	EventTypeVendorChangeCategory        = "VENDOR_PRODUCT_CHANGE_CATEGORY"
	EventTypeVendorCategoriesListRequest = "VENDOR_CATEGORIES_REQUEST"
	EventTypeVendorCategoriesListSuccess = "VENDOR_CATEGORIES_SUCCESS"
	EventTypeVendorCategoriesListFail    = "VENDOR_CATEGORIES_FAIL"
	EventTypeVendorCategoriesToggle      = "VENDOR_CATEGORIES_TOGGLE"
	EventTypeVendorCategoriesClear       = "VENDOR_CATEGORIES_CLEAR"
)

// Event types: notifications, image picker, wish list, layouts
const (
	EventTypeNotificationShow     = "NOTIFICATION_SHOW"
	EventTypeNotificationHide     = "NOTIFICATION_HIDE"
	EventTypeImagePickerToggle    = "IMAGE_PICKER_TOGGLE"
	EventTypeImagePickerClear     = "IMAGE_PICKER_CLEAR"
	EventTypeWishListFetchRequest = "WISH_LIST_FETCH_REQUEST"
	EventTypeWishListFetchSuccess = "WISH_LIST_FETCH_SUCCESS"
	EventTypeWishListFetchFail    = "WISH_LIST_FETCH_FAIL"
	EventTypeWishListAddRequest   = "WISH_LIST_ADD_REQUEST"
	EventTypeWishListAddSuccess   = "WISH_LIST_ADD_SUCCESS"
	EventTypeWishListAddFail      = "WISH_LIST_ADD_FAIL"
	EventTypeWishListRemove       = "WISH_LIST_REMOVE_SUCCESS"
	EventTypeWishListRemoveFail   = "WISH_LIST_REMOVE_FAIL"
	EventTypeWishListClear        = "WISH_LIST_CLEAR"
	EventTypeLayoutsRequest       = "FETCH_LAYOUTS_BLOCKS_REQUEST"
	EventTypeLayoutsSuccess       = "FETCH_LAYOUTS_BLOCKS_SUCCESS"
	EventTypeLayoutsFail          = "FETCH_LAYOUTS_BLOCKS_FAIL"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// Event is a state mutation submitted to the store. Err is set on *_FAIL events.
type Event struct {
	BaseEvent
	Payload interface{} `json:"payload,omitempty"`
	Err     error       `json:"-"`
}

// NewEvent builds an event of the given type
func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		BaseEvent: BaseEvent{
			EventID:   uuid.NewString(),
			EventType: eventType,
			Timestamp: time.Now().UTC(),
		},
		Payload: payload,
	}
}

// FailEvent builds a failure event carrying err
func FailEvent(eventType string, err error) Event {
	e := NewEvent(eventType, nil)
	e.Err = err
	return e
}

// Type returns the event type
func (e Event) Type() string {
	return e.EventType
}

// AuthToken is the payload of login and registration success
type AuthToken struct {
	Token     string  `json:"token" validate:"required"`
	TTL       FlexInt `json:"ttl"`
	ProfileID FlexInt `json:"profile_id,omitempty"`
	UserID    FlexInt `json:"user_id,omitempty"`
}

// AuthFailure is the payload of AUTH_LOGIN_FAIL
type AuthFailure struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// DeviceRegistration is sent to register a push token
type DeviceRegistration struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
	Locale   string `json:"locale"`
	DeviceID string `json:"device_id"`
}

// SnapshotVersion is the current persisted snapshot format
const SnapshotVersion = 1

// Snapshot is the durable subset of the state tree. Nil slices were absent
// from the stored payload.
type Snapshot struct {
	Version int        `json:"version"`
	Auth    *Session   `json:"auth,omitempty"`
	Cart    *CartState `json:"cart,omitempty"`
	Profile *Profile   `json:"profile,omitempty"`
}

// CartLoaded is the payload of CART_SUCCESS
type CartLoaded struct {
	Carts          map[string]Cart `json:"carts"`
	IsSeparateCart bool            `json:"is_separate_cart"`
}

// AmountChange is the payload of CHANGE_AMOUNT. VendorID is empty for a
// unified cart.
type AmountChange struct {
	CartID   string `json:"cid"`
	Amount   int    `json:"amount"`
	VendorID string `json:"id,omitempty"`
}

// ProductSort is the payload of CHANGE_PRODUCTS_SORT
type ProductSort struct {
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// DiscussionResponse is the body of GET /sra_discussion
type DiscussionResponse struct {
	Posts         []Post    `json:"posts"`
	AverageRating FlexFloat `json:"average_rating"`
	Search        struct {
		Page       FlexInt `json:"page"`
		TotalItems FlexInt `json:"total_items"`
	} `json:"search"`
	Disabled bool `json:"disabled,omitempty"`
}

// DiscussionPage is the payload of FETCH_DISCUSSION_SUCCESS
type DiscussionPage struct {
	ID         string             `json:"id"`
	Page       int                `json:"page"`
	Discussion DiscussionResponse `json:"discussion"`
}

// OrdersPage is the payload of a paged order list success
type OrdersPage struct {
	Items   []Order `json:"items"`
	Page    int     `json:"page"`
	HasMore bool    `json:"has_more"`
}

// ProductsPage is the payload of a paged vendor product list success
type ProductsPage struct {
	Items   []Product `json:"items"`
	Page    int       `json:"page"`
	HasMore bool      `json:"has_more"`
}

// OrderStatusChange is the payload of VENDOR_ORDER_UPDATE_STATUS_SUCCESS
type OrderStatusChange struct {
	OrderID int64  `json:"id"`
	Status  string `json:"status"`
}

// Settlement is the provider redirect returned by POST /sra_settlements
type Settlement struct {
	OrderID         int64             `json:"order_id"`
	PaymentURL      string            `json:"payment_url,omitempty"`
	ReturnURL       string            `json:"return_url,omitempty"`
	QueryParameters map[string]string `json:"query_parameters,omitempty"`
}

// CheckoutResult is the payload of CHECKOUT_COMPLETE
type CheckoutResult struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// CategoryToggle is the payload of VENDOR_CATEGORIES_TOGGLE
type CategoryToggle struct {
	Category Category `json:"category"`
}

// WishListChange is the payload of WISH_LIST_REMOVE_SUCCESS
type WishListChange struct {
	CartID string `json:"cart_id"`
}

// CouponCodes returns the applied coupon codes of a cart in sorted order
func (c Cart) CouponCodes() []string {
	out := make([]string, 0, len(c.Coupons))
	for code := range c.Coupons {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
