package models

import "encoding/json"

// Session represents the authenticated user session on this device
type Session struct {
	Token       string `json:"token,omitempty"`
	TTL         int64  `json:"ttl,omitempty" validate:"gte=0"`
	Logged      bool   `json:"logged"`
	UUID        string `json:"uuid,omitempty"`
	DeviceToken string `json:"device_token,omitempty"`
	ProfileID   int64  `json:"profile_id,omitempty"`
	UserID      int64  `json:"user_id,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorStatus int    `json:"error_status,omitempty"`
	Fetching    bool   `json:"-"`
}

// CartProduct represents a line item in a cart, keyed by its cart id
type CartProduct struct {
	CartID         string    `json:"cart_id,omitempty"`
	ProductID      FlexInt   `json:"product_id"`
	Product        string    `json:"product"`
	Amount         FlexInt   `json:"amount" validate:"gte=0"`
	Price          FlexFloat `json:"price"`
	PriceFormatted Formatted `json:"price_formatted"`
	CompanyID      FlexInt   `json:"company_id,omitempty"`
	ImagePath      string    `json:"image_path,omitempty"`
}

// Payment represents a payment method offered for a cart
type Payment struct {
	PaymentID    string `json:"payment_id"`
	Payment      string `json:"payment"`
	Description  string `json:"description,omitempty"`
	Template     string `json:"template,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Cart represents one cart as returned by the backend. A unified cart and each
// per-vendor cart share this shape.
type Cart struct {
	VendorID          FlexInt               `json:"vendor_id,omitempty"`
	Amount            FlexInt               `json:"amount" validate:"gte=0"`
	Products          Dict[CartProduct]     `json:"products" validate:"dive"`
	UserData          Fields                `json:"user_data,omitempty"`
	Total             FlexFloat             `json:"total"`
	TotalFormatted    Formatted             `json:"total_formatted"`
	Subtotal          FlexFloat             `json:"subtotal"`
	SubtotalFormatted Formatted             `json:"subtotal_formatted"`
	Payments          Dict[Payment]         `json:"payments,omitempty"`
	Coupons           Dict[json.RawMessage] `json:"coupons,omitempty"`
	AllVendorIDs      []FlexInt             `json:"all_vendor_ids,omitempty"`
}

// CartState is the client-side cart. Exactly one representation is populated:
// Carts["general"] when IsSeparateCart is false, one entry per vendor id otherwise.
type CartState struct {
	Carts             map[string]Cart `json:"carts,omitempty" validate:"dive"`
	IsSeparateCart    bool            `json:"is_separate_cart"`
	Coupons           []string        `json:"coupons,omitempty"`
	UserData          Fields          `json:"user_data,omitempty"`
	Total             FlexFloat       `json:"total,omitempty"`
	TotalFormatted    Formatted       `json:"total_formatted"`
	Subtotal          FlexFloat       `json:"subtotal,omitempty"`
	SubtotalFormatted Formatted       `json:"subtotal_formatted"`
	Fetching          bool            `json:"-"`
}

// GeneralCartKey keys the unified cart inside CartState.Carts
const GeneralCartKey = "general"

// Variant represents one selectable value of a product option
type Variant struct {
	VariantID   FlexInt   `json:"variant_id"`
	VariantName string    `json:"variant_name"`
	Modifier    FlexFloat `json:"modifier,omitempty"`
}

// ProductOption represents a configurable option of a product
type ProductOption struct {
	OptionID   FlexInt       `json:"option_id"`
	OptionName string        `json:"option_name"`
	OptionType string        `json:"option_type,omitempty"`
	Variants   Dict[Variant] `json:"variants,omitempty"`
	Value      FlexInt       `json:"value,omitempty"`
}

// Product represents a product in the catalog
type Product struct {
	ProductID           FlexInt             `json:"product_id"`
	Product             string              `json:"product"`
	CompanyID           FlexInt             `json:"company_id,omitempty"`
	Price               FlexFloat           `json:"price"`
	PriceFormatted      Formatted           `json:"price_formatted"`
	ListPriceFormatted  Formatted           `json:"list_price_formatted"`
	TaxedPriceFormatted Formatted           `json:"taxed_price_formatted"`
	Amount              FlexInt             `json:"amount"`
	QtyStep             FlexInt             `json:"qty_step,omitempty"`
	ListDiscountPrc     FlexFloat           `json:"list_discount_prc,omitempty"`
	DiscountPrc         FlexFloat           `json:"discount_prc,omitempty"`
	ProductOptions      Dict[ProductOption] `json:"product_options,omitempty"`
	DiscussionType      string              `json:"discussion_type,omitempty"`
	FullDescription     string              `json:"full_description,omitempty"`
	ImagePath           string              `json:"image_path,omitempty"`
	Status              string              `json:"status,omitempty"`
	CategoryIDs         []FlexInt           `json:"category_ids,omitempty"`
}

// DiscussionDisabled marks products and vendors without reviews
const DiscussionDisabled = "D"

// ProductParams describes the page a product list response belongs to
type ProductParams struct {
	Page         FlexInt `json:"page"`
	ItemsPerPage FlexInt `json:"items_per_page"`
	TotalItems   FlexInt `json:"total_items"`
	SortBy       string  `json:"sort_by,omitempty"`
	SortOrder    string  `json:"sort_order,omitempty"`
	CompanyID    FlexInt `json:"company_id,omitempty"`
	CategoryID   FlexInt `json:"cid,omitempty"`
	Query        string  `json:"q,omitempty"`
}

// Filter represents a product filter offered by a list response
type Filter struct {
	FilterID   FlexInt `json:"filter_id"`
	Filter     string  `json:"filter"`
	FilterType string  `json:"filter_style,omitempty"`
}

// ProductList is a paged, filterable, sortable product listing
type ProductList struct {
	Items     []Product     `json:"products"`
	Params    ProductParams `json:"params"`
	Filters   []Filter      `json:"filters,omitempty"`
	SortBy    string        `json:"sort_by,omitempty"`
	SortOrder string        `json:"sort_order,omitempty"`
	HasMore   bool          `json:"has_more"`
	Fetching  bool          `json:"-"`
}

// ProductDetail is the currently viewed product
type ProductDetail struct {
	Product        Product         `json:"product"`
	Options        []ProductOption `json:"options"`
	QtyStep        int             `json:"qty_step"`
	Amount         int             `json:"amount"`
	SelectedAmount int             `json:"selected_amount"`
	Fetching       bool            `json:"-"`
}

// Vendor represents a vendor storefront profile
type Vendor struct {
	CompanyID      FlexInt   `json:"company_id"`
	Company        string    `json:"company"`
	Description    string    `json:"description,omitempty"`
	LogoURL        string    `json:"logo_url,omitempty"`
	AverageRating  FlexFloat `json:"average_rating,omitempty"`
	ProductsCount  FlexInt   `json:"products_count,omitempty"`
	DiscussionType string    `json:"discussion_type,omitempty"`
}

// VendorState holds fetched vendors and the one detail screens show
type VendorState struct {
	Items     map[string]Vendor `json:"items,omitempty"`
	CurrentID string            `json:"current_id,omitempty"`
	Fetching  bool              `json:"-"`
}

// Category represents a catalog category
type Category struct {
	CategoryID   FlexInt    `json:"category_id"`
	Category     string     `json:"category"`
	ParentID     FlexInt    `json:"parent_id,omitempty"`
	ProductCount FlexInt    `json:"product_count,omitempty"`
	Children     []Category `json:"subcategories,omitempty"`
}

// CategoryList holds the categories of a vendor
type CategoryList struct {
	Items    []Category `json:"items"`
	Fetching bool       `json:"-"`
}

// Post represents one discussion post or rating
type Post struct {
	PostID      FlexInt `json:"post_id"`
	Name        string  `json:"name"`
	Message     string  `json:"message"`
	RatingValue FlexInt `json:"rating_value"`
	Timestamp   FlexInt `json:"timestamp"`
}

// Thread is the paged discussion of one subject
type Thread struct {
	Posts         []Post    `json:"posts"`
	AverageRating FlexFloat `json:"average_rating"`
	Page          int       `json:"page"`
	TotalItems    int       `json:"total_items"`
	HasMore       bool      `json:"has_more"`
	Disabled      bool      `json:"disabled"`
}

// DiscussionState holds threads keyed by subject ("p_12", "m_3")
type DiscussionState struct {
	Items    map[string]Thread `json:"items,omitempty"`
	Fetching bool              `json:"-"`
}

// Order represents a customer order
type Order struct {
	OrderID        FlexInt           `json:"order_id"`
	Status         string            `json:"status"`
	Total          FlexFloat         `json:"total"`
	TotalFormatted Formatted         `json:"total_formatted"`
	Timestamp      FlexInt           `json:"timestamp,omitempty"`
	Firstname      string            `json:"firstname,omitempty"`
	Lastname       string            `json:"lastname,omitempty"`
	Email          string            `json:"email,omitempty"`
	PaymentID      FlexInt           `json:"payment_id,omitempty"`
	Products       Dict[CartProduct] `json:"products,omitempty"`
}

// Order statuses
const (
	OrderStatusOpen       = "O"
	OrderStatusProcessed  = "P"
	OrderStatusComplete   = "C"
	OrderStatusFailed     = "F"
	OrderStatusDeclined   = "D"
	OrderStatusCanceled   = "I"
	OrderStatusIncomplete = "N"
)

// OrderList is a paged order list with a "currently viewed" slot
type OrderList struct {
	Items          []Order `json:"items"`
	Page           int     `json:"page"`
	HasMore        bool    `json:"has_more"`
	Current        Order   `json:"current"`
	LastCompleted  int64   `json:"last_completed,omitempty"`
	Loading        bool    `json:"-"`
	LoadingCurrent bool    `json:"-"`
}

// Notification types
const (
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationInfo    = "info"
)

// Notification is a transient user-facing message
type Notification struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Text           string `json:"text"`
	CloseLastModal bool   `json:"close_last_modal"`
}

// Notifications is the queue of messages waiting to be displayed
type Notifications struct {
	Items []Notification `json:"items"`
}

// ProfileField is one form field definition
type ProfileField struct {
	FieldID     FlexInt `json:"field_id"`
	FieldName   string  `json:"field_name"`
	FieldType   string  `json:"field_type"`
	Description string  `json:"description"`
	Required    string  `json:"required,omitempty"`
}

// ProfileSection groups form fields (contact, billing, shipping)
type ProfileSection struct {
	Description string             `json:"description"`
	Fields      Dict[ProfileField] `json:"fields"`
}

// Profile holds the user's form definitions and stored values
type Profile struct {
	ProfileID FlexInt              `json:"profile_id,omitempty"`
	UserID    FlexInt              `json:"user_id,omitempty"`
	Sections  Dict[ProfileSection] `json:"fields,omitempty"`
	Values    Fields               `json:"values,omitempty"`
	Location  string               `json:"location,omitempty"`
	Action    string               `json:"action,omitempty"`
	Fetching  bool                 `json:"-"`
}

// ImageSelection lists local image URIs chosen in the picker
type ImageSelection struct {
	Selected []string `json:"selected"`
}

// WishList holds the user's saved products keyed by cart id
type WishList struct {
	Products Dict[CartProduct] `json:"products"`
	Fetching bool              `json:"-"`
}

// LayoutBlock is one block of the home layout; its content is rendered as-is
type LayoutBlock struct {
	BlockID FlexInt         `json:"block_id"`
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Layouts holds the home screen layout
type Layouts struct {
	Blocks   []LayoutBlock `json:"blocks"`
	Fetching bool          `json:"-"`
}

// VendorProducts is the vendor console product list
type VendorProducts struct {
	Items          []Product `json:"items"`
	Page           int       `json:"page"`
	HasMore        bool      `json:"has_more"`
	Current        Product   `json:"current"`
	Loading        bool      `json:"-"`
	LoadingCurrent bool      `json:"-"`
}

// CategorySelection is the vendor console category picker
type CategorySelection struct {
	Items    []Category `json:"items"`
	Selected []Category `json:"selected"`
	Loading  bool       `json:"-"`
}
